// Package rules manages registration of lint rules.
package rules

import (
	"github.com/phobologic/rustlint/internal/engine"
)

var registered []engine.Registration

// Register adds a rule to the registry. Rules run and report in the order
// they are registered.
func Register(name string, factory engine.Factory) {
	registered = append(registered, engine.Registration{Name: name, New: factory})
}

// Registered returns all registered rules in execution order.
func Registered() []engine.Registration {
	return registered
}

// Names returns the names of the registered rules in execution order.
func Names() []string {
	names := make([]string, len(registered))
	for i, r := range registered {
		names[i] = r.Name
	}
	return names
}
