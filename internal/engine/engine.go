// Package engine drives rules over a syntax tree and collects their
// diagnostics.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/phobologic/rustlint/internal/config"
	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/expand"
	"github.com/phobologic/rustlint/internal/syntax"
)

// Rule is an independent check. A fresh Rule is created for every file.
// Accumulate is called once per matching node in pre-order; Finalize is
// called once after the traversal.
type Rule interface {
	// Name returns the config key for this rule (e.g., "ban_mod").
	Name() string
	Match(n syntax.Node) bool
	Accumulate(n syntax.Node)
	Finalize() []diag.Diagnostic
}

// Factory creates a rule for one file.
type Factory func(ctx *Context) Rule

// Registration pairs a rule name with its factory.
type Registration struct {
	Name string
	New  Factory
}

// Context is what a rule knows about the file it checks.
type Context struct {
	Path     string
	Tree     *syntax.Tree
	Config   *config.Config
	Expander expand.Expander
	Severity diag.Severity

	rule string
}

// Info fills in the rule name, file and severity of a diagnostic.
func (c *Context) Info(message, suggestion string) diag.Info {
	return diag.Info{
		Rule:       c.rule,
		Severity:   c.Severity,
		Message:    message,
		Suggestion: suggestion,
		File:       c.Path,
	}
}

// Simple creates a diagnostic about the whole file.
func (c *Context) Simple(message, suggestion string) diag.Simple {
	return diag.Simple{Info: c.Info(message, suggestion)}
}

// Spanned creates a diagnostic anchored to n.
func (c *Context) Spanned(message, suggestion string, n syntax.Node) diag.Spanned {
	return diag.NewSpanned(c.Info(message, suggestion), n)
}

// PathError reports a file path that cannot be shown to the user.
type PathError struct {
	Path string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("file path %s is not printable UTF-8", strconv.Quote(e.Path))
}

// Validator runs a fixed, ordered set of rules over one file at a time.
// It holds no per-file state and may be shared between goroutines as long
// as each call gets its own Expander.
type Validator struct {
	Rules  []Registration
	Config *config.Config
}

// Validate runs every enabled rule over tree. Diagnostics come back in rule
// order, then in each rule's emission order; an empty result means the file
// is clean. A path that is not printable UTF-8 is a *PathError; a tree that
// lacks a child its grammar requires aborts the file with a
// *syntax.ContractError.
func (v *Validator) Validate(tree *syntax.Tree, path string, exp expand.Expander) (diags []diag.Diagnostic, err error) {
	if !printable(path) {
		return nil, &PathError{Path: path}
	}
	if exp == nil {
		exp = expand.None{}
	}
	cfg := v.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	defer func() {
		if r := recover(); r != nil {
			var ce *syntax.ContractError
			if e, ok := r.(error); ok && errors.As(e, &ce) {
				diags, err = nil, fmt.Errorf("%s: %w", path, ce)
				return
			}
			panic(r)
		}
	}()

	rules := make([]Rule, 0, len(v.Rules))
	for _, reg := range v.Rules {
		sev, enabled := cfg.RuleSeverity(reg.Name)
		if !enabled {
			continue
		}
		ctx := &Context{
			Path:     path,
			Tree:     tree,
			Config:   cfg,
			Expander: exp,
			Severity: sev,
			rule:     reg.Name,
		}
		rules = append(rules, reg.New(ctx))
	}

	for _, n := range tree.Root().Descendants() {
		for _, r := range rules {
			if r.Match(n) {
				r.Accumulate(n)
			}
		}
	}

	diags = []diag.Diagnostic{}
	for _, r := range rules {
		diags = append(diags, r.Finalize()...)
	}
	return diags, nil
}

func printable(path string) bool {
	if !utf8.ValidString(path) {
		return false
	}
	for _, r := range path {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
