package syntax

import "fmt"

// ContractError reports a child the grammar guarantees but the tree lacks.
// It is raised as a panic by Node.Required and recovered per file.
type ContractError struct {
	Kind  Kind
	Field string
	Span  Span
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("malformed tree: %s at %s has no %q child", e.Kind, e.Span, e.Field)
}
