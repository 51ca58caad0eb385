package lint

import (
	"fmt"

	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/engine"
	"github.com/phobologic/rustlint/internal/syntax"
)

// ImportsName is the config key of Imports.
const ImportsName = "imports"

// Imports requires use declarations to come before the other items of a
// file, module or block. extern crate and out-of-line mod declarations may
// precede them.
type Imports struct {
	ctx   *engine.Context
	found []misplacedUse
}

type misplacedUse struct {
	use   syntax.Node
	after syntax.Node
}

// NewImports creates the rule for one file.
func NewImports(ctx *engine.Context) engine.Rule {
	return &Imports{ctx: ctx}
}

func (r *Imports) Name() string { return ImportsName }

func (r *Imports) Match(n syntax.Node) bool {
	return n.Kind() == syntax.UseDecl
}

func (r *Imports) Accumulate(n syntax.Node) {
	parent, ok := n.Parent()
	if !ok {
		return
	}
	for _, sib := range parent.NamedChildren() {
		if sib.ID() == n.ID() {
			return
		}
		if syntax.IsItem(sib.Kind()) && !mayPrecedeUse(sib) {
			r.found = append(r.found, misplacedUse{use: n, after: sib})
			return
		}
	}
}

func (r *Imports) Finalize() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, m := range r.found {
		sugg := fmt.Sprintf("move this `use` above the item on line %d", m.after.Position().Line)
		out = append(out, r.ctx.Spanned("Imports must be grouped before other items.", sugg, m.use))
	}
	return out
}

func mayPrecedeUse(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.UseDecl, syntax.ExternCrate:
		return true
	case syntax.ModItem:
		_, inline := n.Field("body")
		return !inline
	}
	return false
}
