package lint

import (
	"fmt"

	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/engine"
	"github.com/phobologic/rustlint/internal/expand"
	"github.com/phobologic/rustlint/internal/syntax"
	"github.com/phobologic/rustlint/internal/visit"
)

// NestingName is the config key of Nesting.
const NestingName = "nesting"

// maxExpansionDepth bounds macro expansion inside expansions.
const maxExpansionDepth = 4

// Nesting reports functions whose control flow nests deeper than the
// configured limit. Nested functions are measured on their own. Macro
// invocations that expand to statements count as their expansion.
type Nesting struct {
	ctx   *engine.Context
	limit int
	found []deepFn
}

type deepFn struct {
	fn    syntax.Node
	depth int
}

// NewNesting creates the rule for one file.
func NewNesting(ctx *engine.Context) engine.Rule {
	return &Nesting{ctx: ctx, limit: ctx.Config.Lint.MaxNesting}
}

func (r *Nesting) Name() string { return NestingName }

func (r *Nesting) Match(n syntax.Node) bool {
	return n.Kind() == syntax.FunctionItem
}

func (r *Nesting) Accumulate(n syntax.Node) {
	body, ok := n.Field("body")
	if !ok {
		return
	}
	d := &depthVisitor{exp: r.ctx.Expander}
	d.V = d
	d.Block(body)
	if d.max > r.limit {
		r.found = append(r.found, deepFn{fn: n, depth: d.max})
	}
}

func (r *Nesting) Finalize() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, f := range r.found {
		name := f.fn.Required("name")
		msg := fmt.Sprintf("Function `%s` nests control flow %d levels deep (max %d).", name.Text(), f.depth, r.limit)
		out = append(out, r.ctx.Spanned(msg, "extract the innermost blocks into helper functions", name))
	}
	return out
}

// depthVisitor measures the deepest control-flow nesting below a block.
type depthVisitor struct {
	visit.Base
	exp       expand.Expander
	depth     int
	max       int
	expanding int
}

// Fn stops at nested functions.
func (d *depthVisitor) Fn(syntax.Node) {}

func (d *depthVisitor) Expr(n syntax.Node) {
	if !opensLevel(n) {
		visit.WalkExpr(d, n)
		return
	}
	d.depth++
	if d.depth > d.max {
		d.max = d.depth
	}
	visit.WalkExpr(d, n)
	d.depth--
}

func (d *depthVisitor) MacroCall(n syntax.Node) {
	if d.exp == nil || d.expanding >= maxExpansionDepth {
		return
	}
	tree, ok := d.exp.Expand(n)
	if !ok {
		return
	}
	body, ok := expand.StatementBody(tree)
	if !ok {
		return
	}
	d.expanding++
	d.Block(body)
	d.expanding--
}

// opensLevel reports whether n is a control-flow expression. The if of an
// else-if chain continues its parent's level.
func opensLevel(n syntax.Node) bool {
	switch n.Kind() {
	case syntax.IfExpr, syntax.IfLetExpr:
		if p, ok := n.Parent(); ok && p.Kind() == syntax.ElseClause {
			return false
		}
		return true
	case syntax.WhileExpr, syntax.WhileLetExpr, syntax.LoopExpr, syntax.ForExpr, syntax.MatchExpr:
		return true
	}
	return false
}
