package lint

import (
	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/engine"
	"github.com/phobologic/rustlint/internal/layout"
	"github.com/phobologic/rustlint/internal/syntax"
)

// MacroFmtName is the config key of MacroFmt.
const MacroFmtName = "macro_fmt"

// MacroFmt reports macro invocations whose lines are too wide or whose
// indentation does not follow their delimiters. The suggestion is the
// invocation laid out by the printer at the checker's indentation.
type MacroFmt struct {
	ctx     *engine.Context
	checker layout.Checker
	found   []syntax.Node
}

// NewMacroFmt creates the rule for one file.
func NewMacroFmt(ctx *engine.Context) engine.Rule {
	l := ctx.Config.Layout
	return &MacroFmt{
		ctx: ctx,
		checker: layout.Checker{
			LineWidth:   l.LineWidth,
			IndentWidth: l.IndentWidth,
			TabWidth:    l.TabWidth,
		},
	}
}

func (r *MacroFmt) Name() string { return MacroFmtName }

func (r *MacroFmt) Match(n syntax.Node) bool {
	return n.Kind() == syntax.MacroCall
}

func (r *MacroFmt) Accumulate(n syntax.Node) {
	if r.checker.NeedsFormatting(n) {
		r.found = append(r.found, n)
	}
}

func (r *MacroFmt) Finalize() []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, n := range r.found {
		p := layout.Printer{
			IndentWidth: r.checker.IndentWidth,
			BaseLevel:   syntax.LineIndent(n, r.checker.TabWidth) / r.checker.IndentWidth,
		}
		out = append(out, r.ctx.Spanned("Macro invocation is not formatted correctly.", p.Print(n.Tokens()), n))
	}
	return out
}
