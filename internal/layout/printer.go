package layout

import (
	"strings"

	"github.com/phobologic/rustlint/internal/syntax"
)

// Printer lays out a token stream that carries no formatting of its own,
// such as a macro expansion. Whitespace and comment tokens in the input are
// ignored, so printing the re-tokenised output gives the same text again.
//
// Lines after the first are indented by IndentWidth spaces per level,
// starting at BaseLevel.
type Printer struct {
	IndentWidth int
	BaseLevel   int
}

// DefaultPrinter returns a Printer with 2-space indentation.
func DefaultPrinter() Printer {
	return Printer{IndentWidth: 2}
}

type printState struct {
	b     strings.Builder
	level int
	width int
}

func (st *printState) newline() {
	st.b.WriteByte('\n')
	st.b.WriteString(strings.Repeat(" ", st.level*st.width))
}

// atLineStart reports whether nothing but indentation follows the last
// line break.
func (st *printState) atLineStart() bool {
	s := st.b.String()
	i := strings.LastIndexByte(s, '\n')
	return i >= 0 && strings.TrimLeft(s[i+1:], " ") == ""
}

// reindent replaces the indentation of the current, empty line.
func (st *printState) reindent() {
	s := st.b.String()
	s = s[:strings.LastIndexByte(s, '\n')]
	st.b.Reset()
	st.b.WriteString(s)
	st.newline()
}

func (st *printState) spaceBefore() {
	s := st.b.String()
	if s != "" && !strings.HasSuffix(s, " ") && !strings.HasSuffix(s, "\n") {
		st.b.WriteByte(' ')
	}
}

// Print returns the laid-out text of tokens.
func (p Printer) Print(tokens []syntax.Node) string {
	var toks []syntax.Node
	for _, t := range tokens {
		if t.IsToken() && !t.IsTrivia() {
			toks = append(toks, t)
		}
	}

	st := &printState{level: p.BaseLevel, width: p.IndentWidth}
	for i, t := range toks {
		text := t.Text()
		var prev, next syntax.Node
		hasNext := i+1 < len(toks)
		if hasNext {
			next = toks[i+1]
		}
		if i > 0 {
			prev = toks[i-1]
		}

		switch {
		case isText(t):
			st.b.WriteString(text)
			if hasNext && !next.IsPunct() {
				st.b.WriteByte(' ')
			}
		case text == "{":
			st.spaceBefore()
			st.b.WriteString("{")
			if hasNext && next.Text() != "}" {
				st.level++
				st.newline()
			}
		case text == "}" && i > 0 && prev.Text() == "{":
			st.b.WriteString("}")
			if hasNext {
				st.newline()
			}
		case text == "}":
			if st.level > 0 {
				st.level--
			}
			if st.atLineStart() {
				st.reindent()
			} else {
				st.newline()
			}
			st.b.WriteString("}")
			if hasNext && !next.IsPunct() {
				st.b.WriteByte('\n')
				st.newline()
			}
		case t.TokenKind() == syntax.TokenLifetime:
			st.b.WriteString(text)
			if hasNext && next.TokenKind() == syntax.TokenIdent {
				st.b.WriteByte(' ')
			}
		case text == ";":
			st.b.WriteString(";")
			if hasNext {
				st.newline()
			}
		case text == "->" || text == "=" || text == "=>":
			st.spaceBefore()
			st.b.WriteString(text)
			st.b.WriteByte(' ')
		default:
			st.b.WriteString(text)
		}
	}
	return st.b.String()
}

func isText(t syntax.Node) bool {
	switch t.TokenKind() {
	case syntax.TokenIdent, syntax.TokenKeyword, syntax.TokenLiteral:
		return true
	}
	return false
}
