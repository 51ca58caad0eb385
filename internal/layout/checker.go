// Package layout checks and produces the token layout of macro invocations.
package layout

import (
	"strings"

	"github.com/phobologic/rustlint/internal/syntax"
)

// Checker decides whether a construct respects a maximum line width and an
// indentation that follows the nesting of its delimiters.
//
// A '{' opens a level unless it is immediately closed. A '(' or '[' opens a
// level only when a line break follows it. Every line inside the construct
// must be indented by the indentation of the construct's own line plus
// IndentWidth per open level; a line starting with the closer of a level
// sits one level out.
type Checker struct {
	LineWidth   int
	IndentWidth int
	TabWidth    int
}

// DefaultChecker returns a Checker with an 80 column limit and 4-space
// indentation.
func DefaultChecker() Checker {
	return Checker{LineWidth: 80, IndentWidth: 4, TabWidth: 4}
}

// scanState is the state of one left-to-right scan.
type scanState struct {
	width int    // display width of the current line so far
	level int    // open indentation levels
	open  []bool // per open delimiter, whether it opened a level

	awaiting bool   // a line break was seen and the next line has no significant token yet
	lead     string // whitespace collected since that line break
}

// NeedsFormatting scans the tokens of n and reports the first line that is
// too wide or wrongly indented. A scan that finds neither reports false.
func (c Checker) NeedsFormatting(n syntax.Node) bool {
	base := syntax.LineIndent(n, c.TabWidth)
	st := &scanState{width: syntax.StartColumn(n, c.TabWidth)}
	toks := n.Tokens()

	for i, t := range toks {
		text := t.Text()
		kind := t.TokenKind()

		if st.awaiting {
			if kind == syntax.TokenWhitespace {
				if strings.Contains(text, "\n") {
					st.lead = afterBreak(text)
					st.width = c.width(st.lead)
				} else {
					st.lead += text
					st.width += c.width(text)
				}
				continue
			}
			st.awaiting = false
			if c.indentOf(st.lead) != base+c.expectedLevel(st, t)*c.IndentWidth {
				return true
			}
		}

		if nl := strings.IndexByte(text, '\n'); nl >= 0 {
			if st.width+c.width(text[:nl]) > c.LineWidth {
				return true
			}
			rest := afterBreak(text)
			st.width = c.width(rest)
			if kind.IsTrivia() {
				st.awaiting = true
				st.lead = rest
			}
			continue
		}

		st.width += c.width(text)
		if t.IsPunct() {
			c.delimiter(st, toks, i)
		}
	}
	return st.width > c.LineWidth
}

// expectedLevel is the level the line starting with t must be indented at.
func (c Checker) expectedLevel(st *scanState, t syntax.Node) int {
	if isCloser(t.Text()) && len(st.open) > 0 && st.open[len(st.open)-1] && st.level > 0 {
		return st.level - 1
	}
	return st.level
}

func (c Checker) delimiter(st *scanState, toks []syntax.Node, i int) {
	switch toks[i].Text() {
	case "{":
		opens := nextSignificant(toks, i) != "}"
		st.push(opens)
	case "(", "[":
		st.push(breaksAfter(toks, i))
	case "}", ")", "]":
		st.pop()
	}
}

func (c Checker) width(s string) int {
	return syntax.TextWidth(s, c.TabWidth)
}

func (c Checker) indentOf(lead string) int {
	return syntax.IndentWidth(lead, c.TabWidth)
}

func (st *scanState) push(opens bool) {
	st.open = append(st.open, opens)
	if opens {
		st.level++
	}
}

func (st *scanState) pop() {
	if len(st.open) == 0 {
		return
	}
	opened := st.open[len(st.open)-1]
	st.open = st.open[:len(st.open)-1]
	if opened && st.level > 0 {
		st.level--
	}
}

// nextSignificant returns the text of the first non-trivia token after i.
func nextSignificant(toks []syntax.Node, i int) string {
	for _, t := range toks[i+1:] {
		if !t.IsTrivia() {
			return t.Text()
		}
	}
	return ""
}

// breaksAfter reports whether a line break follows toks[i] before the next
// significant token.
func breaksAfter(toks []syntax.Node, i int) bool {
	for _, t := range toks[i+1:] {
		if !t.IsTrivia() {
			return false
		}
		if strings.Contains(t.Text(), "\n") {
			return true
		}
	}
	return false
}

func afterBreak(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}

func isCloser(s string) bool {
	return s == "}" || s == ")" || s == "]"
}
