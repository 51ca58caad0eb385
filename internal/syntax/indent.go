package syntax

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// LineIndent returns the indentation width of the line n starts on. It walks
// n's ancestors and their preceding siblings until it reaches an element
// containing a line break and measures the space/tab run that follows the
// break, with each tab worth tabWidth spaces. A node on the first line of
// the file is measured from the start of the text.
func LineIndent(n Node, tabWidth int) int {
	var prefix string
	for p, ok := n, true; ok; p, ok = p.Parent() {
		for s, more := p.PrevSiblingOrToken(); more; s, more = s.PrevSiblingOrToken() {
			text := s.Text()
			if i := strings.LastIndexByte(text, '\n'); i >= 0 {
				return IndentWidth(text[i+1:]+prefix, tabWidth)
			}
			prefix = text + prefix
		}
	}
	return IndentWidth(prefix, tabWidth)
}

// IndentWidth measures the leading run of spaces and tabs of s, after its
// last line break if it has one. Tabs count as tabWidth spaces.
func IndentWidth(s string, tabWidth int) int {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	width := 0
	for _, r := range s {
		switch r {
		case ' ':
			width++
		case '\t':
			width += tabWidth
		default:
			return width
		}
	}
	return width
}

// StartColumn returns the display width of the text between the start of the
// line containing n and n itself, with each tab worth tabWidth columns.
func StartColumn(n Node, tabWidth int) int {
	src := string(n.tree.source[:n.Span().Start])
	if i := strings.LastIndexByte(src, '\n'); i >= 0 {
		src = src[i+1:]
	}
	return TextWidth(src, tabWidth)
}

// TextWidth is the display width of s. Tabs count as tabWidth columns, like
// in IndentWidth; every other rune takes its terminal cell width.
func TextWidth(s string, tabWidth int) int {
	width := 0
	for _, r := range s {
		if r == '\t' {
			width += tabWidth
			continue
		}
		width += runewidth.RuneWidth(r)
	}
	return width
}
