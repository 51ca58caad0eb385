package diag

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// TextRenderer prints diagnostics in a compiler-like layout:
//
//	error[macro_fmt]: macro invocation is not formatted
//	  --> src/lib.rs:3:5
//	   |
//	 3 |     foo! { a,
//	   |     ^^^^^^^^^
//	   = help: ...
type TextRenderer struct {
	Color   bool
	Excerpt bool
}

type palette struct {
	err, warn, bold, gutter, help *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		bold:   color.New(color.Bold),
		gutter: color.New(color.FgBlue, color.Bold),
		help:   color.New(color.FgCyan),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.bold, p.gutter, p.help} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Render writes every record followed by a blank line.
func (r *TextRenderer) Render(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	p := newPalette(r.Color)
	for i := range records {
		r.render(bw, p, &records[i])
	}
	return bw.Flush()
}

func (r *TextRenderer) render(w io.Writer, p palette, rec *Record) {
	sev := p.warn
	if rec.Severity == SevError {
		sev = p.err
	}
	fmt.Fprintf(w, "%s%s\n", sev.Sprintf("%s[%s]", rec.Severity, rec.Rule), p.bold.Sprint(": "+rec.Message))

	pad := ""
	if rec.HasSpan {
		pad = strings.Repeat(" ", len(strconv.Itoa(rec.Line)))
	}
	fmt.Fprintf(w, "%s%s %s\n", pad, p.gutter.Sprint("-->"), rec.Location())

	if rec.HasSpan && r.Excerpt {
		bar := p.gutter.Sprint("|")
		fmt.Fprintf(w, "%s %s\n", pad, bar)
		fmt.Fprintf(w, "%s %s %s\n", p.gutter.Sprint(rec.Line), bar, rec.SourceLine)
		fmt.Fprintf(w, "%s %s %s%s\n", pad, bar, caretPrefix(rec), sev.Sprint(strings.Repeat("^", caretWidth(rec))))
	}

	if rec.Suggestion != "" {
		lines := strings.Split(strings.TrimRight(rec.Suggestion, "\n"), "\n")
		fmt.Fprintf(w, "%s %s %s %s\n", pad, p.gutter.Sprint("="), p.help.Sprint("help:"), lines[0])
		indent := pad + strings.Repeat(" ", len(" = help: "))
		for _, l := range lines[1:] {
			if l == "" {
				fmt.Fprintln(w)
				continue
			}
			fmt.Fprintf(w, "%s%s\n", indent, l)
		}
	}
	fmt.Fprintln(w)
}

// caretPrefix blanks out the source line before the span. Tabs are kept so
// the carets line up however the terminal expands them.
func caretPrefix(rec *Record) string {
	var b strings.Builder
	for _, r := range prefixRunes(rec.SourceLine, rec.Column-1) {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

// caretWidth underlines the span on its first line, at least one column.
func caretWidth(rec *Record) int {
	before := prefixRunes(rec.SourceLine, rec.Column-1)
	rest := rec.SourceLine[len(before):]
	if rec.EndLine == rec.Line {
		rest = prefixRunes(rest, rec.EndColumn-rec.Column)
	}
	if w := runewidth.StringWidth(rest); w > 0 {
		return w
	}
	return 1
}

func prefixRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	i := 0
	for j := range s {
		if i == n {
			return s[:j]
		}
		i++
	}
	return s
}
