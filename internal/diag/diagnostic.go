// Package diag defines lint diagnostics and the emitter that collects and
// renders them.
package diag

import (
	"fmt"
	"strings"

	"github.com/phobologic/rustlint/internal/syntax"
)

// Severity is the importance of a diagnostic.
type Severity uint8

const (
	SevWarning Severity = iota
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevWarning:
		return "warning"
	case SevError:
		return "error"
	}
	return "unknown"
}

// ParseSeverity parses "warning" or "error".
func ParseSeverity(s string) (Severity, error) {
	switch strings.ToLower(s) {
	case "warning", "warn":
		return SevWarning, nil
	case "error":
		return SevError, nil
	}
	return 0, fmt.Errorf("unknown severity %q", s)
}

// Info is the part shared by every diagnostic.
type Info struct {
	Rule       string
	Severity   Severity
	Message    string
	Suggestion string
	File       string
}

// Diagnostic is a rule violation. Simple and Spanned are produced by rules;
// Record is the resolved form that no longer references a tree.
type Diagnostic interface {
	Resolve() Record
}

// Simple is a diagnostic about a whole file.
type Simple struct {
	Info
}

// Resolve copies the diagnostic without a location.
func (d Simple) Resolve() Record {
	return Record{
		Rule:       d.Rule,
		Severity:   d.Severity,
		Message:    d.Message,
		Suggestion: d.Suggestion,
		File:       d.File,
	}
}

// Spanned is a diagnostic anchored to a node. Its span is the node's span,
// so it always lies within the node's tree.
type Spanned struct {
	Info
	Node syntax.Node
}

// NewSpanned anchors info to n.
func NewSpanned(info Info, n syntax.Node) Spanned {
	return Spanned{Info: info, Node: n}
}

// Span returns the byte range the diagnostic covers.
func (d Spanned) Span() syntax.Span {
	return d.Node.Span()
}

// Resolve computes the 1-based line and column of the span by counting the
// characters of the root's text up to the span start, and keeps the source
// line for excerpts.
func (d Spanned) Resolve() Record {
	sp := d.Node.Span()
	text := d.Node.Root().Text()
	start := syntax.PositionOf(text, sp.Start)
	end := syntax.PositionOf(text, sp.End)

	lineStart := strings.LastIndexByte(text[:sp.Start], '\n') + 1
	lineEnd := strings.IndexByte(text[sp.Start:], '\n')
	if lineEnd < 0 {
		lineEnd = len(text)
	} else {
		lineEnd += int(sp.Start)
	}

	return Record{
		Rule:       d.Rule,
		Severity:   d.Severity,
		Message:    d.Message,
		Suggestion: d.Suggestion,
		File:       d.File,
		HasSpan:    true,
		Start:      sp.Start,
		End:        sp.End,
		Line:       start.Line,
		Column:     start.Column,
		EndLine:    end.Line,
		EndColumn:  end.Column,
		SourceLine: text[lineStart:lineEnd],
	}
}

// Record is a resolved diagnostic. It carries everything needed to render
// it after the tree is gone and is what the result cache stores.
type Record struct {
	Rule       string   `msgpack:"rule"`
	Severity   Severity `msgpack:"severity"`
	Message    string   `msgpack:"message"`
	Suggestion string   `msgpack:"suggestion"`
	File       string   `msgpack:"file"`

	HasSpan    bool   `msgpack:"has_span"`
	Start      uint32 `msgpack:"start"`
	End        uint32 `msgpack:"end"`
	Line       int    `msgpack:"line"`
	Column     int    `msgpack:"column"`
	EndLine    int    `msgpack:"end_line"`
	EndColumn  int    `msgpack:"end_column"`
	SourceLine string `msgpack:"source_line"`
}

// Resolve returns r.
func (r Record) Resolve() Record {
	return r
}

// Location formats file:line:col, or just the file for simple diagnostics.
func (r Record) Location() string {
	if !r.HasSpan {
		return r.File
	}
	return fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column)
}
