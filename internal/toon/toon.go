// Package toon implements TOON (Token-Oriented Object Notation) encoding.
package toon

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/model"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Encode converts a Report into TOON format.
func Encode(rep *model.Report) string {
	var parts []string

	parts = append(parts, fmt.Sprintf("root: %s", encodeValue(rep.Root)))

	var fileRows [][]string
	for _, path := range rep.Files {
		errs, warns := rep.Counts(path)
		fileRows = append(fileRows, []string{path, strconv.Itoa(errs), strconv.Itoa(warns)})
	}
	parts = append(parts, formatTabular("files", []string{"path", "errors", "warnings"}, fileRows))
	parts = append(parts, EncodeDiagnostics(rep.Diagnostics))

	return strings.Join(parts, "\n")
}

// EncodeDiagnostics formats records as a single tabular block. Line and
// column are empty for diagnostics about a whole file.
func EncodeDiagnostics(records []diag.Record) string {
	rows := make([][]string, 0, len(records))
	for i := range records {
		r := &records[i]
		line, col := "", ""
		if r.HasSpan {
			line, col = strconv.Itoa(r.Line), strconv.Itoa(r.Column)
		}
		rows = append(rows, []string{
			r.File,
			line,
			col,
			r.Severity.String(),
			r.Rule,
			r.Message,
			r.Suggestion,
		})
	}
	columns := []string{"file", "line", "column", "severity", "rule", "message", "suggestion"}
	return formatTabular("diagnostics", columns, rows)
}

// Renderer writes diagnostics as a TOON document. Files lists every file
// checked, including clean ones.
type Renderer struct {
	Root  string
	Files []string
}

// Render implements diag.Renderer.
func (r *Renderer) Render(w io.Writer, records []diag.Record) error {
	rep := &model.Report{Root: r.Root, Files: r.Files, Diagnostics: records}
	_, err := io.WriteString(w, Encode(rep)+"\n")
	return err
}

func formatTabular(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
