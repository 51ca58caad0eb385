// Package model defines the report of a lint run.
package model

import "github.com/phobologic/rustlint/internal/diag"

// Report is the complete outcome of a run, ready for serialization.
type Report struct {
	Root        string
	// Files lists every file checked, clean ones included.
	Files       []string
	Diagnostics []diag.Record
}

// Counts returns the number of errors and warnings reported for path, or
// for every file when path is empty.
func (r *Report) Counts(path string) (errors, warnings int) {
	for i := range r.Diagnostics {
		d := &r.Diagnostics[i]
		if path != "" && d.File != path {
			continue
		}
		if d.Severity == diag.SevError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}
