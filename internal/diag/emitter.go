package diag

import (
	"io"
	"sync"

	"github.com/phobologic/rustlint/internal/syntax"
)

// Renderer writes resolved diagnostics to w.
type Renderer interface {
	Render(w io.Writer, records []Record) error
}

// Emitter accumulates diagnostics from any number of validation passes and
// renders them in the order they were added. Adding is safe for concurrent
// use.
//
// Diagnostics are resolved as they are added, so the trees they came from
// may be dropped before Emit.
type Emitter struct {
	mu       sync.Mutex
	records  []Record
	renderer Renderer
}

// NewEmitter creates an emitter that renders with r, or with a plain
// TextRenderer when r is nil.
func NewEmitter(r Renderer) *Emitter {
	if r == nil {
		r = &TextRenderer{Excerpt: true}
	}
	return &Emitter{renderer: r}
}

// AddSimple adds a diagnostic about a whole file.
func (e *Emitter) AddSimple(info Info) {
	e.Add(Simple{Info: info})
}

// AddSpanned adds a diagnostic anchored to n.
func (e *Emitter) AddSpanned(info Info, n syntax.Node) {
	e.Add(NewSpanned(info, n))
}

// Add resolves and appends ds.
func (e *Emitter) Add(ds ...Diagnostic) {
	if len(ds) == 0 {
		return
	}
	recs := make([]Record, len(ds))
	for i, d := range ds {
		recs[i] = d.Resolve()
	}
	e.mu.Lock()
	e.records = append(e.records, recs...)
	e.mu.Unlock()
}

// HasErrors reports whether any diagnostic has been added.
func (e *Emitter) HasErrors() bool {
	return e.Len() > 0
}

// Len returns the number of pending diagnostics.
func (e *Emitter) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.records)
}

// Counts returns the number of pending diagnostics per severity.
func (e *Emitter) Counts() (errors, warnings int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i := range e.records {
		if e.records[i].Severity == SevError {
			errors++
		} else {
			warnings++
		}
	}
	return errors, warnings
}

// Emit renders every pending diagnostic to w and empties the emitter. A
// write failure is returned; the diagnostics are consumed either way.
func (e *Emitter) Emit(w io.Writer) error {
	e.mu.Lock()
	recs := e.records
	e.records = nil
	e.mu.Unlock()
	return e.renderer.Render(w, recs)
}
