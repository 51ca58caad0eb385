// Package config defines the configuration types and defaults for rustlint.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/phobologic/rustlint/internal/diag"
)

// Config is the top-level configuration.
type Config struct {
	Layout LayoutConfig `yaml:"layout"`
	Lint   LintConfig   `yaml:"lint"`
}

// LayoutConfig holds the settings of the macro layout check and of the
// printer that renders suggestions.
type LayoutConfig struct {
	LineWidth    int `yaml:"line_width"`
	IndentWidth  int `yaml:"indent_width"`
	TabWidth     int `yaml:"tab_width"`
	PrettyIndent int `yaml:"pretty_indent"`
}

// LintConfig holds rule settings. Rules maps a rule name to "error",
// "warning" or "off"; Exclude holds gitignore-style patterns of files to
// skip.
type LintConfig struct {
	MaxNesting int               `yaml:"max_nesting"`
	Rules      map[string]string `yaml:"rules"`
	Exclude    []string          `yaml:"exclude"`
}

// Off disables a rule.
const Off = "off"

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Layout: LayoutConfig{
			LineWidth:    80,
			IndentWidth:  4,
			TabWidth:     4,
			PrettyIndent: 2,
		},
		Lint: LintConfig{
			MaxNesting: 4,
			Rules: map[string]string{
				"ban_mod":   "error",
				"macro_fmt": "warning",
				"imports":   "warning",
				"nesting":   "warning",
			},
		},
	}
}

// Error reports an invalid configuration value.
type Error struct {
	Path   string
	Field  string
	Reason string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid config %s: %s: %s", e.Path, e.Field, e.Reason)
}

// Validate checks that widths are positive and rule severities are known.
// It returns the first problem as an *Error.
func (c *Config) Validate() error {
	widths := []struct {
		field string
		v     int
	}{
		{"layout.line_width", c.Layout.LineWidth},
		{"layout.indent_width", c.Layout.IndentWidth},
		{"layout.tab_width", c.Layout.TabWidth},
		{"layout.pretty_indent", c.Layout.PrettyIndent},
		{"lint.max_nesting", c.Lint.MaxNesting},
	}
	for _, w := range widths {
		if w.v <= 0 {
			return &Error{Field: w.field, Reason: fmt.Sprintf("must be positive, got %d", w.v)}
		}
	}

	names := make([]string, 0, len(c.Lint.Rules))
	for name := range c.Lint.Rules {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		v := c.Lint.Rules[name]
		if strings.EqualFold(v, Off) {
			continue
		}
		if _, err := diag.ParseSeverity(v); err != nil {
			return &Error{Field: "lint.rules." + name, Reason: err.Error()}
		}
	}
	return nil
}

// RuleSeverity returns the configured severity of a rule. enabled is false
// when the rule is turned off. Rules without an entry are warnings.
func (c *Config) RuleSeverity(name string) (sev diag.Severity, enabled bool) {
	v, ok := c.Lint.Rules[name]
	if !ok {
		return diag.SevWarning, true
	}
	if strings.EqualFold(v, Off) {
		return 0, false
	}
	sev, err := diag.ParseSeverity(v)
	if err != nil {
		return diag.SevWarning, true
	}
	return sev, true
}
