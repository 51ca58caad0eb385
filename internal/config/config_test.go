package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/phobologic/rustlint/internal/diag"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"LineWidth", cfg.Layout.LineWidth, 80},
		{"IndentWidth", cfg.Layout.IndentWidth, 4},
		{"TabWidth", cfg.Layout.TabWidth, 4},
		{"PrettyIndent", cfg.Layout.PrettyIndent, 2},
		{"MaxNesting", cfg.Lint.MaxNesting, 4},
		{"ban_mod", cfg.Lint.Rules["ban_mod"], "error"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s: got %v, want %v", c.name, c.got, c.want)
		}
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadExplicitPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yml")
	data := `layout:
  line_width: 100
lint:
  rules:
    imports: off
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.LineWidth != 100 {
		t.Errorf("LineWidth: got %d, want 100", cfg.Layout.LineWidth)
	}
	// Unspecified fields keep their defaults.
	if cfg.Layout.IndentWidth != 4 {
		t.Errorf("IndentWidth: got %d, want 4", cfg.Layout.IndentWidth)
	}
	if _, on := cfg.RuleSeverity("imports"); on {
		t.Error("imports should be off")
	}
	if sev, on := cfg.RuleSeverity("ban_mod"); !on || sev != diag.SevError {
		t.Errorf("ban_mod: got %v %v, want error enabled", sev, on)
	}
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if got := Discover(dir); got != "" {
		t.Errorf("Discover on empty dir = %q", got)
	}
	for _, name := range []string{".rustlint.yaml", "rustlint.yml"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if got := Discover(dir); filepath.Base(got) != "rustlint.yml" {
		t.Errorf("Discover = %q, want rustlint.yml first", got)
	}
}

func TestLoadWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load("", t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Layout.LineWidth != 80 {
		t.Errorf("LineWidth = %d, want default", cfg.Layout.LineWidth)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"), "")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		edit  func(*Config)
		field string
	}{
		{"zero width", func(c *Config) { c.Layout.LineWidth = 0 }, "layout.line_width"},
		{"negative indent", func(c *Config) { c.Layout.IndentWidth = -2 }, "layout.indent_width"},
		{"bad severity", func(c *Config) { c.Lint.Rules["nesting"] = "fatal" }, "lint.rules.nesting"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := DefaultConfig()
			tt.edit(cfg)
			var ce *Error
			if err := cfg.Validate(); !errors.As(err, &ce) {
				t.Fatalf("Validate() = %v, want *Error", err)
			}
			if ce.Field != tt.field {
				t.Errorf("field = %q, want %q", ce.Field, tt.field)
			}
		})
	}
}

func TestLoadInvalidReportsPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "rustlint.yml")
	if err := os.WriteFile(path, []byte("layout:\n  tab_width: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path, "")
	var ce *Error
	if !errors.As(err, &ce) || ce.Path != path {
		t.Errorf("err = %v, want *Error for %s", err, path)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()

	data, err := Marshal(DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "rustlint.yml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path, "")
	if err != nil {
		t.Fatal(err)
	}
	again, err := Marshal(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if string(again) != string(data) {
		t.Errorf("marshal not stable:\n%s\n---\n%s", data, again)
	}
}
