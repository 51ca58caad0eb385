package toon

import (
	"bytes"
	"strings"
	"testing"

	"github.com/phobologic/rustlint/internal/diag"
	"github.com/phobologic/rustlint/internal/model"
)

func TestEncodeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", `""`},
		{"simple", "hello", "hello"},
		{"leading space", " hello", `" hello"`},
		{"trailing space", "hello ", `"hello "`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"carriage return", "a\rb", `"a\rb"`},
		{"true keyword", "true", `"true"`},
		{"True keyword", "True", `"True"`},
		{"false keyword", "false", `"false"`},
		{"null keyword", "null", `"null"`},
		{"integer", "42", "42"},
		{"negative integer", "-1", "-1"},
		{"float", "3.14", "3.14"},
		{"zero", "0", "0"},
		{"leading zero invalid", "01", "01"},
		{"comma", "a,b", `"a,b"`},
		{"colon", "a:b", `"a:b"`},
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"bracket", "a[b", `"a[b"`},
		{"brace", "a{b", `"a{b"`},
		{"dash prefix", "-foo", `"-foo"`},
		{"path", "src/main.rs", "src/main.rs"},
		{"scoped path", "std::fmt", `"std::fmt"`},
		{"backticks", "remove `src/mod.rs`", "remove `src/mod.rs`"},
		{"signature no special", "fn run(&self) -> u8", "fn run(&self) -> u8"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := encodeValue(tt.in)
			if got != tt.want {
				t.Errorf("encodeValue(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}


func sampleReport() *model.Report {
	return &model.Report{
		Root:  "crate",
		Files: []string{"src/lib.rs", "src/main.rs", "src/mod.rs"},
		Diagnostics: []diag.Record{
			{
				Rule:       "macro_fmt",
				Severity:   diag.SevWarning,
				Message:    "Macro invocation is not formatted correctly.",
				Suggestion: "foo!(a)",
				File:       "src/lib.rs",
				HasSpan:    true,
				Line:       3,
				Column:     5,
			},
			{
				Rule:       "ban_mod",
				Severity:   diag.SevError,
				Message:    "Module files (mod.rs) are banned.",
				Suggestion: "create a `src.rs` file and `src` folder and remove `src/mod.rs`",
				File:       "src/mod.rs",
			},
		},
	}
}

func TestEncode(t *testing.T) {
	t.Parallel()

	want := []string{
		"root: crate",
		"files[3]{path,errors,warnings}:",
		"  src/lib.rs,0,1",
		"  src/main.rs,0,0",
		"  src/mod.rs,1,0",
		"diagnostics[2]{file,line,column,severity,rule,message,suggestion}:",
		"  src/lib.rs,3,5,warning,macro_fmt,Macro invocation is not formatted correctly.,foo!(a)",
		"  src/mod.rs,\"\",\"\",error,ban_mod,Module files (mod.rs) are banned.,create a `src.rs` file and `src` folder and remove `src/mod.rs`",
	}

	lines := strings.Split(Encode(sampleReport()), "\n")
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	got := Encode(&model.Report{Root: "empty"})
	if !strings.Contains(got, "files[0]{path,errors,warnings}:") {
		t.Errorf("expected empty files section, got:\n%s", got)
	}
	if !strings.Contains(got, "diagnostics[0]{file,line,column,severity,rule,message,suggestion}:") {
		t.Errorf("expected empty diagnostics section, got:\n%s", got)
	}
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	rep := sampleReport()
	r := &Renderer{Root: rep.Root, Files: rep.Files}
	var buf bytes.Buffer
	if err := r.Render(&buf, rep.Diagnostics); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got, want := buf.String(), Encode(rep)+"\n"; got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestCounts(t *testing.T) {
	t.Parallel()

	rep := sampleReport()
	if e, w := rep.Counts(""); e != 1 || w != 1 {
		t.Errorf("Counts(\"\") = %d, %d", e, w)
	}
	if e, w := rep.Counts("src/main.rs"); e != 0 || w != 0 {
		t.Errorf("Counts(src/main.rs) = %d, %d", e, w)
	}
}
