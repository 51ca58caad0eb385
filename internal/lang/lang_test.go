package lang

import (
	"testing"
)

func TestForExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ext  string
		want string
	}{
		{".rs", "rust"},
		{".py", ""},
		{".go", ""},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.ext, func(t *testing.T) {
			t.Parallel()
			got := ForExtension(tt.ext)
			if got != tt.want {
				t.Errorf("ForExtension(%q) = %q, want %q", tt.ext, got, tt.want)
			}
		})
	}
}

func TestLanguagesRegistered(t *testing.T) {
	t.Parallel()

	rs, ok := Languages["rust"]
	if !ok {
		t.Fatal("rust language not registered")
	}
	if rs.GetLanguage() == nil {
		t.Error("rust language is nil")
	}
	if Rust() != rs {
		t.Error("Rust() does not return the registered language")
	}
}

func TestNewParser(t *testing.T) {
	t.Parallel()

	p := Rust().NewParser()
	if p == nil {
		t.Fatal("NewParser returned nil")
	}
}

func TestGetTagQuery(t *testing.T) {
	t.Parallel()

	q, err := Rust().GetTagQuery()
	if err != nil {
		t.Fatalf("GetTagQuery: %v", err)
	}
	if q == nil {
		t.Fatal("query is nil")
	}
	again, err := Rust().GetTagQuery()
	if err != nil || again != q {
		t.Error("query should be compiled once and shared")
	}
}
