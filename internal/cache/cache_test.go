package cache

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/phobologic/rustlint/internal/diag"
)

func sampleRecords() []diag.Record {
	return []diag.Record{
		{
			Rule:       "macro_fmt",
			Severity:   diag.SevWarning,
			Message:    "Macro invocation is not formatted correctly.",
			Suggestion: "foo!(a)",
			File:       "src/lib.rs",
			HasSpan:    true,
			Start:      10,
			End:        20,
			Line:       2,
			Column:     5,
			EndLine:    3,
			EndColumn:  2,
			SourceLine: "    foo!(",
		},
		{Rule: "ban_mod", Severity: diag.SevError, File: "src/mod.rs", Message: "banned"},
	}
}

func TestKey(t *testing.T) {
	t.Parallel()

	base := Key("src/lib.rs", []byte("fn main() {}"), []byte("cfg"), "1.0.0")
	if base != Key("src/lib.rs", []byte("fn main() {}"), []byte("cfg"), "1.0.0") {
		t.Fatal("Key is not deterministic")
	}

	variants := map[string]Digest{
		"path":    Key("src/main.rs", []byte("fn main() {}"), []byte("cfg"), "1.0.0"),
		"content": Key("src/lib.rs", []byte("fn main() { }"), []byte("cfg"), "1.0.0"),
		"config":  Key("src/lib.rs", []byte("fn main() {}"), []byte("cfg2"), "1.0.0"),
		"version": Key("src/lib.rs", []byte("fn main() {}"), []byte("cfg"), "1.0.1"),
		"shifted": Key("src/lib.rsf", []byte("n main() {}"), []byte("cfg"), "1.0.0"),
	}
	for name, k := range variants {
		if k == base {
			t.Errorf("changing %s did not change the key", name)
		}
	}
}

func TestPutGet(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key("src/lib.rs", []byte("x"), nil, "test")

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Fatalf("Get on empty cache = %v, %v", ok, err)
	}

	want := sampleRecords()
	if err := c.Put(key, "src/lib.rs", want); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCleanFileIsHit(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key("src/lib.rs", []byte("clean"), nil, "test")
	if err := c.Put(key, "src/lib.rs", nil); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := c.Get(key)
	if err != nil || !ok {
		t.Fatalf("Get = %v, %v", ok, err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("records = %#v, want empty non-nil", got)
	}
}

func TestSchemaMismatchIsMiss(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key("src/lib.rs", []byte("x"), nil, "test")
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	data, err := msgpack.Marshal(&Entry{Schema: schemaVersion + 1, Path: "src/lib.rs"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, ok, err := c.Get(key); err != nil || ok {
		t.Errorf("Get = %v, %v, want miss", ok, err)
	}
}

func TestCorruptEntry(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key("src/lib.rs", []byte("x"), nil, "test")
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte{0xc1}, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := c.Get(key); err == nil {
		t.Error("expected a decode error")
	}
}

func TestClear(t *testing.T) {
	t.Parallel()

	c, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	key := Key("src/lib.rs", []byte("x"), nil, "test")
	if err := c.Put(key, "src/lib.rs", sampleRecords()); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := c.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, _ := c.Get(key); ok {
		t.Error("entry survived Clear")
	}
}

func TestNilCache(t *testing.T) {
	t.Parallel()

	var c *Cache
	key := Key("a", nil, nil, "")
	if err := c.Put(key, "a", sampleRecords()); err != nil {
		t.Errorf("Put: %v", err)
	}
	if _, ok, err := c.Get(key); ok || err != nil {
		t.Errorf("Get = %v, %v", ok, err)
	}
	if err := c.Clear(); err != nil {
		t.Errorf("Clear: %v", err)
	}
}

func TestDefaultDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := DefaultDir("rustlint")
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", "rustlint") {
		t.Errorf("DefaultDir = %q", dir)
	}
}
