package parse

import (
	"strings"
	"testing"

	"github.com/phobologic/rustlint/internal/lang"
	"github.com/phobologic/rustlint/internal/syntax"
)

func setup(t *testing.T) func(source string) *Result {
	t.Helper()
	l := lang.Rust()
	if l == nil {
		t.Fatal("rust language not registered")
	}
	q, err := l.GetTagQuery()
	if err != nil {
		t.Fatalf("GetTagQuery: %v", err)
	}
	return func(source string) *Result {
		p := l.NewParser()
		res, err := File(p, q, []byte(source))
		if err != nil {
			t.Fatalf("File: %v", err)
		}
		return res
	}
}

const sample = `use std::fs;

// entry point
pub fn main() -> Result<(), Error> {
    let x = "hello world";
    println!("{}", x);
}
`

func TestRoundTrip(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	res := parse(sample)
	root := res.Tree.Root()
	if root.Kind() != syntax.SourceFile {
		t.Fatalf("root kind = %q", root.Kind())
	}
	if root.Text() != sample {
		t.Errorf("root text does not reproduce the source")
	}

	var b strings.Builder
	for _, tok := range root.Tokens() {
		b.WriteString(tok.Text())
	}
	if b.String() != sample {
		t.Errorf("token texts do not reproduce the source:\n%s", b.String())
	}
	if res.HasErrors {
		t.Error("sample should parse without errors")
	}
}

func TestLeadingWhitespaceCovered(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	src := "\n\n   fn a() {}\n"
	root := parse(src).Tree.Root()
	toks := root.Tokens()
	if len(toks) == 0 || toks[0].TokenKind() != syntax.TokenWhitespace {
		t.Fatalf("first token should be whitespace, got %v", toks)
	}
	if toks[0].Text() != "\n\n   " {
		t.Errorf("leading whitespace = %q", toks[0].Text())
	}
}

func TestFunctionFields(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	root := parse(sample).Tree.Root()
	var fn syntax.Node
	for _, n := range root.Descendants() {
		if n.Kind() == syntax.FunctionItem {
			fn = n
			break
		}
	}
	if !fn.Valid() {
		t.Fatal("no function_item found")
	}
	name, ok := fn.Field("name")
	if !ok || name.Text() != "main" {
		t.Errorf("name field = %q, %v", name.Text(), ok)
	}
	if name.TokenKind() != syntax.TokenIdent {
		t.Errorf("name token kind = %v, want ident", name.TokenKind())
	}
	body, ok := fn.Field("body")
	if !ok || body.Kind() != syntax.Block {
		t.Fatalf("body field missing or wrong kind")
	}
	if p, ok := body.Parent(); !ok || p.ID() != fn.ID() {
		t.Error("body parent should be the function")
	}
	if fn.Root().ID() != root.ID() {
		t.Error("Root() should reach the source file")
	}
}

func TestTokenClassification(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	root := parse(sample).Tree.Root()
	kinds := map[string]syntax.TokenKind{}
	for _, tok := range root.Tokens() {
		kinds[strings.TrimSpace(tok.Text())] = tok.TokenKind()
	}

	tests := []struct {
		text string
		want syntax.TokenKind
	}{
		{"fn", syntax.TokenKeyword},
		{"pub", syntax.TokenKeyword},
		{"let", syntax.TokenKeyword},
		{"{", syntax.TokenPunct},
		{";", syntax.TokenPunct},
		{"->", syntax.TokenPunct},
		{`"hello world"`, syntax.TokenLiteral},
		{"// entry point", syntax.TokenComment},
		{"x", syntax.TokenIdent},
	}
	for _, tt := range tests {
		if got := kinds[tt.text]; got != tt.want {
			t.Errorf("token %q: kind = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestMacroIndex(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	src := `macro_rules! mac_exp {
    ($name:ident) => { struct $name; };
}

mac_exp! { Test }

fn main() {
    println!("a");
    std::println!("b");
}
`
	res := parse(src)
	def, ok := res.Macros["mac_exp"]
	if !ok {
		t.Fatalf("mac_exp definition not indexed: %v", res.Macros)
	}
	if def.Kind() != syntax.MacroDef {
		t.Errorf("definition kind = %q", def.Kind())
	}
	if len(res.Invocations) != 3 {
		t.Fatalf("invocations = %d, want 3", len(res.Invocations))
	}
	for i := 1; i < len(res.Invocations); i++ {
		if res.Invocations[i-1].Span().Start > res.Invocations[i].Span().Start {
			t.Error("invocations should be in source order")
		}
	}
}

func TestEmptySource(t *testing.T) {
	t.Parallel()
	parse := setup(t)

	res := parse("")
	if res.Tree.Root().Text() != "" {
		t.Error("empty source should give an empty root")
	}
	if len(res.Tree.Root().Descendants()) != 1 {
		t.Error("empty tree should only contain the root")
	}
}
