package visit_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/phobologic/rustlint/internal/lang"
	"github.com/phobologic/rustlint/internal/parse"
	"github.com/phobologic/rustlint/internal/syntax"
	"github.com/phobologic/rustlint/internal/visit"
)

func mustParse(t *testing.T, source string) *syntax.Tree {
	t.Helper()
	res, err := parse.Source(lang.Rust(), []byte(source))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return res.Tree
}

type recorder struct {
	visit.Base
	fns   []string
	names []string
	types []string
	exprs []syntax.Node
	docs  []string
	attrs []string
}

func newRecorder() *recorder {
	r := &recorder{}
	r.V = r
	return r
}

func (r *recorder) Fn(n syntax.Node) {
	r.fns = append(r.fns, n.Required("name").Text())
	visit.WalkFn(r, n)
}

func (r *recorder) Name(n syntax.Node) {
	r.names = append(r.names, n.Text())
}

func (r *recorder) Type(n syntax.Node) {
	r.types = append(r.types, n.Text())
	visit.WalkType(r, n)
}

func (r *recorder) Expr(n syntax.Node) {
	r.exprs = append(r.exprs, n)
	visit.WalkExpr(r, n)
}

func (r *recorder) Comments(docs []syntax.Node) {
	for _, d := range docs {
		r.docs = append(r.docs, strings.TrimSpace(d.Text()))
	}
}

func (r *recorder) Attrs(attrs []syntax.Node) {
	for _, a := range attrs {
		r.attrs = append(r.attrs, a.Text())
	}
}

func TestOverrideKeepsRecursion(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `fn top() {
    fn inner() {}
}

impl S {
    fn method(&self) {}
}

mod m {
    fn in_mod() {}
}

trait T {
    fn sig(&self);
}
`)
	r := newRecorder()
	r.SourceFile(tree.Root())

	want := []string{"top", "inner", "method", "in_mod", "sig"}
	if strings.Join(r.fns, ",") != strings.Join(want, ",") {
		t.Errorf("fns = %v, want %v", r.fns, want)
	}
}

func TestFnChildOrder(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `pub fn main<T: Clone>(x: u8) -> u8 {
    let y = x;
    if y > 0 {
        y
    } else {
        loop {
            break;
        }
    }
}
`)
	r := newRecorder()
	r.SourceFile(tree.Root())

	if got := strings.Join(r.names, ","); got != "main,x,y" {
		t.Errorf("names = %s, want main,x,y", got)
	}
	if got := strings.Join(r.types, ","); got != "Clone,u8,u8" {
		t.Errorf("types = %s, want Clone,u8,u8", got)
	}

	kinds := make(map[syntax.Kind]bool)
	for _, e := range r.exprs {
		kinds[e.Kind()] = true
	}
	for _, k := range []syntax.Kind{syntax.IfExpr, syntax.BinaryExpr, syntax.LoopExpr, syntax.BreakExpr} {
		if !kinds[k] {
			t.Errorf("expression %s was not visited", k)
		}
	}
}

func TestNoNodeVisitedTwice(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `fn f(v: Vec<u8>) -> usize {
    let mut n = 0;
    for x in v.iter() {
        match x {
            0 => n += 1,
            Some(y) if y > 2 => { n += *y as usize; }
            _ => {}
        }
    }
    while n > 10 { n -= 1; }
    let c = |a: u8| a + 1;
    call(c(1), [1, 2], (n, n));
    n
}
`)
	r := newRecorder()
	r.SourceFile(tree.Root())

	if len(r.exprs) == 0 {
		t.Fatal("no expressions visited")
	}
	seen := make(map[syntax.NodeID]bool)
	for _, e := range r.exprs {
		if seen[e.ID()] {
			t.Errorf("expression %q at %s visited twice", e.Text(), e.Span())
		}
		seen[e.ID()] = true
	}
}

func TestLeadingDocsAndAttrs(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `/// Docs.
#[inline]
// plain
pub fn f() {}
`)
	r := newRecorder()
	r.SourceFile(tree.Root())

	if len(r.docs) != 1 || r.docs[0] != "/// Docs." {
		t.Errorf("docs = %q", r.docs)
	}
	if len(r.attrs) != 1 || r.attrs[0] != "#[inline]" {
		t.Errorf("attrs = %q", r.attrs)
	}
}

func TestStructFields(t *testing.T) {
	t.Parallel()

	tree := mustParse(t, `struct P { pub a: u8, b: String }
struct Q(pub u8, i32);
enum E { A, B(u8), C { x: u8 } }
`)
	r := newRecorder()
	r.SourceFile(tree.Root())

	if got := strings.Join(r.names, ","); got != "P,a,b,Q,E,A,B,C,x" {
		t.Errorf("names = %s", got)
	}
	if got := strings.Join(r.types, ","); got != "u8,String,u8,i32,u8,u8" {
		t.Errorf("types = %s", got)
	}
}

func TestMissingRequiredChildPanics(t *testing.T) {
	t.Parallel()

	// A function node with no name, as a non-conforming parser could build.
	b := syntax.NewBuilder([]byte("fn"), syntax.SourceFile)
	b.Open(syntax.FunctionItem, "", syntax.Span{Start: 0, End: 2})
	b.Token("fn", syntax.TokenKeyword, false, "", syntax.Span{Start: 0, End: 2})
	b.Close()
	tree := b.Finish()

	defer func() {
		err, ok := recover().(error)
		var ce *syntax.ContractError
		if !ok || !errors.As(err, &ce) {
			t.Fatalf("want *syntax.ContractError panic, got %v", err)
		}
		if ce.Field != "name" {
			t.Errorf("field = %q, want name", ce.Field)
		}
	}()
	r := newRecorder()
	r.SourceFile(tree.Root())
}
