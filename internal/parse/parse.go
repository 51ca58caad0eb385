// Package parse converts tree-sitter parse trees into syntax trees.
package parse

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"fortio.org/safecast"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/rustlint/internal/lang"
	"github.com/phobologic/rustlint/internal/syntax"
)

// Result is a parsed file.
type Result struct {
	Tree *syntax.Tree
	// Macros maps macro_rules! names to their definition nodes.
	Macros map[string]syntax.Node
	// Invocations lists macro invocations in source order.
	Invocations []syntax.Node
	// HasErrors reports whether tree-sitter had to recover from syntax errors.
	HasErrors bool
}

// File parses source with parser and adapts the result. The parser must be
// created for the correct language; query is the language's tag query.
func File(parser *sitter.Parser, query *sitter.Query, source []byte) (*Result, error) {
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	st, err := convert(root, source)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Tree:      st,
		Macros:    make(map[string]syntax.Node),
		HasErrors: root.HasError(),
	}
	if query != nil {
		collectMacros(res, query, root, source)
	}
	return res, nil
}

// Source parses source with a fresh parser for l. Intended for one-off use;
// hot paths should reuse a parser per goroutine.
func Source(l *lang.Language, source []byte) (*Result, error) {
	q, err := l.GetTagQuery()
	if err != nil {
		return nil, err
	}
	p := l.NewParser()
	defer p.Close()
	return File(p, q, source)
}

type converter struct {
	b      *syntax.Builder
	source []byte
}

func convert(root *sitter.Node, source []byte) (*syntax.Tree, error) {
	end, err := safecast.Conv[uint32](len(source))
	if err != nil {
		return nil, fmt.Errorf("source too large: %w", err)
	}
	c := &converter{b: syntax.NewBuilder(source, syntax.SourceFile), source: source}
	cur := sitter.NewTreeCursor(root)
	defer cur.Close()
	c.children(cur, 0, end)
	return c.b.Finish(), nil
}

// children adds every child of the cursor's current node, filling the gaps
// between them (and up to the node's bounds) with whitespace tokens.
func (c *converter) children(cur *sitter.TreeCursor, start, end uint32) {
	pos := start
	if cur.GoToFirstChild() {
		for {
			n := cur.CurrentNode()
			c.gap(pos, n.StartByte())
			c.node(cur, n, cur.CurrentFieldName())
			if e := n.EndByte(); e > pos {
				pos = e
			}
			if !cur.GoToNextSibling() {
				break
			}
		}
		cur.GoToParent()
	}
	c.gap(pos, end)
}

func (c *converter) node(cur *sitter.TreeCursor, n *sitter.Node, field string) {
	kind := syntax.Kind(n.Type())
	sp := syntax.Span{Start: n.StartByte(), End: n.EndByte()}
	if _, ok := syntax.AtomicToken(kind); ok || n.ChildCount() == 0 {
		text := string(c.source[sp.Start:sp.End])
		c.b.Token(kind, syntax.ClassifyLeaf(kind, n.IsNamed(), text), n.IsNamed(), field, sp)
		return
	}
	c.b.Open(kind, field, sp)
	c.children(cur, sp.Start, sp.End)
	c.b.Close()
}

func (c *converter) gap(from, to uint32) {
	if to <= from {
		return
	}
	tk := syntax.TokenWhitespace
	if strings.TrimSpace(string(c.source[from:to])) != "" {
		tk = syntax.TokenError
	}
	c.b.Token(syntax.Whitespace, tk, false, "", syntax.Span{Start: from, End: to})
}

func collectMacros(res *Result, query *sitter.Query, root *sitter.Node, source []byte) {
	qc := sitter.NewQueryCursor()
	defer qc.Close()
	qc.Exec(query, root)

	type key struct {
		span syntax.Span
		kind syntax.Kind
	}
	index := make(map[key]syntax.Node)
	for _, n := range res.Tree.Root().Descendants() {
		if k := n.Kind(); k == syntax.MacroDef || k == syntax.MacroCall {
			index[key{n.Span(), k}] = n
		}
	}

	for {
		match, ok := qc.NextMatch()
		if !ok {
			break
		}
		match = qc.FilterPredicates(match, source)

		var nameNode, target *sitter.Node
		var captureName string
		for _, cp := range match.Captures {
			cname := query.CaptureNameForId(cp.Index)
			switch cname {
			case "name":
				nameNode = cp.Node
			case "definition.macro", "reference.macro":
				captureName = cname
				target = cp.Node
			}
		}
		if nameNode == nil || target == nil {
			continue
		}

		sp := syntax.Span{Start: target.StartByte(), End: target.EndByte()}
		switch captureName {
		case "definition.macro":
			if n, ok := index[key{sp, syntax.MacroDef}]; ok {
				res.Macros[nodeText(nameNode, source)] = n
			}
		case "reference.macro":
			if n, ok := index[key{sp, syntax.MacroCall}]; ok {
				res.Invocations = append(res.Invocations, n)
			}
		}
	}

	sort.SliceStable(res.Invocations, func(i, j int) bool {
		return res.Invocations[i].Span().Start < res.Invocations[j].Span().Start
	})
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
