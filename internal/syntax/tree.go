package syntax

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"
)

// NodeID addresses an element in a Tree's arena.
type NodeID uint32

// NoParent is the parent index of the root.
const NoParent NodeID = ^NodeID(0)

// Span is a half-open byte range [Start, End) into a file's text.
type Span struct {
	Start uint32
	End   uint32
}

// Len returns the span length in bytes.
func (s Span) Len() uint32 {
	return s.End - s.Start
}

// Contains reports whether other lies within s.
func (s Span) Contains(other Span) bool {
	return other.Start >= s.Start && other.End <= s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

// Position is a 1-based line and column. Columns count characters.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

type element struct {
	kind     Kind
	token    TokenKind
	named    bool
	span     Span
	parent   NodeID
	field    string
	children []NodeID
}

// Tree is an immutable concrete syntax tree. The root is always element 0.
type Tree struct {
	source   []byte
	elements []element
}

// Source returns the text the tree was built from.
func (t *Tree) Source() []byte {
	return t.source
}

// Root returns the root node.
func (t *Tree) Root() Node {
	return Node{tree: t, id: 0}
}

// Len returns the number of elements (nodes and tokens).
func (t *Tree) Len() int {
	return len(t.elements)
}

// Node returns the handle for id.
func (t *Tree) Node(id NodeID) Node {
	return Node{tree: t, id: id}
}

// Position converts a byte offset into a 1-based line and column, counting
// characters.
func (t *Tree) Position(offset uint32) Position {
	return PositionOf(string(t.source), offset)
}

// PositionOf counts characters of text up to offset, incrementing the line on
// each newline and resetting the column.
func PositionOf(text string, offset uint32) Position {
	line, col := 1, 1
	for i, r := range text {
		if uint32(i) >= offset {
			break
		}
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return Position{Line: line, Column: col}
}

// Builder assembles a Tree bottom-up in pre-order. Open/Close bracket node
// children; Token appends a leaf to the currently open node.
type Builder struct {
	tree  *Tree
	stack []NodeID
}

// NewBuilder starts a tree over source. The root node is opened with kind
// root and spans the whole text.
func NewBuilder(source []byte, root Kind) *Builder {
	b := &Builder{tree: &Tree{source: source}}
	end := mustOffset(len(source))
	b.tree.elements = append(b.tree.elements, element{
		kind:   root,
		named:  true,
		span:   Span{Start: 0, End: end},
		parent: NoParent,
	})
	b.stack = append(b.stack, 0)
	return b
}

// Open starts a child node.
func (b *Builder) Open(kind Kind, field string, sp Span) {
	id := b.push(element{kind: kind, named: true, field: field, span: sp})
	b.stack = append(b.stack, id)
}

// Close finishes the node opened last.
func (b *Builder) Close() {
	if len(b.stack) <= 1 {
		panic("syntax: Close without matching Open")
	}
	b.stack = b.stack[:len(b.stack)-1]
}

// Token appends a leaf to the open node. Named leaves (identifiers,
// literals) take part in NamedChildren; punctuation and keywords do not.
func (b *Builder) Token(kind Kind, tk TokenKind, named bool, field string, sp Span) {
	b.push(element{kind: kind, token: tk, named: named, field: field, span: sp})
}

// Finish returns the tree. Unclosed nodes are closed implicitly.
func (b *Builder) Finish() *Tree {
	b.stack = b.stack[:1]
	return b.tree
}

func (b *Builder) push(e element) NodeID {
	parent := b.stack[len(b.stack)-1]
	e.parent = parent
	id := NodeID(mustOffset(len(b.tree.elements)))
	b.tree.elements = append(b.tree.elements, e)
	b.tree.elements[parent].children = append(b.tree.elements[parent].children, id)
	return id
}

func mustOffset(n int) uint32 {
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		panic(fmt.Errorf("syntax: offset overflow: %w", err))
	}
	return v
}

// ClassifyLeaf derives a token kind from a tree-sitter leaf type and its text.
// Anonymous leaves are keywords when they are word-like, punctuation
// otherwise.
func ClassifyLeaf(kind Kind, named bool, text string) TokenKind {
	if tk, ok := atomic[kind]; ok {
		return tk
	}
	if kind == ErrorNode {
		return TokenError
	}
	if !named {
		if isWord(text) {
			return TokenKeyword
		}
		return TokenPunct
	}
	switch kind {
	case SelfExpr, "super", "crate", "mutable_specifier":
		return TokenKeyword
	}
	return TokenIdent
}

func isWord(s string) bool {
	if s == "" || s == "_" {
		return false
	}
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || i > 0 && r >= '0' && r <= '9') {
			return false
		}
		i += size
	}
	return true
}
