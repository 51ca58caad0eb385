package syntax

import "strings"

// Node is a handle on an element of a Tree: either an interior node or a
// token. The zero Node is invalid.
type Node struct {
	tree *Tree
	id   NodeID
}

// Valid reports whether n refers to an element.
func (n Node) Valid() bool {
	return n.tree != nil
}

// Tree returns the owning tree.
func (n Node) Tree() *Tree {
	return n.tree
}

// ID returns the arena index of n.
func (n Node) ID() NodeID {
	return n.id
}

func (n Node) el() *element {
	return &n.tree.elements[n.id]
}

// Kind returns the syntactic category.
func (n Node) Kind() Kind {
	return n.el().kind
}

// Span returns the byte range of n.
func (n Node) Span() Span {
	return n.el().span
}

// FieldName returns the tree-sitter field name n occupies in its parent.
func (n Node) FieldName() string {
	return n.el().field
}

// Text returns the exact source text of n.
func (n Node) Text() string {
	sp := n.el().span
	return string(n.tree.source[sp.Start:sp.End])
}

// IsToken reports whether n is a leaf.
func (n Node) IsToken() bool {
	return n.el().token != TokenNone
}

// TokenKind returns the token classification, TokenNone for interior nodes.
func (n Node) TokenKind() TokenKind {
	return n.el().token
}

// IsPunct reports whether n is a punctuation token.
func (n Node) IsPunct() bool {
	return n.el().token == TokenPunct
}

// IsKeyword reports whether n is a keyword token.
func (n Node) IsKeyword() bool {
	return n.el().token == TokenKeyword
}

// IsLiteral reports whether n is a literal token.
func (n Node) IsLiteral() bool {
	return n.el().token == TokenLiteral
}

// IsTrivia reports whether n is whitespace or a comment.
func (n Node) IsTrivia() bool {
	return n.el().token.IsTrivia()
}

// Parent returns the parent node; ok is false at the root.
func (n Node) Parent() (Node, bool) {
	p := n.el().parent
	if p == NoParent {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p}, true
}

// Root walks parent links up to the root.
func (n Node) Root() Node {
	for {
		p, ok := n.Parent()
		if !ok {
			return n
		}
		n = p
	}
}

// ChildrenWithTokens returns all direct children in source order.
func (n Node) ChildrenWithTokens() []Node {
	ids := n.el().children
	out := make([]Node, len(ids))
	for i, id := range ids {
		out[i] = Node{tree: n.tree, id: id}
	}
	return out
}

// Children returns the direct children that are nodes, in source order.
func (n Node) Children() []Node {
	var out []Node
	for _, id := range n.el().children {
		if n.tree.elements[id].token == TokenNone {
			out = append(out, Node{tree: n.tree, id: id})
		}
	}
	return out
}

// NamedChildren returns the direct children that are nodes or named leaves
// such as identifiers and literals, skipping trivia, in source order.
func (n Node) NamedChildren() []Node {
	var out []Node
	for _, id := range n.el().children {
		e := &n.tree.elements[id]
		if e.named && !e.token.IsTrivia() {
			out = append(out, Node{tree: n.tree, id: id})
		}
	}
	return out
}

// IsNamed reports whether n is a node or a named leaf.
func (n Node) IsNamed() bool {
	return n.el().named
}

// Descendants returns n and every node below it in depth-first pre-order.
// Tokens are excluded.
func (n Node) Descendants() []Node {
	var out []Node
	var walk func(id NodeID)
	walk = func(id NodeID) {
		e := &n.tree.elements[id]
		if e.token != TokenNone {
			return
		}
		out = append(out, Node{tree: n.tree, id: id})
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(n.id)
	return out
}

// Tokens returns every leaf under n in source order, trivia included.
func (n Node) Tokens() []Node {
	if n.IsToken() {
		return []Node{n}
	}
	var out []Node
	var walk func(id NodeID)
	walk = func(id NodeID) {
		e := &n.tree.elements[id]
		if e.token != TokenNone {
			out = append(out, Node{tree: n.tree, id: id})
			return
		}
		for _, c := range e.children {
			walk(c)
		}
	}
	walk(n.id)
	return out
}

func (n Node) siblingIndex() (Node, int, bool) {
	p, ok := n.Parent()
	if !ok {
		return Node{}, 0, false
	}
	for i, id := range p.el().children {
		if id == n.id {
			return p, i, true
		}
	}
	return Node{}, 0, false
}

// NextSiblingOrToken returns the element after n in its parent.
func (n Node) NextSiblingOrToken() (Node, bool) {
	p, i, ok := n.siblingIndex()
	if !ok || i+1 >= len(p.el().children) {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p.el().children[i+1]}, true
}

// PrevSiblingOrToken returns the element before n in its parent.
func (n Node) PrevSiblingOrToken() (Node, bool) {
	p, i, ok := n.siblingIndex()
	if !ok || i == 0 {
		return Node{}, false
	}
	return Node{tree: n.tree, id: p.el().children[i-1]}, true
}

// Field returns the first child with the given tree-sitter field name.
func (n Node) Field(name string) (Node, bool) {
	for _, id := range n.el().children {
		if n.tree.elements[id].field == name {
			return Node{tree: n.tree, id: id}, true
		}
	}
	return Node{}, false
}

// FieldAll returns every child with the given field name.
func (n Node) FieldAll(name string) []Node {
	var out []Node
	for _, id := range n.el().children {
		if n.tree.elements[id].field == name {
			out = append(out, Node{tree: n.tree, id: id})
		}
	}
	return out
}

// Required returns the child in field name and panics with a *ContractError
// when the grammar guarantees it but the tree lacks it.
func (n Node) Required(name string) Node {
	c, ok := n.Field(name)
	if !ok {
		panic(&ContractError{Kind: n.Kind(), Field: name, Span: n.Span()})
	}
	return c
}

// ChildOfKind returns the first direct named child of kind k.
func (n Node) ChildOfKind(k Kind) (Node, bool) {
	for _, c := range n.NamedChildren() {
		if c.Kind() == k {
			return c, true
		}
	}
	return Node{}, false
}

// ChildrenOfKind returns the direct named children of kind k.
func (n Node) ChildrenOfKind(k Kind) []Node {
	var out []Node
	for _, c := range n.NamedChildren() {
		if c.Kind() == k {
			out = append(out, c)
		}
	}
	return out
}

// HasLineBreak reports whether n is a token whose text contains a newline.
func (n Node) HasLineBreak() bool {
	return n.IsToken() && strings.Contains(n.Text(), "\n")
}

// Position returns the 1-based start position of n within its tree.
func (n Node) Position() Position {
	return n.tree.Position(n.Span().Start)
}
