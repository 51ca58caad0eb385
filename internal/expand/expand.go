// Package expand provides macro expansion for rules that need to look
// inside macro invocations.
package expand

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/phobologic/rustlint/internal/parse"
	"github.com/phobologic/rustlint/internal/syntax"
)

// Expander returns the expanded tree of a macro invocation. ok is false
// when the invocation cannot be expanded.
type Expander interface {
	Expand(call syntax.Node) (tree *syntax.Tree, ok bool)
}

// None never expands.
type None struct{}

// Expand always reports false.
func (None) Expand(syntax.Node) (*syntax.Tree, bool) {
	return nil, false
}

// wrapperName names the function statement-only expansions are parsed in.
const wrapperName = "__rustlint_expansion"

// MacroRules expands invocations of macro_rules! macros defined in the same
// file. It supports literal tokens, nested delimiter groups and $name:frag
// bindings; rules with repetitions are skipped.
//
// A MacroRules owns a parser and must not be shared between goroutines.
type MacroRules struct {
	parser *sitter.Parser
	query  *sitter.Query
	defs   map[string]syntax.Node
}

// NewMacroRules creates an expander over the definitions in defs, keyed by
// macro name. Expansions are re-parsed with parser.
func NewMacroRules(parser *sitter.Parser, query *sitter.Query, defs map[string]syntax.Node) *MacroRules {
	return &MacroRules{parser: parser, query: query, defs: defs}
}

// Expand matches the invocation's tokens against each rule of the macro in
// order and parses the first transcription. Item expansions parse as a file;
// expansions containing statements are wrapped in a function first.
func (m *MacroRules) Expand(call syntax.Node) (*syntax.Tree, bool) {
	text, ok := m.Transcribe(call)
	if !ok {
		return nil, false
	}
	if tree, ok := m.parse(text); ok && onlyItems(tree.Root()) {
		return tree, true
	}
	return m.parse("fn " + wrapperName + "() {\n" + text + "\n}\n")
}

func onlyItems(root syntax.Node) bool {
	for _, c := range root.Children() {
		if k := c.Kind(); !syntax.IsItem(k) && k != syntax.Attribute && k != syntax.InnerAttribute {
			return false
		}
	}
	return true
}

// Transcribe returns the expansion of call as space-separated token text.
func (m *MacroRules) Transcribe(call syntax.Node) (string, bool) {
	if call.Kind() != syntax.MacroCall {
		return "", false
	}
	def, ok := m.defs[macroName(call)]
	if !ok {
		return "", false
	}
	body, ok := call.ChildOfKind(syntax.TokenTree)
	if !ok {
		return "", false
	}
	input := inner(body)

	for _, rule := range def.ChildrenOfKind(syntax.MacroRule) {
		left, lok := rule.Field("left")
		right, rok := rule.Field("right")
		if !lok || !rok {
			continue
		}
		b := bindings{}
		rest, ok := match(left, input, b)
		if !ok || len(rest) != 0 {
			continue
		}
		return transcribe(right, b), true
	}
	return "", false
}

func (m *MacroRules) parse(text string) (*syntax.Tree, bool) {
	res, err := parse.File(m.parser, m.query, []byte(text))
	if err != nil || res.HasErrors {
		return nil, false
	}
	return res.Tree, true
}

// macroName returns the last path segment of the invoked macro.
func macroName(call syntax.Node) string {
	path := call.Required("macro")
	if name, ok := path.Field("name"); ok {
		return name.Text()
	}
	return path.Text()
}

// inner returns the significant leaves of a delimited group without its
// outer delimiters.
func inner(group syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, t := range group.Tokens() {
		if !t.IsTrivia() && t.TokenKind() != syntax.TokenError {
			out = append(out, t)
		}
	}
	if len(out) >= 2 {
		out = out[1 : len(out)-1]
	}
	return out
}

type bindings map[string][]string

// match consumes input according to the pattern group and returns the
// unconsumed tail.
func match(pattern syntax.Node, input []syntax.Node, b bindings) ([]syntax.Node, bool) {
	elems := patternElements(pattern)
	for i, el := range elems {
		switch {
		case el.Kind() == syntax.TokenRepetition:
			return nil, false
		case el.Kind() == syntax.TokenBindingPat:
			name := el.Required("name").Text()
			frag := el.Required("type").Text()
			var follow string
			if i+1 < len(elems) && elems[i+1].IsToken() {
				follow = elems[i+1].Text()
			}
			captured, rest, ok := capture(frag, follow, input)
			if !ok {
				return nil, false
			}
			b[name] = captured
			input = rest
		case el.Kind() == syntax.TokenTreePattern:
			open := firstToken(el)
			if len(input) == 0 || input[0].Text() != open {
				return nil, false
			}
			end := closing(input)
			if end < 0 {
				return nil, false
			}
			rest, ok := match(el, input[1:end], b)
			if !ok || len(rest) != 0 {
				return nil, false
			}
			input = input[end+1:]
		default:
			if len(input) == 0 || input[0].Text() != el.Text() {
				return nil, false
			}
			input = input[1:]
		}
	}
	return input, true
}

// patternElements lists the direct significant children of a pattern group
// between its delimiters.
func patternElements(pattern syntax.Node) []syntax.Node {
	var out []syntax.Node
	for _, c := range pattern.ChildrenWithTokens() {
		if !c.IsTrivia() {
			out = append(out, c)
		}
	}
	if len(out) >= 2 {
		out = out[1 : len(out)-1]
	}
	return out
}

func firstToken(n syntax.Node) string {
	toks := n.Tokens()
	if len(toks) == 0 {
		return ""
	}
	return toks[0].Text()
}

// capture takes the tokens of one fragment. Single-token fragments take one
// token or, for tt, one delimited group. Other fragments take tokens up to
// the follow token at nesting depth zero, or everything when there is none.
func capture(frag, follow string, input []syntax.Node) (captured []string, rest []syntax.Node, ok bool) {
	if len(input) == 0 {
		return nil, nil, false
	}
	switch frag {
	case "ident", "lifetime", "literal":
		return []string{input[0].Text()}, input[1:], true
	case "tt":
		if isOpen(input[0].Text()) {
			end := closing(input)
			if end < 0 {
				return nil, nil, false
			}
			return texts(input[:end+1]), input[end+1:], true
		}
		return []string{input[0].Text()}, input[1:], true
	}

	depth := 0
	for i, t := range input {
		s := t.Text()
		if depth == 0 && follow != "" && s == follow && i > 0 {
			return texts(input[:i]), input[i:], true
		}
		switch {
		case isOpen(s):
			depth++
		case isClose(s):
			depth--
		}
	}
	if follow != "" {
		return nil, nil, false
	}
	return texts(input), nil, true
}

// closing returns the index of the delimiter closing input[0].
func closing(input []syntax.Node) int {
	depth := 0
	for i, t := range input {
		switch s := t.Text(); {
		case isOpen(s):
			depth++
		case isClose(s):
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func transcribe(body syntax.Node, b bindings) string {
	var out []string
	for _, t := range inner(body) {
		if t.Kind() == syntax.Metavariable {
			if v, ok := b[t.Text()]; ok {
				out = append(out, v...)
				continue
			}
		}
		out = append(out, t.Text())
	}
	return strings.Join(out, " ")
}

func texts(ns []syntax.Node) []string {
	out := make([]string, len(ns))
	for i, n := range ns {
		out[i] = n.Text()
	}
	return out
}

func isOpen(s string) bool  { return s == "(" || s == "[" || s == "{" }
func isClose(s string) bool { return s == ")" || s == "]" || s == "}" }

// StatementBody returns the block of an expansion that was parsed as
// statements.
func StatementBody(tree *syntax.Tree) (syntax.Node, bool) {
	for _, fn := range tree.Root().ChildrenOfKind(syntax.FunctionItem) {
		if name, ok := fn.Field("name"); ok && name.Text() == wrapperName {
			return fn.Field("body")
		}
	}
	return syntax.Node{}, false
}
