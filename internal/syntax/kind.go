// Package syntax is a read-only concrete syntax tree for Rust source files.
//
// A Tree is an arena of elements addressed by NodeID. Parent links are plain
// indices, child lists are owned by the parent, and every byte of the source
// is covered by exactly one token, whitespace included.
package syntax

// Kind is the syntactic category of a node or token. Values follow the
// tree-sitter-rust node type names.
type Kind string

// Items.
const (
	SourceFile   Kind = "source_file"
	ConstItem    Kind = "const_item"
	EnumItem     Kind = "enum_item"
	ExternCrate  Kind = "extern_crate_declaration"
	ForeignMod   Kind = "foreign_mod_item"
	FunctionItem Kind = "function_item"
	FunctionSig  Kind = "function_signature_item"
	ImplItem     Kind = "impl_item"
	MacroCall    Kind = "macro_invocation"
	MacroDef     Kind = "macro_definition"
	ModItem      Kind = "mod_item"
	StaticItem   Kind = "static_item"
	StructItem   Kind = "struct_item"
	TraitItem    Kind = "trait_item"
	TypeItem     Kind = "type_item"
	UnionItem    Kind = "union_item"
	UseDecl      Kind = "use_declaration"
)

// Item parts.
const (
	Attribute         Kind = "attribute_item"
	InnerAttribute    Kind = "inner_attribute_item"
	Visibility        Kind = "visibility_modifier"
	DeclarationList   Kind = "declaration_list"
	EnumVariantList   Kind = "enum_variant_list"
	EnumVariant       Kind = "enum_variant"
	FieldDeclList     Kind = "field_declaration_list"
	FieldDecl         Kind = "field_declaration"
	OrderedFieldList  Kind = "ordered_field_declaration_list"
	TypeParameters    Kind = "type_parameters"
	WhereClause       Kind = "where_clause"
	WherePredicate    Kind = "where_predicate"
	Parameters        Kind = "parameters"
	Parameter         Kind = "parameter"
	SelfParameter     Kind = "self_parameter"
	ClosureParameters Kind = "closure_parameters"
	Arguments         Kind = "arguments"
	TokenTree         Kind = "token_tree"
	MacroRule         Kind = "macro_rule"
	TokenTreePattern  Kind = "token_tree_pattern"
	TokenBindingPat   Kind = "token_binding_pattern"
	TokenRepetition   Kind = "token_repetition_pattern"
	FragmentSpecifier Kind = "fragment_specifier"
	Metavariable      Kind = "metavariable"
)

// Statements and blocks.
const (
	Block          Kind = "block"
	ExprStmt       Kind = "expression_statement"
	LetDecl        Kind = "let_declaration"
	EmptyStmt      Kind = "empty_statement"
	ElseClause     Kind = "else_clause"
	LetCondition   Kind = "let_condition"
	LetChain       Kind = "let_chain"
	MatchBlock     Kind = "match_block"
	MatchArm       Kind = "match_arm"
	MatchPattern   Kind = "match_pattern"
	FieldInitList  Kind = "field_initializer_list"
	FieldInit      Kind = "field_initializer"
	ShorthandInit  Kind = "shorthand_field_initializer"
	BaseFieldInit  Kind = "base_field_initializer"
	UnsafeBlock    Kind = "unsafe_block"
	AsyncBlock     Kind = "async_block"
	ConstBlock     Kind = "const_block"
	TryBlock       Kind = "try_block"
	GenBlock       Kind = "gen_block"
	LabelNode      Kind = "label"
	LineComment    Kind = "line_comment"
	BlockComment   Kind = "block_comment"
	ErrorNode      Kind = "ERROR"
	IdentifierNode Kind = "identifier"
	TypeIdentifier Kind = "type_identifier"
	FieldIdent     Kind = "field_identifier"
	ScopedIdent    Kind = "scoped_identifier"
	ScopedUseList  Kind = "scoped_use_list"
	UseList        Kind = "use_list"
	UseAsClause    Kind = "use_as_clause"
	UseWildcard    Kind = "use_wildcard"
	Lifetime       Kind = "lifetime"
)

// Expressions.
const (
	ArrayExpr      Kind = "array_expression"
	AssignExpr     Kind = "assignment_expression"
	CompoundAssign Kind = "compound_assignment_expr"
	AwaitExpr      Kind = "await_expression"
	BinaryExpr     Kind = "binary_expression"
	BreakExpr      Kind = "break_expression"
	CallExpr       Kind = "call_expression"
	CastExpr       Kind = "type_cast_expression"
	ClosureExpr    Kind = "closure_expression"
	ContinueExpr   Kind = "continue_expression"
	FieldExpr      Kind = "field_expression"
	ForExpr        Kind = "for_expression"
	GenericFunc    Kind = "generic_function"
	IfExpr         Kind = "if_expression"
	IfLetExpr      Kind = "if_let_expression"
	IndexExpr      Kind = "index_expression"
	LoopExpr       Kind = "loop_expression"
	MatchExpr      Kind = "match_expression"
	ParenExpr      Kind = "parenthesized_expression"
	RangeExpr      Kind = "range_expression"
	RefExpr        Kind = "reference_expression"
	ReturnExpr     Kind = "return_expression"
	StructExpr     Kind = "struct_expression"
	TryExpr        Kind = "try_expression"
	TupleExpr      Kind = "tuple_expression"
	UnaryExpr      Kind = "unary_expression"
	UnitExpr       Kind = "unit_expression"
	WhileExpr      Kind = "while_expression"
	WhileLetExpr   Kind = "while_let_expression"
	YieldExpr      Kind = "yield_expression"
	SelfExpr       Kind = "self"
)

// Literals.
const (
	StringLit    Kind = "string_literal"
	RawStringLit Kind = "raw_string_literal"
	CharLit      Kind = "char_literal"
	IntegerLit   Kind = "integer_literal"
	FloatLit     Kind = "float_literal"
	BooleanLit   Kind = "boolean_literal"
)

// Patterns.
const (
	TuplePattern       Kind = "tuple_pattern"
	TupleStructPattern Kind = "tuple_struct_pattern"
	StructPattern      Kind = "struct_pattern"
	FieldPattern       Kind = "field_pattern"
	SlicePattern       Kind = "slice_pattern"
	OrPattern          Kind = "or_pattern"
	RangePattern       Kind = "range_pattern"
	RefPattern         Kind = "ref_pattern"
	RefdPattern        Kind = "reference_pattern"
	MutPattern         Kind = "mut_pattern"
	CapturedPattern    Kind = "captured_pattern"
	RemainingPattern   Kind = "remaining_field_pattern"
	GenericPattern     Kind = "generic_pattern"
	NegativeLiteral    Kind = "negative_literal"
	Wildcard           Kind = "_"
)

// Types.
const (
	GenericType       Kind = "generic_type"
	ReferenceType     Kind = "reference_type"
	PointerType       Kind = "pointer_type"
	TupleType         Kind = "tuple_type"
	ArrayType         Kind = "array_type"
	FunctionType      Kind = "function_type"
	ScopedTypeIdent   Kind = "scoped_type_identifier"
	PrimitiveType     Kind = "primitive_type"
	UnitType          Kind = "unit_type"
	NeverType         Kind = "never_type"
	DynamicType       Kind = "dynamic_type"
	AbstractType      Kind = "abstract_type"
	BoundedType       Kind = "bounded_type"
	TypeArguments     Kind = "type_arguments"
	TraitBounds       Kind = "trait_bounds"
	TypeBinding       Kind = "type_binding"
	ConstrainedTypeP  Kind = "constrained_type_parameter"
	OptionalTypeParam Kind = "optional_type_parameter"
	ConstParameter    Kind = "const_parameter"
	TypeParameter     Kind = "type_parameter"
	LifetimeParameter Kind = "lifetime_parameter"
)

// atomic kinds are collapsed into a single token even though tree-sitter
// gives them inner structure.
var atomic = map[Kind]TokenKind{
	StringLit:    TokenLiteral,
	RawStringLit: TokenLiteral,
	CharLit:      TokenLiteral,
	IntegerLit:   TokenLiteral,
	FloatLit:     TokenLiteral,
	BooleanLit:   TokenLiteral,
	LineComment:  TokenComment,
	BlockComment: TokenComment,
	Lifetime:     TokenLifetime,
}

// AtomicToken reports whether nodes of kind k are kept as one token, and
// which token kind they get.
func AtomicToken(k Kind) (TokenKind, bool) {
	tk, ok := atomic[k]
	return tk, ok
}

// IsItem reports whether k is an item kind.
func IsItem(k Kind) bool {
	switch k {
	case ConstItem, EnumItem, ExternCrate, ForeignMod, FunctionItem, FunctionSig,
		ImplItem, MacroCall, MacroDef, ModItem, StaticItem, StructItem, TraitItem,
		TypeItem, UnionItem, UseDecl:
		return true
	}
	return false
}

// TokenKind classifies a leaf.
type TokenKind uint8

const (
	TokenNone TokenKind = iota
	TokenIdent
	TokenKeyword
	TokenLiteral
	TokenPunct
	TokenWhitespace
	TokenComment
	TokenLifetime
	TokenError
)

func (k TokenKind) String() string {
	switch k {
	case TokenIdent:
		return "ident"
	case TokenKeyword:
		return "keyword"
	case TokenLiteral:
		return "literal"
	case TokenPunct:
		return "punct"
	case TokenWhitespace:
		return "whitespace"
	case TokenComment:
		return "comment"
	case TokenLifetime:
		return "lifetime"
	case TokenError:
		return "error"
	}
	return "none"
}

// IsTrivia reports whether k carries no syntax (whitespace or comment).
func (k TokenKind) IsTrivia() bool {
	return k == TokenWhitespace || k == TokenComment
}

// Whitespace is the kind of synthesised whitespace tokens covering the gaps
// between tree-sitter leaves.
const Whitespace Kind = "whitespace"
