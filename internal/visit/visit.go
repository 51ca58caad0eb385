// Package visit provides an overridable walk over the semantic constructs of
// a Rust syntax tree.
//
// A Visitor has one method per construct. Embedding Base gives a visitor
// default methods that walk the construct's children in source order and call
// back into the outer visitor, so overriding a single method keeps full
// recursive coverage:
//
//	type fnCounter struct {
//		visit.Base
//		n int
//	}
//
//	func (c *fnCounter) Fn(n syntax.Node) {
//		c.n++
//		visit.WalkFn(c, n)
//	}
//
//	c := &fnCounter{}
//	c.V = c
//	c.SourceFile(tree.Root())
package visit

import (
	"strings"

	"github.com/phobologic/rustlint/internal/syntax"
)

// Visitor dispatches on syntactic category.
type Visitor interface {
	SourceFile(n syntax.Node)
	Item(n syntax.Node)
	Comments(docs []syntax.Node)
	Attrs(attrs []syntax.Node)

	Const(n syntax.Node)
	Enum(n syntax.Node)
	Variant(n syntax.Node)
	ExternBlock(n syntax.Node)
	ExternCrate(n syntax.Node)
	Fn(n syntax.Node)
	Impl(n syntax.Node)
	MacroCall(n syntax.Node)
	MacroDef(n syntax.Node)
	Mod(n syntax.Node)
	Static(n syntax.Node)
	Struct(n syntax.Node)
	Fields(n syntax.Node)
	Trait(n syntax.Node)
	TypeAlias(n syntax.Node)
	Union(n syntax.Node)
	Use(n syntax.Node)

	Visibility(n syntax.Node)
	Type(n syntax.Node)
	Name(n syntax.Node)
	GenericParam(n syntax.Node)
	WhereClause(n syntax.Node)
	WherePredicate(n syntax.Node)
	ReturnType(n syntax.Node)
	Params(n syntax.Node)

	Block(n syntax.Node)
	Stmt(n syntax.Node)
	Expr(n syntax.Node)
	Pat(n syntax.Node)
	Arm(n syntax.Node)
	ArgList(n syntax.Node)
	Path(n syntax.Node)
}

// Base implements every Visitor method with the default walk. V must be set
// to the outermost visitor so the walk dispatches to its overrides.
type Base struct {
	V Visitor
}

func (b Base) SourceFile(n syntax.Node)     { WalkSourceFile(b.V, n) }
func (b Base) Item(n syntax.Node)           { WalkItem(b.V, n) }
func (b Base) Comments(docs []syntax.Node)  {}
func (b Base) Attrs(attrs []syntax.Node)    {}
func (b Base) Const(n syntax.Node)          { WalkConst(b.V, n) }
func (b Base) Enum(n syntax.Node)           { WalkEnum(b.V, n) }
func (b Base) Variant(n syntax.Node)        { WalkVariant(b.V, n) }
func (b Base) ExternBlock(n syntax.Node)    { WalkExternBlock(b.V, n) }
func (b Base) ExternCrate(n syntax.Node)    { WalkExternCrate(b.V, n) }
func (b Base) Fn(n syntax.Node)             { WalkFn(b.V, n) }
func (b Base) Impl(n syntax.Node)           { WalkImpl(b.V, n) }
func (b Base) MacroCall(n syntax.Node)      { WalkMacroCall(b.V, n) }
func (b Base) MacroDef(n syntax.Node)       { WalkMacroDef(b.V, n) }
func (b Base) Mod(n syntax.Node)            { WalkMod(b.V, n) }
func (b Base) Static(n syntax.Node)         { WalkStatic(b.V, n) }
func (b Base) Struct(n syntax.Node)         { WalkStruct(b.V, n) }
func (b Base) Fields(n syntax.Node)         { WalkFields(b.V, n) }
func (b Base) Trait(n syntax.Node)          { WalkTrait(b.V, n) }
func (b Base) TypeAlias(n syntax.Node)      { WalkTypeAlias(b.V, n) }
func (b Base) Union(n syntax.Node)          { WalkUnion(b.V, n) }
func (b Base) Use(n syntax.Node)            { WalkUse(b.V, n) }
func (b Base) Visibility(n syntax.Node)     {}
func (b Base) Type(n syntax.Node)           { WalkType(b.V, n) }
func (b Base) Name(n syntax.Node)           {}
func (b Base) GenericParam(n syntax.Node)   { WalkGenericParam(b.V, n) }
func (b Base) WhereClause(n syntax.Node)    { WalkWhereClause(b.V, n) }
func (b Base) WherePredicate(n syntax.Node) { WalkWherePredicate(b.V, n) }
func (b Base) ReturnType(n syntax.Node)     { b.V.Type(n) }
func (b Base) Params(n syntax.Node)         { WalkParams(b.V, n) }
func (b Base) Block(n syntax.Node)          { WalkBlock(b.V, n) }
func (b Base) Stmt(n syntax.Node)           { WalkStmt(b.V, n) }
func (b Base) Expr(n syntax.Node)           { WalkExpr(b.V, n) }
func (b Base) Pat(n syntax.Node)            { WalkPat(b.V, n) }
func (b Base) Arm(n syntax.Node)            { WalkArm(b.V, n) }
func (b Base) ArgList(n syntax.Node)        { WalkArgList(b.V, n) }
func (b Base) Path(n syntax.Node)           {}

// WalkSourceFile visits the top-level items of a file. Nested items are
// reached through their enclosing constructs.
func WalkSourceFile(v Visitor, n syntax.Node) {
	walkItems(v, n)
}

// WalkItem dispatches an item to its category method.
func WalkItem(v Visitor, n syntax.Node) {
	switch n.Kind() {
	case syntax.ConstItem:
		v.Const(n)
	case syntax.EnumItem:
		v.Enum(n)
	case syntax.ForeignMod:
		v.ExternBlock(n)
	case syntax.ExternCrate:
		v.ExternCrate(n)
	case syntax.FunctionItem, syntax.FunctionSig:
		v.Fn(n)
	case syntax.ImplItem:
		v.Impl(n)
	case syntax.MacroCall:
		v.MacroCall(n)
	case syntax.MacroDef:
		v.MacroDef(n)
	case syntax.ModItem:
		v.Mod(n)
	case syntax.StaticItem:
		v.Static(n)
	case syntax.StructItem:
		v.Struct(n)
	case syntax.TraitItem:
		v.Trait(n)
	case syntax.TypeItem:
		v.TypeAlias(n)
	case syntax.UnionItem:
		v.Union(n)
	case syntax.UseDecl:
		v.Use(n)
	}
}

// WalkConst visits a const item: name, optional type, then the value.
func WalkConst(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	if t, ok := n.Field("type"); ok {
		v.Type(t)
	}
	if e, ok := n.Field("value"); ok {
		v.Expr(e)
	}
}

// WalkStatic visits a static item the same way as a const.
func WalkStatic(v Visitor, n syntax.Node) {
	WalkConst(v, n)
}

// WalkEnum visits the name, generics and where clause, then each variant.
func WalkEnum(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	visitWhere(v, n)
	for _, variant := range n.Required("body").ChildrenOfKind(syntax.EnumVariant) {
		v.Variant(variant)
	}
}

// WalkVariant visits a variant's name, its fields and its discriminant.
func WalkVariant(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	if body, ok := n.Field("body"); ok {
		v.Fields(body)
	}
	if e, ok := n.Field("value"); ok {
		v.Expr(e)
	}
}

// WalkExternBlock visits the items declared in an extern block.
func WalkExternBlock(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	if body, ok := n.Field("body"); ok {
		walkItems(v, body)
	}
}

// WalkExternCrate visits the crate name and its alias.
func WalkExternCrate(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	if alias, ok := n.Field("alias"); ok {
		v.Name(alias)
	}
}

// WalkFn visits doc comments, attributes, visibility, name, generic
// parameters, parameters, return type, where clause and body, in that order.
// Bodiless signatures (trait and extern declarations) stop after the where
// clause.
func WalkFn(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	v.Params(n.Required("parameters"))
	if ret, ok := n.Field("return_type"); ok {
		v.ReturnType(ret)
	}
	visitWhere(v, n)
	if body, ok := n.Field("body"); ok {
		v.Block(body)
	}
}

// WalkImpl visits the implemented trait, the self type, then the items.
func WalkImpl(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitGenerics(v, n)
	if tr, ok := n.Field("trait"); ok {
		v.Type(tr)
	}
	v.Type(n.Required("type"))
	visitWhere(v, n)
	if body, ok := n.Field("body"); ok {
		walkItems(v, body)
	}
}

// WalkMacroCall visits the macro path. The token tree is opaque until
// expanded.
func WalkMacroCall(v Visitor, n syntax.Node) {
	v.Path(n.Required("macro"))
}

// WalkMacroDef visits the name of a macro_rules definition. Its rules are
// not walked.
func WalkMacroDef(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	v.Name(n.Required("name"))
}

// WalkMod visits a module's name and, for an inline module, its items.
func WalkMod(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	if body, ok := n.Field("body"); ok {
		walkItems(v, body)
	}
}

// WalkStruct visits the name, generics, fields and where clause.
func WalkStruct(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	if body, ok := n.Field("body"); ok {
		v.Fields(body)
	}
	visitWhere(v, n)
}

// WalkUnion visits a union like a struct with named fields.
func WalkUnion(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	visitWhere(v, n)
	v.Fields(n.Required("body"))
}

// WalkFields visits named fields (name then type) or tuple fields (type
// only).
func WalkFields(v Visitor, n syntax.Node) {
	switch n.Kind() {
	case syntax.FieldDeclList:
		for _, f := range n.ChildrenOfKind(syntax.FieldDecl) {
			visitLeading(v, f)
			visitVis(v, f)
			v.Name(f.Required("name"))
			v.Type(f.Required("type"))
		}
	case syntax.OrderedFieldList:
		for _, c := range n.NamedChildren() {
			switch {
			case c.Kind() == syntax.Visibility:
				v.Visibility(c)
			case c.FieldName() == "type":
				v.Type(c)
			}
		}
	}
}

// WalkTrait visits the name, generics, supertrait bounds, where clause and
// the trait items.
func WalkTrait(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	if bounds, ok := n.Field("bounds"); ok {
		visitBounds(v, bounds)
	}
	visitWhere(v, n)
	if body, ok := n.Field("body"); ok {
		walkItems(v, body)
	}
}

// WalkTypeAlias visits the alias name, its generics and the aliased type.
func WalkTypeAlias(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Name(n.Required("name"))
	visitGenerics(v, n)
	if t, ok := n.Field("type"); ok {
		v.Type(t)
	}
	visitWhere(v, n)
}

// WalkUse visits the imported path tree.
func WalkUse(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	visitVis(v, n)
	v.Path(n.Required("argument"))
}

// WalkType visits the types nested in a compound type, such as the element
// of a slice or the arguments of a generic.
func WalkType(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		switch {
		case c.Kind() == syntax.TypeArguments:
			for _, arg := range c.NamedChildren() {
				if isType(arg.Kind()) {
					v.Type(arg)
				}
			}
		case c.Kind() == syntax.Parameters:
			v.Params(c)
		case c.FieldName() == "length":
			v.Expr(c)
		case isType(c.Kind()):
			v.Type(c)
		}
	}
}

// WalkGenericParam visits the bounds and default type of a type parameter.
func WalkGenericParam(v Visitor, n syntax.Node) {
	if bounds, ok := n.Field("bounds"); ok {
		visitBounds(v, bounds)
	}
	if def, ok := n.Field("default_type"); ok {
		v.Type(def)
	}
}

// WalkWhereClause visits each predicate of a where clause.
func WalkWhereClause(v Visitor, n syntax.Node) {
	for _, p := range n.ChildrenOfKind(syntax.WherePredicate) {
		v.WherePredicate(p)
	}
}

// WalkWherePredicate visits the bounded type, then its bounds.
func WalkWherePredicate(v Visitor, n syntax.Node) {
	v.Type(n.Required("left"))
	if bounds, ok := n.Field("bounds"); ok {
		visitBounds(v, bounds)
	}
}

// WalkParams visits the patterns and types of function and closure
// parameters. A self parameter has neither.
func WalkParams(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		switch k := c.Kind(); {
		case k == syntax.Parameter:
			v.Pat(c.Required("pattern"))
			v.Type(c.Required("type"))
		case k == syntax.SelfParameter, k == syntax.Attribute:
		case n.Kind() == syntax.ClosureParameters:
			v.Pat(c)
		case isType(k):
			v.Type(c)
		}
	}
}

// WalkBlock visits each statement, then the trailing expression if any.
func WalkBlock(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		switch k := c.Kind(); {
		case k == syntax.LabelNode, k == syntax.Attribute, k == syntax.InnerAttribute:
		case isStmt(k):
			v.Stmt(c)
		default:
			v.Expr(c)
		}
	}
}

// WalkStmt visits expression statements, let bindings (pattern, type, value
// and else block) and items declared in a block.
func WalkStmt(v Visitor, n syntax.Node) {
	switch k := n.Kind(); {
	case k == syntax.ExprStmt:
		for _, c := range n.NamedChildren() {
			v.Expr(c)
		}
	case k == syntax.LetDecl:
		v.Pat(n.Required("pattern"))
		if t, ok := n.Field("type"); ok {
			v.Type(t)
		}
		if e, ok := n.Field("value"); ok {
			v.Expr(e)
		}
		if alt, ok := n.Field("alternative"); ok {
			v.Block(alt)
		}
	case syntax.IsItem(k):
		v.Item(n)
	}
}

// WalkExpr visits the operands of an expression in source order. Leaf
// expressions and kinds without interesting structure are no-ops.
func WalkExpr(v Visitor, n syntax.Node) {
	switch n.Kind() {
	case syntax.Block:
		v.Block(n)
	case syntax.UnsafeBlock, syntax.AsyncBlock, syntax.ConstBlock, syntax.TryBlock, syntax.GenBlock:
		if b, ok := n.ChildOfKind(syntax.Block); ok {
			v.Block(b)
		}
	case syntax.IfExpr:
		walkCondition(v, n.Required("condition"))
		v.Block(n.Required("consequence"))
		if alt, ok := n.Field("alternative"); ok {
			walkElse(v, alt)
		}
	case syntax.IfLetExpr:
		v.Pat(n.Required("pattern"))
		v.Expr(n.Required("value"))
		v.Block(n.Required("consequence"))
		if alt, ok := n.Field("alternative"); ok {
			walkElse(v, alt)
		}
	case syntax.WhileLetExpr:
		v.Pat(n.Required("pattern"))
		v.Expr(n.Required("value"))
		v.Block(n.Required("body"))
	case syntax.WhileExpr:
		walkCondition(v, n.Required("condition"))
		v.Block(n.Required("body"))
	case syntax.LoopExpr:
		v.Block(n.Required("body"))
	case syntax.ForExpr:
		v.Pat(n.Required("pattern"))
		v.Expr(n.Required("value"))
		v.Block(n.Required("body"))
	case syntax.MatchExpr:
		v.Expr(n.Required("value"))
		for _, arm := range n.Required("body").ChildrenOfKind(syntax.MatchArm) {
			v.Arm(arm)
		}
	case syntax.CallExpr:
		v.Expr(n.Required("function"))
		v.ArgList(n.Required("arguments"))
	case syntax.MacroCall:
		v.MacroCall(n)
	case syntax.ClosureExpr:
		v.Params(n.Required("parameters"))
		if ret, ok := n.Field("return_type"); ok {
			v.ReturnType(ret)
		}
		v.Expr(n.Required("body"))
	case syntax.CastExpr:
		v.Expr(n.Required("value"))
		v.Type(n.Required("type"))
	case syntax.FieldExpr:
		v.Expr(n.Required("value"))
	case syntax.GenericFunc:
		v.Expr(n.Required("function"))
	case syntax.StructExpr:
		v.Path(n.Required("name"))
		for _, f := range n.Required("body").NamedChildren() {
			switch f.Kind() {
			case syntax.FieldInit:
				v.Expr(f.Required("value"))
			case syntax.BaseFieldInit:
				for _, c := range f.NamedChildren() {
					v.Expr(c)
				}
			}
		}
	case syntax.BinaryExpr, syntax.AssignExpr, syntax.CompoundAssign, syntax.IndexExpr,
		syntax.RangeExpr, syntax.TupleExpr, syntax.ArrayExpr, syntax.ParenExpr,
		syntax.UnaryExpr, syntax.RefExpr, syntax.TryExpr, syntax.AwaitExpr,
		syntax.ReturnExpr, syntax.BreakExpr, syntax.YieldExpr:
		for _, c := range n.NamedChildren() {
			switch c.Kind() {
			case syntax.LabelNode, syntax.Attribute, "mutable_specifier":
			default:
				v.Expr(c)
			}
		}
	case syntax.IdentifierNode, syntax.ScopedIdent, syntax.SelfExpr:
		v.Path(n)
	}
}

func walkElse(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		if c.Kind() == syntax.Block {
			v.Block(c)
		} else {
			v.Expr(c)
		}
	}
}

func walkCondition(v Visitor, n syntax.Node) {
	switch n.Kind() {
	case syntax.LetCondition:
		v.Pat(n.Required("pattern"))
		v.Expr(n.Required("value"))
	case syntax.LetChain:
		for _, c := range n.NamedChildren() {
			walkCondition(v, c)
		}
	default:
		v.Expr(n)
	}
}

// WalkPat visits sub-patterns. Bindings are reported as names, paths of
// tuple-struct and struct patterns as paths.
func WalkPat(v Visitor, n syntax.Node) {
	switch n.Kind() {
	case syntax.IdentifierNode:
		v.Name(n)
	case syntax.ScopedIdent:
		v.Path(n)
	case syntax.MacroCall:
		v.MacroCall(n)
	case syntax.TuplePattern, syntax.SlicePattern, syntax.OrPattern, syntax.RefPattern,
		syntax.RefdPattern, syntax.MutPattern, syntax.CapturedPattern:
		for _, c := range n.NamedChildren() {
			if c.Kind() != "mutable_specifier" {
				v.Pat(c)
			}
		}
	case syntax.TupleStructPattern:
		v.Path(n.Required("type"))
		for _, c := range n.NamedChildren() {
			if c.FieldName() != "type" {
				v.Pat(c)
			}
		}
	case syntax.StructPattern:
		v.Path(n.Required("type"))
		for _, f := range n.ChildrenOfKind(syntax.FieldPattern) {
			if p, ok := f.Field("pattern"); ok {
				v.Pat(p)
			} else {
				v.Name(f.Required("name"))
			}
		}
	}
}

// WalkArm visits the patterns of a match arm, its guard, then its value.
func WalkArm(v Visitor, n syntax.Node) {
	visitLeading(v, n)
	pat := n.Required("pattern")
	for _, c := range pat.NamedChildren() {
		if c.FieldName() == "condition" {
			walkCondition(v, c)
		} else {
			v.Pat(c)
		}
	}
	v.Expr(n.Required("value"))
}

// WalkArgList visits each argument expression of a call.
func WalkArgList(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		if c.Kind() != syntax.Attribute {
			v.Expr(c)
		}
	}
}

func walkItems(v Visitor, n syntax.Node) {
	for _, c := range n.NamedChildren() {
		if syntax.IsItem(c.Kind()) {
			v.Item(c)
		}
	}
}

func visitVis(v Visitor, n syntax.Node) {
	if vis, ok := n.ChildOfKind(syntax.Visibility); ok {
		v.Visibility(vis)
	}
}

func visitGenerics(v Visitor, n syntax.Node) {
	tp, ok := n.Field("type_parameters")
	if !ok {
		return
	}
	for _, p := range tp.NamedChildren() {
		if p.Kind() != syntax.Attribute {
			v.GenericParam(p)
		}
	}
}

func visitWhere(v Visitor, n syntax.Node) {
	if w, ok := n.ChildOfKind(syntax.WhereClause); ok {
		v.WhereClause(w)
	}
}

func visitBounds(v Visitor, n syntax.Node) {
	for _, b := range n.NamedChildren() {
		if isType(b.Kind()) {
			v.Type(b)
		}
	}
}

// visitLeading reports the doc comments and outer attributes written
// directly before n.
func visitLeading(v Visitor, n syntax.Node) {
	var docs, attrs []syntax.Node
	for s, ok := n.PrevSiblingOrToken(); ok; s, ok = s.PrevSiblingOrToken() {
		if s.TokenKind() == syntax.TokenWhitespace {
			continue
		}
		if s.TokenKind() == syntax.TokenComment {
			if isDoc(s.Text()) {
				docs = append([]syntax.Node{s}, docs...)
			}
			continue
		}
		if s.Kind() == syntax.Attribute {
			attrs = append([]syntax.Node{s}, attrs...)
			continue
		}
		break
	}
	v.Comments(docs)
	v.Attrs(attrs)
}

func isDoc(text string) bool {
	return strings.HasPrefix(text, "///") && !strings.HasPrefix(text, "////") ||
		strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/***")
}

func isStmt(k syntax.Kind) bool {
	return k == syntax.ExprStmt || k == syntax.LetDecl || k == syntax.EmptyStmt || syntax.IsItem(k)
}

func isType(k syntax.Kind) bool {
	switch k {
	case syntax.TypeIdentifier, syntax.ScopedTypeIdent, syntax.GenericType, syntax.ReferenceType,
		syntax.PointerType, syntax.TupleType, syntax.ArrayType, syntax.FunctionType,
		syntax.PrimitiveType, syntax.UnitType, syntax.NeverType, syntax.DynamicType,
		syntax.AbstractType, syntax.BoundedType:
		return true
	}
	return false
}
