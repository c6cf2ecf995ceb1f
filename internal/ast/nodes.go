package ast

// NodeID is a non-zero 32-bit node identifier. Zero is reserved as
// "invalid" and never assigned to a real node.
type NodeID uint32

// A SimpleTypeKind is a primitive type, represented as a compact value
// enum rather than a heap-allocated node. Comparable by discriminant.
type SimpleTypeKind int

const (
	Unit SimpleTypeKind = iota
	Bool
	I8
	I16
	I32
	I64
	U8
	U16
	U32
	U64
)

func (k SimpleTypeKind) String() string {
	switch k {
	case Unit:
		return "unit"
	case Bool:
		return "bool"
	case I8:
		return "i8"
	case I16:
		return "i16"
	case I32:
		return "i32"
	case I64:
		return "i64"
	case U8:
		return "u8"
	case U16:
		return "u16"
	case U32:
		return "u32"
	case U64:
		return "u64"
	default:
		return "<unknown simple type>"
	}
}

// Visibility is carried on definitions, fields, methods, and modules.
// The default, absent a "pub" marker on the CST node, is Private.
type Visibility int

const (
	Private Visibility = iota
	Public
)

// NodeKind discriminates the concrete node stored at a NodeID.
type NodeKind int

const (
	KindSourceFile NodeKind = iota

	// Directives
	KindUseDirective

	// Definitions
	KindFunctionDef
	KindStructDef
	KindEnumDef
	KindConstDef
	KindTypeAliasDef
	KindModuleDef
	KindSpecDef
	KindImplDef

	// Block types
	KindForallBlock
	KindExistsBlock
	KindAssumeBlock
	KindUniqueBlock
	KindPlainBlock

	// Statements
	KindLetStmt
	KindAssignStmt
	KindReturnStmt
	KindIfStmt
	KindWhileStmt
	KindLoopStmt
	KindBreakStmt
	KindExprStmt

	// Expressions
	KindLiteralExpr
	KindIdentExpr
	KindBinaryExpr
	KindUnaryExpr
	KindCallExpr
	KindMethodCallExpr
	KindFieldAccessExpr
	KindIndexExpr
	KindArrayLiteralExpr
	KindStructLiteralExpr
	KindTypeMemberAccessExpr
	KindUzumakiExpr
	KindBlockExpr
	KindIfExpr
	KindCastExpr

	// Literals
	KindNumberLit
	KindBoolLit
	KindStringLit
	KindUnitLit

	// Types
	KindSimpleTypeRef
	KindArrayTypeRef
	KindNamedTypeRef
	KindQualifiedTypeRef
	KindGenericParamTypeRef
	KindFunctionTypeRef

	// Misc
	KindArgument
	KindField
	KindEnumVariant
	KindIdentifier
)

// Node is satisfied by every node stored in an Arena.
type Node interface {
	ID() NodeID
	Loc() Loc
	Kind() NodeKind
}

// NodeSetter is additionally satisfied by every concrete node type,
// via the promoted method from the embedded base. The parser uses it
// to stamp a freshly built node with its id, location, and kind in one
// call, without a type switch over every node constructor.
type NodeSetter interface {
	Node
	SetNode(id NodeID, loc Loc, kind NodeKind)
}

// base is embedded by every concrete node and supplies ID/Loc/Kind.
// Its fields are exported so that embedding promotes them: outside
// code sets a node's identity via the promoted SetNode method rather
// than reaching through the unexported base field directly.
type base struct {
	NID   NodeID
	NLoc  Loc
	NKind NodeKind
}

func (b *base) ID() NodeID     { return b.NID }
func (b *base) Loc() Loc       { return b.NLoc }
func (b *base) Kind() NodeKind { return b.NKind }

func (b *base) SetNode(id NodeID, loc Loc, kind NodeKind) {
	b.NID = id
	b.NLoc = loc
	b.NKind = kind
}

// SourceFile is the root node of one parsed file. The arena stores the
// full source text exactly once, on this node.
type SourceFile struct {
	base
	Path string
	Text string
	Uses []NodeID
	Defs []NodeID
}

// UseDirective registers a "use" import. ImportKind discriminates
// plain/glob/partial.
type ImportKind int

const (
	ImportPlain ImportKind = iota
	ImportGlob
	ImportPartial
)

// A PartialItem is one `name` or `name as alias` entry of a partial
// `use a::{x, y as z};` directive.
type PartialItem struct {
	Name  string
	Alias string // empty if no alias
}

type UseDirective struct {
	base
	ImportKind ImportKind
	Path       []string // e.g. ["a", "b", "c"]
	Partial    []PartialItem
}

// FunctionDef is a top-level function or an impl-block method.
type FunctionDef struct {
	base
	Name       string
	Visibility Visibility
	TypeParams []string
	Params     []NodeID // Argument nodes
	ReturnType NodeID   // Type node, 0 if omitted (unit)
	Body       NodeID   // PlainBlock (statement list), 0 if declaration-only
	HasSelf    bool     // true for instance methods on an impl block
	RecvType   string   // set when this is a method; the receiver type name
}

type StructDef struct {
	base
	Name       string
	Visibility Visibility
	TypeParams []string
	Fields     []NodeID // Field nodes, in declared order
}

type EnumDef struct {
	base
	Name       string
	Visibility Visibility
	Variants   []NodeID // EnumVariant nodes
}

type ConstDef struct {
	base
	Name       string
	Visibility Visibility
	Type       NodeID // Type node, 0 if omitted
	Value      NodeID // Expression node
}

type TypeAliasDef struct {
	base
	Name       string
	Visibility Visibility
	Aliased    NodeID // Type node
}

type ModuleDef struct {
	base
	Name       string
	Visibility Visibility
	Defs       []NodeID
}

type SpecDef struct {
	base
	Name       string
	Visibility Visibility
	Methods    []NodeID // FunctionDef nodes (signatures only, Body == 0)
}

type ImplDef struct {
	base
	TypeName string
	SpecName string // empty if this is a bare impl, not a spec conformance
	Methods  []NodeID
}

// PlainBlock and the four nondeterministic block kinds all hold an
// ordered statement list and introduce their own scope. They are
// statements, not expressions: they never synthesize a value type.
type Block struct {
	base
	Stmts []NodeID
}

// Statements.

type LetStmt struct {
	base
	Name  string
	Type  NodeID // Type node, 0 if omitted
	Value NodeID // Expression node
}

type AssignStmt struct {
	base
	Target NodeID // Expression node (identifier or field/index target)
	Value  NodeID
}

type ReturnStmt struct {
	base
	Value NodeID // 0 for bare `return;`
}

type IfStmt struct {
	base
	Cond NodeID
	Then NodeID // Block
	Else NodeID // Block or IfStmt-as-statement wrapper, 0 if absent
}

type WhileStmt struct {
	base
	Cond NodeID
	Body NodeID // Block
}

type LoopStmt struct {
	base
	Body NodeID // Block
}

type BreakStmt struct {
	base
}

type ExprStmt struct {
	base
	Expr NodeID
}

// Expressions.

type LiteralExpr struct {
	base
	Literal NodeID // one of NumberLit/BoolLit/StringLit/UnitLit
}

type IdentExpr struct {
	base
	Name string
}

type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpPow
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpAnd
	OpOr
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
)

func (op BinaryOp) String() string {
	names := map[BinaryOp]string{
		OpAdd: "+", OpSub: "-", OpMul: "*", OpDiv: "/", OpMod: "%", OpPow: "**",
		OpLt: "<", OpLe: "<=", OpGt: ">", OpGe: ">=", OpEq: "==", OpNe: "!=",
		OpAnd: "&&", OpOr: "||", OpBitAnd: "&", OpBitOr: "|", OpBitXor: "^",
		OpShl: "<<", OpShr: ">>",
	}
	if s, ok := names[op]; ok {
		return s
	}
	return "<unknown op>"
}

type BinaryExpr struct {
	base
	Op    BinaryOp
	Left  NodeID
	Right NodeID
}

type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
	OpBitNot
)

type UnaryExpr struct {
	base
	Op      UnaryOp
	Operand NodeID
}

type CallExpr struct {
	base
	Callee NodeID // IdentExpr naming the function
	Args   []NodeID
}

type MethodCallExpr struct {
	base
	Receiver NodeID
	Method   string
	Args     []NodeID
}

type FieldAccessExpr struct {
	base
	Receiver NodeID
	Field    string
}

type IndexExpr struct {
	base
	Array NodeID
	Index NodeID
}

type ArrayLiteralExpr struct {
	base
	Elements []NodeID
}

type StructLiteralExpr struct {
	base
	TypeName string
	Fields   map[string]NodeID
	// FieldOrder preserves source order for deterministic diagnostics.
	FieldOrder []string
}

type TypeMemberAccessExpr struct {
	base
	EnumName string
	Variant  string
}

// UzumakiExpr is the `@` operator: legal only inside a nondeterministic
// block, standing for an arbitrary value of the expected type.
type UzumakiExpr struct {
	base
}

type BlockExpr struct {
	base
	Block NodeID
}

type IfExpr struct {
	base
	Cond NodeID
	Then NodeID
	Else NodeID
}

type CastExpr struct {
	base
	Value NodeID
	Type  NodeID
}

// Literals.

type NumberLit struct {
	base
	Text string // original spelling, e.g. "42"
}

type BoolLit struct {
	base
	Value bool
}

type StringLit struct {
	base
	Value string
}

type UnitLit struct {
	base
}

// Types (AST-level type references, distinct from resolved TypeInfo).

type SimpleTypeRef struct {
	base
	TypeKind SimpleTypeKind
}

type ArrayTypeRef struct {
	base
	Elem NodeID
	Size uint32
}

type NamedTypeRef struct {
	base
	Name     string
	TypeArgs []NodeID
}

type QualifiedTypeRef struct {
	base
	Path []string
}

// GenericParamTypeRef is never produced by the parser: a bare
// identifier type reference is always built as a NamedTypeRef, and the
// type checker (which alone knows a definition's declared type
// parameters) is what distinguishes a reference to a type parameter
// from a reference to an unresolved named type, by recording the
// parameter names on the enclosing definition. This kind exists so the
// checker's resolved-reference bookkeeping has a node kind to report
// for diagnostics that must point at the syntactic occurrence.
type GenericParamTypeRef struct {
	base
	Name string
}

type FunctionTypeRef struct {
	base
	Params []NodeID
	Result NodeID
}

// Misc.

type Argument struct {
	base
	Name string
	Type NodeID
}

type Field struct {
	base
	Name       string
	Type       NodeID
	Visibility Visibility
}

type EnumVariant struct {
	base
	Name string
}

type Identifier struct {
	base
	Name string
}
