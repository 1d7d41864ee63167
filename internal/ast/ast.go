// Package ast defines the syntax-tree vocabulary the core analysis engine
// consumes. It is deliberately decoupled from any concrete parser:
// internal/pyparse is the one collaborator that knows how to turn a
// tree-sitter CST into this shape. Everything under internal/walk,
// internal/extract, internal/source, internal/evaluate, and internal/density
// operates only on this package's types and never imports a parser.
package ast

// Kind tags which variant of the node vocabulary a Node carries. Every kind
// the core does not need to interpret on its own terms is represented as
// KindOther and traversed generically through Children.
type Kind int

const (
	KindOther Kind = iota
	KindIdentifier
	KindAttribute
	KindCall
	KindString
	KindBinOp
	KindAssign
	KindAugAssign
	KindImport
	KindImportFrom
	KindFunctionDef
	KindClassDef
)

func (k Kind) String() string {
	switch k {
	case KindIdentifier:
		return "Identifier"
	case KindAttribute:
		return "Attribute"
	case KindCall:
		return "Call"
	case KindString:
		return "String"
	case KindBinOp:
		return "BinOp"
	case KindAssign:
		return "Assign"
	case KindAugAssign:
		return "AugAssign"
	case KindImport:
		return "Import"
	case KindImportFrom:
		return "ImportFrom"
	case KindFunctionDef:
		return "FunctionDef"
	case KindClassDef:
		return "ClassDef"
	default:
		return "Other"
	}
}

// Op enumerates the binary/augmented-assignment operators the core cares
// about. Every operator besides Add is opaque to the core.
type Op int

const (
	OpUnknown Op = iota
	OpAdd
)

// Location is a 1-based (row, column) source position.
type Location struct {
	Row    int
	Column int
}

// Symbol is one name imported by an Import/ImportFrom statement, with its
// optional local alias.
type Symbol struct {
	Name  string
	Alias string
}

// Keyword is one `name=value` call keyword argument. Name is empty for a
// bare `**kwargs`-style spread, which the core does not interpret further.
type Keyword struct {
	Name  string
	Value *Node
}

// Node is a tagged union over the syntax-tree vocabulary. Rather than
// modeling each variant as a distinct Go type (which would force the
// walker and every visitor to juggle a dozen concrete types via
// interfaces), a single struct carries all variant payloads and Kind says
// which ones are meaningful: a closed sum type, pattern-matched on the tag,
// expressed as a flat struct instead of nested enums.
type Node struct {
	Kind Kind
	Loc  Location

	// KindIdentifier
	Name string

	// KindAttribute: Base.Attr
	Base *Node
	Attr string

	// KindCall
	Callee   *Node
	Args     []*Node
	Keywords []Keyword

	// KindString
	Str string

	// KindBinOp
	Lhs   *Node
	BinOp Op
	Rhs   *Node

	// KindAssign
	Targets []*Node
	Value   *Node

	// KindAugAssign
	Target *Node
	AugOp  Op
	// Value above is reused for the RHS of an AugAssign too.

	// KindImport: Symbols are the imported module names.
	// KindImportFrom: Module/Level plus Symbols are the imported names.
	Module  string
	Level   int
	Symbols []Symbol

	// KindFunctionDef / KindClassDef
	Body []*Node

	// Every other node kind (and the statement/expression shapes explicitly
	// named above still have substructure the core doesn't interpret, e.g. a
	// function's default-argument expressions) descends through Children.
	Children []*Node
}

// Ident builds a KindIdentifier leaf.
func Ident(name string, loc Location) *Node {
	return &Node{Kind: KindIdentifier, Name: name, Loc: loc}
}

// StringLit builds a KindString leaf.
func StringLit(value string, loc Location) *Node {
	return &Node{Kind: KindString, Str: value, Loc: loc}
}
