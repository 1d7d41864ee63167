// Package record holds the three extraction record types (ImportRecord,
// CallRecord, VariableBinding) produced by the visitors in
// internal/extract. Keeping them in their own package (rather than inside
// internal/extract or internal/source) lets both packages depend on the
// shapes without a cycle: extract produces records, source stores them,
// evaluate reads them back.
package record

import (
	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/value"
)

// Lexical is the context an import occurred in.
type Lexical string

const (
	ContextGlobal   Lexical = "global"
	ContextFunction Lexical = "function"
)

// Import is one import statement or dynamic-import call site.
type Import struct {
	Module    string
	Symbol    string // empty if not a from-import
	Location  ast.Location
	Alias     string // empty if none
	Context   Lexical
	IsDynamic bool
}

// Key returns the (module, row, col) triple that defines ImportRecord
// identity: the same triple is never added twice.
func (i Import) Key() [3]any {
	return [3]any{i.Module, i.Location.Row, i.Location.Column}
}

// Call is one call site resolved to a dotted identifier.
type Call struct {
	FullIdentifier string
	Location       ast.Location
	Args           []*value.Value            // nil element = no value extracted for that slot
	Keywords       []KeywordArg
}

// KeywordArg is one `name=value` call keyword, Name empty for unnamed/unresolved.
type KeywordArg struct {
	Name  string
	Value *value.Value
}

// BaseIdentifier returns the portion of FullIdentifier before the first
// '.', used by cross-resolution to rewrite aliased call bases.
func (c Call) BaseIdentifier() string {
	for i := 0; i < len(c.FullIdentifier); i++ {
		if c.FullIdentifier[i] == '.' {
			return c.FullIdentifier[:i]
		}
	}
	return c.FullIdentifier
}

// LastAttribute returns the substring after the last '.', used by the
// evaluator to match function rules.
func (c Call) LastAttribute() string {
	last := -1
	for i := 0; i < len(c.FullIdentifier); i++ {
		if c.FullIdentifier[i] == '.' {
			last = i
		}
	}
	if last == -1 {
		return c.FullIdentifier
	}
	return c.FullIdentifier[last+1:]
}

// Variable is one top-level name binding: name to Value plus the location
// of the defining assignment.
type Variable struct {
	Name     string
	Value    *value.Value
	Location ast.Location
}

// EmptyArgIdentifier is the placeholder identifier recorded for a call whose
// callee is itself a call, e.g. `f()(...)`.
const EmptyArgIdentifier = "*"

// DynamicImportTargets lists the reflective loader identifiers that
// cross-resolution treats as dynamic imports.
var DynamicImportTargets = map[string]bool{
	"__import__":               true,
	"importlib.import_module":  true,
}
