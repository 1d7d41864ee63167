package extract

import (
	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/value"
	"github.com/Syntox32/scout/internal/walk"
)

// VariableVisitor records constant-like bindings from top-level Assign and
// AugAssign statements; function and class bodies are not descended into.
// Resolution is deliberately shallow: string literals, lists of
// strings, and BinOp(Add) string concatenation for Assign; string
// concatenation only for AugAssign(+=).
type VariableVisitor struct {
	walk.BaseVisitor

	variables map[string]*value.Value
	locations map[string]ast.Location
}

// NewVariableVisitor returns a ready-to-use VariableVisitor.
func NewVariableVisitor() *VariableVisitor {
	return &VariableVisitor{
		variables: make(map[string]*value.Value),
		locations: make(map[string]ast.Location),
	}
}

// Variables returns the name -> Value bindings collected so far.
func (v *VariableVisitor) Variables() map[string]*value.Value { return v.variables }

// Locations returns the name -> defining-assignment location map.
func (v *VariableVisitor) Locations() map[string]ast.Location { return v.locations }

func (v *VariableVisitor) bind(name string, val *value.Value, loc ast.Location) {
	v.variables[name] = val
	v.locations[name] = loc
}

// valueFromExpr resolves an Assign RHS: string literal, list of strings, or
// BinOp(Add) string concatenation.
func valueFromExpr(n *ast.Node) *value.Value {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindString, ast.KindBinOp:
		return resolveStaticValue(n)
	case ast.KindIdentifier:
		// Assign targets are identifiers; RHS identifiers are not folded
		// here (that is cross-resolution's job, one hop only).
		return nil
	default:
		return listOfStrings(n)
	}
}

// listOfStrings resolves a list/tuple-shaped node whose elements are each a
// string literal, matching the original visitor's List support.
func listOfStrings(n *ast.Node) *value.Value {
	if n == nil || n.Kind != ast.KindOther || n.Children == nil {
		return nil
	}
	// A bare list/tuple literal has no dedicated Kind in the node
	// vocabulary; the parser collaborator represents it as KindOther with
	// its elements in Children so VariableVisitor can still see it.
	items := make([]*value.Value, len(n.Children))
	any := false
	for i, child := range n.Children {
		if s, ok := child.Str, child.Kind == ast.KindString; ok {
			items[i] = value.String(s)
			any = true
		}
	}
	if !any {
		return nil
	}
	return value.List(items)
}

// VisitAssign handles `targets = value`.
func (v *VariableVisitor) VisitAssign(w *walk.Walker, n *ast.Node) {
	val := valueFromExpr(n.Value)
	if val != nil {
		for _, target := range n.Targets {
			if target.Kind == ast.KindIdentifier {
				v.bind(target.Name, val, target.Loc)
			}
		}
	}

	w.WalkAll(n.Targets)
	w.Walk(n.Value)
}

// VisitAugAssign handles `target += value`; only Add is folded.
func (v *VariableVisitor) VisitAugAssign(w *walk.Walker, n *ast.Node) {
	if n.AugOp == ast.OpAdd && n.Target.Kind == ast.KindIdentifier {
		current, hasCurrent := v.variables[n.Target.Name]
		rhs := resolveRHS(n.Value, v.variables)

		if hasCurrent && current.IsString() && rhs != nil && rhs.IsString() {
			curStr, _ := current.AsString()
			rhsStr, _ := rhs.AsString()
			v.bind(n.Target.Name, value.String(curStr+rhsStr), v.locations[n.Target.Name])
		}
	}

	w.Walk(n.Target)
	w.Walk(n.Value)
}

// VisitFunctionDef skips the body: only top-level bindings are recorded.
func (v *VariableVisitor) VisitFunctionDef(w *walk.Walker, n *ast.Node) {}

// VisitClassDef skips the body for the same reason.
func (v *VariableVisitor) VisitClassDef(w *walk.Walker, n *ast.Node) {}

// resolveRHS resolves an AugAssign value operand: either an identifier
// looked up in the known variable map, or any other string-resolvable
// expression.
func resolveRHS(n *ast.Node, variables map[string]*value.Value) *value.Value {
	if n == nil {
		return nil
	}
	if n.Kind == ast.KindIdentifier {
		return variables[n.Name]
	}
	return resolveStaticValue(n)
}
