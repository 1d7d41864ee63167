// Package walk implements double-dispatch tree traversal: single-threaded,
// depth-first, left-to-right in source order, total over any well-formed
// tree. Visitors override only the hooks they care about; BaseVisitor's
// defaults recurse structurally by calling back into the Walker, the
// classic "default methods call walk_*" shape of a visitor trait with
// default-method recursion.
package walk

import "github.com/Syntox32/scout/internal/ast"

// Visitor exposes one hook per semantically interesting node kind, plus a
// generic fallback for everything else. The Walker always dispatches
// through this interface so that a concrete visitor embedding BaseVisitor
// and overriding a handful of hooks gets dynamic dispatch for the rest.
type Visitor interface {
	VisitImport(w *Walker, n *ast.Node)
	VisitImportFrom(w *Walker, n *ast.Node)
	VisitCall(w *Walker, n *ast.Node)
	VisitAssign(w *Walker, n *ast.Node)
	VisitAugAssign(w *Walker, n *ast.Node)
	VisitFunctionDef(w *Walker, n *ast.Node)
	VisitClassDef(w *Walker, n *ast.Node)
	VisitGeneric(w *Walker, n *ast.Node)
}

// Walker drives a single Visitor over a tree.
type Walker struct {
	v Visitor
}

// New returns a Walker bound to v.
func New(v Visitor) *Walker {
	return &Walker{v: v}
}

// Walk dispatches n to the matching hook on the Walker's Visitor. Nil nodes
// are a no-op, so callers never need to guard optional children.
func (w *Walker) Walk(n *ast.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case ast.KindImport:
		w.v.VisitImport(w, n)
	case ast.KindImportFrom:
		w.v.VisitImportFrom(w, n)
	case ast.KindCall:
		w.v.VisitCall(w, n)
	case ast.KindAssign:
		w.v.VisitAssign(w, n)
	case ast.KindAugAssign:
		w.v.VisitAugAssign(w, n)
	case ast.KindFunctionDef:
		w.v.VisitFunctionDef(w, n)
	case ast.KindClassDef:
		w.v.VisitClassDef(w, n)
	default:
		w.v.VisitGeneric(w, n)
	}
}

// WalkAll walks each node of nodes in order.
func (w *Walker) WalkAll(nodes []*ast.Node) {
	for _, n := range nodes {
		w.Walk(n)
	}
}

// BaseVisitor supplies the "recurse structurally" default for every hook.
// Embed it by value in a concrete visitor and override only the hooks that
// extract something; the rest keep descending into children untouched.
type BaseVisitor struct{}

func (BaseVisitor) VisitImport(w *Walker, n *ast.Node)     {}
func (BaseVisitor) VisitImportFrom(w *Walker, n *ast.Node) {}

func (BaseVisitor) VisitCall(w *Walker, n *ast.Node) {
	w.Walk(n.Callee)
	w.WalkAll(n.Args)
	for _, kw := range n.Keywords {
		w.Walk(kw.Value)
	}
}

func (BaseVisitor) VisitAssign(w *Walker, n *ast.Node) {
	w.WalkAll(n.Targets)
	w.Walk(n.Value)
}

func (BaseVisitor) VisitAugAssign(w *Walker, n *ast.Node) {
	w.Walk(n.Target)
	w.Walk(n.Value)
}

func (BaseVisitor) VisitFunctionDef(w *Walker, n *ast.Node) {
	w.WalkAll(n.Body)
}

func (BaseVisitor) VisitClassDef(w *Walker, n *ast.Node) {
	w.WalkAll(n.Body)
}

func (BaseVisitor) VisitGeneric(w *Walker, n *ast.Node) {
	w.WalkAll(n.Children)
}
