package walk

import (
	"testing"

	"github.com/Syntox32/scout/internal/ast"
	"github.com/stretchr/testify/assert"
)

// countingVisitor records the source-order sequence of call identifiers it sees.
type countingVisitor struct {
	BaseVisitor
	calls []string
}

func (c *countingVisitor) VisitCall(w *Walker, n *ast.Node) {
	c.calls = append(c.calls, n.Callee.Name)
	c.BaseVisitor.VisitCall(w, n)
}

func TestWalkVisitsCallsInSourceOrder(t *testing.T) {
	tree := &ast.Node{
		Kind: ast.KindFunctionDef,
		Body: []*ast.Node{
			{Kind: ast.KindCall, Callee: ast.Ident("first", ast.Location{Row: 1})},
			{
				Kind:   ast.KindCall,
				Callee: ast.Ident("second", ast.Location{Row: 2}),
				Args: []*ast.Node{
					{Kind: ast.KindCall, Callee: ast.Ident("nested", ast.Location{Row: 2})},
				},
			},
		},
	}

	v := &countingVisitor{}
	w := New(v)
	w.Walk(tree)

	assert.Equal(t, []string{"first", "second", "nested"}, v.calls)
}

func TestWalkIsTotalOverUnknownNodes(t *testing.T) {
	tree := &ast.Node{
		Kind: ast.KindOther,
		Children: []*ast.Node{
			{Kind: ast.KindOther, Children: []*ast.Node{
				{Kind: ast.KindCall, Callee: ast.Ident("deep", ast.Location{Row: 5})},
			}},
		},
	}

	v := &countingVisitor{}
	New(v).Walk(tree)
	assert.Equal(t, []string{"deep"}, v.calls)
}

func TestWalkNilIsNoop(t *testing.T) {
	v := &countingVisitor{}
	w := New(v)
	assert.NotPanics(t, func() { w.Walk(nil) })
}
