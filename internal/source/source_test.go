package source

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/extract"
	"github.com/Syntox32/scout/internal/walk"
)

func TestLineCountAndLineAccess(t *testing.T) {
	s := New("sample.py", "import os\nprint(os.name)\n")

	assert.Equal(t, 3, s.LineCount()) // trailing newline produces a final empty line
	assert.Equal(t, "import os", s.Line(1))
	assert.Equal(t, "", s.Line(0))
	assert.Equal(t, "", s.Line(99))
}

func TestLinesBetweenClampsToBounds(t *testing.T) {
	s := New("sample.py", "a\nb\nc\n")

	assert.Equal(t, []string{"a", "b", "c", ""}, s.LinesBetween(1, 10)) // the trailing newline's empty final line is in bounds
	assert.Nil(t, s.LinesBetween(5, 1))
}

func TestResolveFreezesExtractionRecords(t *testing.T) {
	s := New("sample.py", "import os\nos.system('id')\n")

	importNode := &ast.Node{Kind: ast.KindImport, Loc: ast.Location{Row: 1}, Symbols: []ast.Symbol{{Name: "os"}}}
	callNode := &ast.Node{
		Kind:   ast.KindCall,
		Loc:    ast.Location{Row: 2},
		Callee: &ast.Node{Kind: ast.KindAttribute, Base: ast.Ident("os", ast.Location{Row: 2}), Attr: "system"},
		Args:   []*ast.Node{ast.StringLit("id", ast.Location{Row: 2})},
	}

	iv := extract.NewImportVisitor()
	walk.New(iv).Walk(importNode)
	cv := extract.NewCallVisitor()
	walk.New(cv).Walk(callNode)
	vv := extract.NewVariableVisitor()

	assert.False(t, s.Resolved())
	s.Resolve(iv, cv, vv)
	assert.True(t, s.Resolved())

	assert.Equal(t, 1, s.ImportCount("os"))
	assert.Equal(t, 1, s.CallCount("os.system"))
	assert.Contains(t, s.ImportModuleSet(), "os")
	assert.Contains(t, s.CallIdentifierSet(), "os.system")
}

func TestWeightsDefaultToOneWithoutCorpusPass(t *testing.T) {
	s := New("sample.py", "")

	assert.Equal(t, 1.0, s.ImportWeight("os"))
	assert.Equal(t, 1.0, s.CallWeight("os.system"))

	s.SetImportTFIDF(map[string]float64{"os": 2.5})
	assert.Equal(t, 2.5, s.ImportWeight("os"))
	assert.Equal(t, 1.0, s.ImportWeight("socket"))
}
