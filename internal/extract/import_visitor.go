package extract

import (
	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/record"
	"github.com/Syntox32/scout/internal/walk"
)

// ImportVisitor records every Import and ImportFrom statement.
// A lexical context stack starts at ["global"] and gains "function" while
// descending into a function body; each import inherits the top of stack.
type ImportVisitor struct {
	walk.BaseVisitor

	imports []record.Import
	seen    map[[3]any]bool
	aliases map[string]string
	counts  map[string]int
	context []record.Lexical
}

// NewImportVisitor returns a ready-to-use ImportVisitor.
func NewImportVisitor() *ImportVisitor {
	return &ImportVisitor{
		seen:    make(map[[3]any]bool),
		aliases: make(map[string]string),
		counts:  make(map[string]int),
		context: []record.Lexical{record.ContextGlobal},
	}
}

// Imports returns every distinct import record collected so far.
func (v *ImportVisitor) Imports() []record.Import { return v.imports }

// Aliases returns the alias -> target map built while visiting.
func (v *ImportVisitor) Aliases() map[string]string { return v.aliases }

// Counts returns the per-module import count table.
func (v *ImportVisitor) Counts() map[string]int { return v.counts }

func (v *ImportVisitor) currentContext() record.Lexical {
	return v.context[len(v.context)-1]
}

func (v *ImportVisitor) add(entry record.Import) {
	key := entry.Key()
	if v.seen[key] {
		return
	}
	v.seen[key] = true

	v.counts[entry.Module]++

	if entry.Alias != "" {
		if entry.Symbol != "" {
			v.aliases[entry.Alias] = entry.Module + "." + entry.Symbol
		} else {
			v.aliases[entry.Alias] = entry.Module
		}
	}

	v.imports = append(v.imports, entry)
}

// VisitImport handles `import m [as a]` for every symbol in the statement.
func (v *ImportVisitor) VisitImport(w *walk.Walker, n *ast.Node) {
	for _, sym := range n.Symbols {
		v.add(record.Import{
			Module:   sym.Name,
			Location: n.Loc,
			Alias:    sym.Alias,
			Context:  v.currentContext(),
		})
	}
}

// VisitImportFrom handles `from m import s [as a]` for every symbol.
func (v *ImportVisitor) VisitImportFrom(w *walk.Walker, n *ast.Node) {
	for _, sym := range n.Symbols {
		v.add(record.Import{
			Module:   n.Module,
			Symbol:   sym.Name,
			Location: n.Loc,
			Alias:    sym.Alias,
			Context:  v.currentContext(),
		})
	}
}

// VisitFunctionDef pushes "function" context for the body, then pops it.
func (v *ImportVisitor) VisitFunctionDef(w *walk.Walker, n *ast.Node) {
	v.context = append(v.context, record.ContextFunction)
	w.WalkAll(n.Body)
	v.context = v.context[:len(v.context)-1]
}

// VisitClassDef also counts as "function" context: nested classes and
// methods both count as "function", no finer distinction.
func (v *ImportVisitor) VisitClassDef(w *walk.Walker, n *ast.Node) {
	v.context = append(v.context, record.ContextFunction)
	w.WalkAll(n.Body)
	v.context = v.context[:len(v.context)-1]
}
