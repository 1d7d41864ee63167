package extract

import (
	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/record"
	"github.com/Syntox32/scout/internal/value"
	"github.com/Syntox32/scout/internal/walk"
)

// CallVisitor converts every call site to a record.Call.
type CallVisitor struct {
	walk.BaseVisitor

	entries []record.Call
	counts  map[string]int
}

// NewCallVisitor returns a ready-to-use CallVisitor.
func NewCallVisitor() *CallVisitor {
	return &CallVisitor{counts: make(map[string]int)}
}

// Entries returns every call record collected so far, in source order.
func (v *CallVisitor) Entries() []record.Call { return v.entries }

// Counts returns the per-identifier call count table.
func (v *CallVisitor) Counts() map[string]int { return v.counts }

func (v *CallVisitor) addEntry(entry record.Call) {
	v.counts[entry.FullIdentifier]++
	v.entries = append(v.entries, entry)
}

// resolveIdentifier resolves a callee expression to its dotted identifier
// string, recording any call found along the way: for a call whose callee
// is itself a call, the inner call is recorded too.
func (v *CallVisitor) resolveIdentifier(w *walk.Walker, n *ast.Node) (string, bool) {
	switch n.Kind {
	case ast.KindIdentifier:
		return n.Name, true
	case ast.KindAttribute:
		base, ok := v.resolveIdentifier(w, n.Base)
		if !ok {
			return "", false
		}
		return base + "." + n.Attr, true
	case ast.KindCall:
		v.VisitCall(w, n)
		return record.EmptyArgIdentifier, true
	default:
		return "", false
	}
}

// VisitCall implements the call-site resolver.
func (v *CallVisitor) VisitCall(w *walk.Walker, n *ast.Node) {
	ident, ok := v.resolveIdentifier(w, n.Callee)
	if ok {
		entry := record.Call{
			FullIdentifier: ident,
			Location:       n.Loc,
			Args:           make([]*value.Value, len(n.Args)),
			Keywords:       make([]record.KeywordArg, len(n.Keywords)),
		}
		for i, arg := range n.Args {
			entry.Args[i] = v.extractValue(arg)
		}
		for i, kw := range n.Keywords {
			entry.Keywords[i] = record.KeywordArg{Name: kw.Name, Value: v.extractValue(kw.Value)}
		}
		v.addEntry(entry)
	}

	// Keep descending regardless of whether this callee shape produced an
	// entry: skip the outer call but continue traversal. A Call callee was
	// already walked and recorded by resolveIdentifier's ast.KindCall branch;
	// walking it again here would record it a second time.
	if n.Callee != nil && n.Callee.Kind != ast.KindCall {
		w.Walk(n.Callee)
	}
	w.WalkAll(n.Args)
	for _, kw := range n.Keywords {
		w.Walk(kw.Value)
	}
}

// extractValue implements the shallow per-argument Value extraction rule:
// string literal, identifier, or BinOp(Add) of two string-resolvable
// operands folded at extraction time.
func (v *CallVisitor) extractValue(n *ast.Node) *value.Value {
	return resolveStaticValue(n)
}

// resolveStaticValue is shared by CallVisitor and VariableVisitor for the
// "string literal / identifier / folded string concatenation" extraction
// rule.
func resolveStaticValue(n *ast.Node) *value.Value {
	if n == nil {
		return nil
	}
	switch n.Kind {
	case ast.KindString:
		return value.String(n.Str)
	case ast.KindIdentifier:
		return value.Identifier(n.Name)
	case ast.KindBinOp:
		if n.BinOp != ast.OpAdd {
			return nil
		}
		lhs, lok := stringOperand(n.Lhs)
		rhs, rok := stringOperand(n.Rhs)
		if !lok || !rok {
			return nil
		}
		return value.String(lhs + rhs)
	default:
		return nil
	}
}

// stringOperand resolves a BinOp(Add) operand to a string, the same way the
// extraction rule does for each side.
func stringOperand(n *ast.Node) (string, bool) {
	v := resolveStaticValue(n)
	return v.AsString()
}
