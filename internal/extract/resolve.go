package extract

import (
	"strings"

	"github.com/Syntox32/scout/internal/record"
	"github.com/Syntox32/scout/internal/value"
)

// Result bundles the output of a full extraction pass over one source file:
// the three raw visitor outputs, already cross-resolved. Cross-resolution
// is a pure, stateless post-pass over already produced records; no
// back-pointers are introduced between them.
type Result struct {
	Imports      []record.Import
	ImportCounts map[string]int
	Calls        []record.Call
	CallCounts   map[string]int
	Variables    map[string]*value.Value
	Bindings     []record.Variable // one entry per bound name, with its defining location
}

// Resolve takes the output of an extraction pass's three visitors, which
// the caller has already walked over the tree, and applies the
// cross-resolution steps in order: alias rewrite, one-hop variable
// substitution, dynamic-import discovery.
func Resolve(imp *ImportVisitor, call *CallVisitor, vars *VariableVisitor) Result {
	calls := append([]record.Call(nil), call.Entries()...)
	rewriteAliases(calls, imp.Aliases())
	substituteVariables(calls, vars.Variables())

	imports := append([]record.Import(nil), imp.Imports()...)
	imports = discoverDynamicImports(imports, calls)

	importCounts := make(map[string]int, len(imp.Counts()))
	for k, v := range imp.Counts() {
		importCounts[k] = v
	}
	for _, added := range imports[len(imp.Imports()):] {
		importCounts[added.Module]++
	}

	return Result{
		Imports:      imports,
		ImportCounts: importCounts,
		Calls:        calls,
		CallCounts:   call.Counts(),
		Variables:    vars.Variables(),
		Bindings:     bindings(vars),
	}
}

// bindings flattens a VariableVisitor's name->Value and name->Location maps
// into a slice the canary scan can iterate without caring about map order.
func bindings(vars *VariableVisitor) []record.Variable {
	values := vars.Variables()
	locs := vars.Locations()
	out := make([]record.Variable, 0, len(values))
	for name, v := range values {
		out = append(out, record.Variable{Name: name, Value: v, Location: locs[name]})
	}
	return out
}

// rewriteAliases replaces the leading segment of every call's
// FullIdentifier with its import-resolved target, when the base segment is
// a known alias. `import numpy as np; np.array(...)` becomes `numpy.array`.
func rewriteAliases(calls []record.Call, aliases map[string]string) {
	for i := range calls {
		base := calls[i].BaseIdentifier()
		target, ok := aliases[base]
		if !ok {
			continue
		}
		rest := calls[i].FullIdentifier[len(base):]
		calls[i].FullIdentifier = target + rest
	}
}

// substituteVariables resolves identifier-valued call arguments one hop
// through the known variable bindings. An argument that is itself an
// unresolved identifier is replaced by the bound Value if one exists; no
// further chasing is done beyond that single hop.
func substituteVariables(calls []record.Call, variables map[string]*value.Value) {
	for i := range calls {
		for j, arg := range calls[i].Args {
			calls[i].Args[j] = substituteOne(arg, variables)
		}
		for j, kw := range calls[i].Keywords {
			calls[i].Keywords[j].Value = substituteOne(kw.Value, variables)
		}
	}
}

func substituteOne(v *value.Value, variables map[string]*value.Value) *value.Value {
	name, ok := v.AsIdentifier()
	if !ok {
		return v
	}
	if bound, found := variables[name]; found {
		return bound
	}
	return v
}

// discoverDynamicImports scans the already alias/variable-resolved calls
// for reflective loader invocations (`__import__(...)`,
// `importlib.import_module(...)`) and synthesizes an Import entry for each
// statically-known module name argument. Entries honor the same
// (module, row, col) dedup invariant as static imports.
func discoverDynamicImports(imports []record.Import, calls []record.Call) []record.Import {
	seen := make(map[[3]any]bool, len(imports))
	for _, imp := range imports {
		seen[imp.Key()] = true
	}

	for _, c := range calls {
		if !record.DynamicImportTargets[c.FullIdentifier] {
			continue
		}
		if len(c.Args) == 0 {
			continue
		}
		module, ok := c.Args[0].AsString()
		if !ok {
			continue
		}
		module = strings.TrimSpace(module)
		if module == "" {
			continue
		}
		entry := record.Import{
			Module:    module,
			Location:  c.Location,
			Context:   record.ContextGlobal,
			IsDynamic: true,
		}
		if seen[entry.Key()] {
			continue
		}
		seen[entry.Key()] = true
		imports = append(imports, entry)
	}

	return imports
}
