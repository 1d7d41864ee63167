// Package source implements Source, the per-file container: a path, its
// raw text, and the extraction records and derived statistics the rest of
// the pipeline reads. A Source is immutable once resolution has run:
// resolution happens once, after which a Source's records never change.
package source

import (
	"strings"

	"github.com/Syntox32/scout/internal/extract"
	"github.com/Syntox32/scout/internal/record"
)

// Source is one analyzed file.
type Source struct {
	Path string
	Text string

	lines []string

	imports      []record.Import
	importCounts map[string]int
	calls        []record.Call
	callCounts   map[string]int
	variables    []record.Variable

	// Per-term TF-IDF weight, populated by the package driver once the
	// whole corpus has been read. Nil before that pass runs.
	importTFIDF map[string]float64
	callTFIDF   map[string]float64

	resolved bool
}

// New builds a Source from raw text. Call Resolve before reading any
// extraction fields.
func New(path, text string) *Source {
	return &Source{
		Path:  path,
		Text:  text,
		lines: splitLines(text),
	}
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// LineCount returns the number of lines in the source text.
func (s *Source) LineCount() int { return len(s.lines) }

// Line returns the 1-based line n, or "" if out of range.
func (s *Source) Line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// LinesBetween returns lines [from, to] inclusive, 1-based and clamped to
// the file's bounds, used to render a hotspot's code excerpt.
func (s *Source) LinesBetween(from, to int) []string {
	if from < 1 {
		from = 1
	}
	if to > len(s.lines) {
		to = len(s.lines)
	}
	if from > to {
		return nil
	}
	return s.lines[from-1 : to]
}

// Resolve runs the three extraction visitors' already-collected output
// through cross-resolution and freezes the result onto s. It is the
// caller's job (Build, or a test) to have walked the tree with
// each visitor first.
func (s *Source) Resolve(imp *extract.ImportVisitor, call *extract.CallVisitor, vars *extract.VariableVisitor) {
	result := extract.Resolve(imp, call, vars)
	s.imports = result.Imports
	s.importCounts = result.ImportCounts
	s.calls = result.Calls
	s.callCounts = result.CallCounts
	s.variables = result.Bindings
	s.resolved = true
}

// Resolved reports whether Resolve has run.
func (s *Source) Resolved() bool { return s.resolved }

// Imports returns the cross-resolved import records.
func (s *Source) Imports() []record.Import { return s.imports }

// Calls returns the cross-resolved call records.
func (s *Source) Calls() []record.Call { return s.calls }

// Variables returns the top-level constant-like bindings the VariableVisitor
// collected, each with the location of its defining assignment.
func (s *Source) Variables() []record.Variable { return s.variables }

// ImportCount returns how many times module appears across all imports,
// including discovered dynamic imports.
func (s *Source) ImportCount(module string) int { return s.importCounts[module] }

// CallCount returns how many times the dotted identifier ident was called.
func (s *Source) CallCount(ident string) int { return s.callCounts[ident] }

// ImportModuleSet returns the distinct set of imported module names.
func (s *Source) ImportModuleSet() map[string]bool {
	out := make(map[string]bool, len(s.imports))
	for _, imp := range s.imports {
		out[imp.Module] = true
	}
	return out
}

// CallIdentifierSet returns the distinct set of fully-resolved call
// identifiers, the term vocabulary internal/driver's TF-IDF pass counts
// document frequency over.
func (s *Source) CallIdentifierSet() map[string]bool {
	out := make(map[string]bool, len(s.calls))
	for _, c := range s.calls {
		out[c.FullIdentifier] = true
	}
	return out
}

// SetImportTFIDF installs the corpus-wide import-term weights.
func (s *Source) SetImportTFIDF(weights map[string]float64) { s.importTFIDF = weights }

// SetCallTFIDF installs the corpus-wide call-term weights.
func (s *Source) SetCallTFIDF(weights map[string]float64) { s.callTFIDF = weights }

// ImportWeight returns the TF-IDF weight for module, or 1.0 if the driver
// has not computed corpus weights yet: unweighted is a multiplier of 1, a
// no-op on the density formula.
func (s *Source) ImportWeight(module string) float64 {
	if s.importTFIDF == nil {
		return 1.0
	}
	if w, ok := s.importTFIDF[module]; ok {
		return w
	}
	return 1.0
}

// CallWeight returns the TF-IDF weight for a call identifier, or 1.0 absent
// corpus weights.
func (s *Source) CallWeight(ident string) float64 {
	if s.callTFIDF == nil {
		return 1.0
	}
	if w, ok := s.callTFIDF[ident]; ok {
		return w
	}
	return 1.0
}
