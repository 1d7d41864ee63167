// Package evaluate implements the rule-driven scan: canary detection,
// dynamic-import flagging, and rule-catalog matching against a Source's
// extracted imports and calls, producing Bulletins that the density fields
// and hotspot scan (internal/density) later filter for display.
package evaluate

import (
	"fmt"

	"github.com/Syntox32/scout/internal/ast"
)

// ReasonKind tags why a Bulletin was raised.
type ReasonKind int

const (
	ReasonSuspiciousImport ReasonKind = iota
	ReasonSuspiciousFunction
	ReasonImportInsideFunction
	ReasonDynamicImport
	ReasonCanary
)

func (r ReasonKind) String() string {
	switch r {
	case ReasonSuspiciousImport:
		return "suspicious import"
	case ReasonSuspiciousFunction:
		return "suspicious function call"
	case ReasonImportInsideFunction:
		return "import performed inside a function body"
	case ReasonDynamicImport:
		return "dynamically resolved import"
	case ReasonCanary:
		return "planted sentinel string observed"
	default:
		return "unknown"
	}
}

// Bulletin is one flagged finding.
type Bulletin struct {
	Reason    ReasonKind
	Message   string
	Location  ast.Location
	SetName   string // owning RuleSet name, empty for canary/dynamic-import bulletins
	Threshold float64
}

// Describe renders a human-readable one-line summary, matching the terse
// register the original bulletin reason strings used.
func (b Bulletin) Describe() string {
	switch b.Reason {
	case ReasonSuspiciousImport:
		return fmt.Sprintf("suspicious import: %s", b.Message)
	case ReasonSuspiciousFunction:
		return fmt.Sprintf("suspicious function call: %s", b.Message)
	case ReasonImportInsideFunction:
		return fmt.Sprintf("import inside function body: %s", b.Message)
	case ReasonDynamicImport:
		return fmt.Sprintf("dynamic import: %s", b.Message)
	case ReasonCanary:
		return b.Message
	default:
		return b.Message
	}
}
