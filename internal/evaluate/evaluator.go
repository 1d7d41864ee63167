package evaluate

import (
	"fmt"

	"github.com/Syntox32/scout/internal/canary"
	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/record"
	"github.com/Syntox32/scout/internal/rules"
	"github.com/Syntox32/scout/internal/source"
)

// Thresholds for the two bulletin kinds that are fixed at a constant rather
// than derived from the rule catalog.
const (
	dynamicImportThreshold     = 0.2
	importInsideFunctionThresh = 0.3
)

// Weights bundles the configuration knobs the evaluator needs beyond the
// rule and canary catalogs: the four density channel weights and the two
// per-signal TF-IDF weights.
type Weights struct {
	FWFunctions, FWImports, FWBehavior, FWStrings float64
	TWFunctions, TWImports                        float64
}

// DefaultWeights returns the weight set used when no configuration
// overrides it: every channel and signal weighted evenly at 1.0.
func DefaultWeights() Weights {
	return Weights{FWFunctions: 1, FWImports: 1, FWBehavior: 1, FWStrings: 1, TWFunctions: 1, TWImports: 1}
}

// Evaluator runs the ordered scan against a Source: canary strings first,
// then dynamic imports, then the rule catalog's module and function rules.
type Evaluator struct {
	Rules   *rules.Catalog
	Canary  *canary.Catalog // nil disables canary detection
	Weights Weights
}

// New builds an Evaluator bound to a rule catalog and an optional canary
// catalog, using DefaultWeights.
func New(ruleCatalog *rules.Catalog, canaryCatalog *canary.Catalog) *Evaluator {
	return &Evaluator{Rules: ruleCatalog, Canary: canaryCatalog, Weights: DefaultWeights()}
}

// Evaluate runs the full pipeline over s and returns its SourceAnalysis,
// including the four-channel density field each bulletin fed on emission.
func (e *Evaluator) Evaluate(s *source.Source) *SourceAnalysis {
	sa := &SourceAnalysis{
		Path:    s.Path,
		Density: density.NewFields(s.LineCount(), e.Weights.FWFunctions, e.Weights.FWImports, e.Weights.FWBehavior, e.Weights.FWStrings),
	}

	if e.Canary != nil {
		sa.Bulletins = append(sa.Bulletins, e.scanCanaries(s, sa.Density)...)
	}

	sa.Bulletins = append(sa.Bulletins, e.scanDynamicImports(s, sa.Density)...)

	moduleBulletins, importAlerts := e.scanModuleRules(s, sa.Density)
	sa.Bulletins = append(sa.Bulletins, moduleBulletins...)
	sa.AlertsImports = importAlerts

	functionBulletins, functionAlerts := e.scanFunctionRules(s, sa.Density)
	sa.Bulletins = append(sa.Bulletins, functionBulletins...)
	sa.AlertsFunctions = functionAlerts

	return sa
}

// scanCanaries checks every string-valued top-level variable binding against
// the canary catalog, feeding a (1.0, 1.0) bump to the Strings channel at
// each match's defining location.
func (e *Evaluator) scanCanaries(s *source.Source, fields *density.Fields) []Bulletin {
	var out []Bulletin

	for _, v := range s.Variables() {
		str, ok := v.Value.AsString()
		if !ok {
			continue
		}
		can, matched := e.Canary.Match(str)
		if !matched {
			continue
		}
		out = append(out, Bulletin{
			Reason:   ReasonCanary,
			Message:  fmt.Sprintf("detected %q using transform %q", can.Identifier, can.Transform),
			Location: v.Location,
		})
		fields.Observe(density.ChannelStrings, float64(v.Location.Row), 1.0, 1.0)
	}

	return out
}

// scanDynamicImports flags every import record the cross-resolution pass
// marked as dynamically discovered, feeding the Behavior channel.
func (e *Evaluator) scanDynamicImports(s *source.Source, fields *density.Fields) []Bulletin {
	var out []Bulletin
	for _, imp := range s.Imports() {
		if !imp.IsDynamic {
			continue
		}
		out = append(out, Bulletin{
			Reason:    ReasonDynamicImport,
			Message:   imp.Module,
			Location:  imp.Location,
			Threshold: dynamicImportThreshold,
		})
		fields.Observe(density.ChannelBehavior, float64(imp.Location.Row), 1.0, e.Weights.TWImports)
	}
	return out
}

// scanModuleRules matches every module-kind rule in the catalog against the
// Source's imported modules. Every match emits its own bulletin immediately,
// carrying the owning RuleSet's threshold; there is no match-count gate.
func (e *Evaluator) scanModuleRules(s *source.Source, fields *density.Fields) ([]Bulletin, int) {
	if e.Rules == nil {
		return nil, 0
	}

	var out []Bulletin
	alerts := 0
	for _, sr := range e.Rules.ModuleRules() {
		for _, imp := range s.Imports() {
			if imp.Module != sr.Rule.Pattern {
				continue
			}
			out = append(out, Bulletin{
				Reason:    ReasonSuspiciousImport,
				Message:   fmt.Sprintf("%s (%s, set %q)", imp.Module, sr.Rule.Functionality, sr.Set.Name),
				Location:  imp.Location,
				SetName:   sr.Set.Name,
				Threshold: sr.Set.Threshold,
			})
			alerts++
			fields.Observe(density.ChannelImports, float64(imp.Location.Row), s.ImportWeight(imp.Module), e.Weights.TWImports)

			if imp.Context == record.ContextFunction {
				out = append(out, Bulletin{
					Reason:    ReasonImportInsideFunction,
					Message:   imp.Module,
					Location:  imp.Location,
					Threshold: importInsideFunctionThresh,
				})
				fields.Observe(density.ChannelImports, float64(imp.Location.Row), 1.0, e.Weights.TWImports)
			}
		}
	}
	return out, alerts
}

// scanFunctionRules matches every function-kind rule against the Source's
// resolved calls by last attribute, feeding the Functions channel.
func (e *Evaluator) scanFunctionRules(s *source.Source, fields *density.Fields) ([]Bulletin, int) {
	if e.Rules == nil {
		return nil, 0
	}

	var out []Bulletin
	alerts := 0
	for _, sr := range e.Rules.FunctionRules() {
		for _, c := range s.Calls() {
			if c.LastAttribute() != sr.Rule.Pattern {
				continue
			}
			out = append(out, Bulletin{
				Reason:    ReasonSuspiciousFunction,
				Message:   fmt.Sprintf("%s (%s, set %q)", c.FullIdentifier, sr.Rule.Functionality, sr.Set.Name),
				Location:  c.Location,
				SetName:   sr.Set.Name,
				Threshold: sr.Set.Threshold,
			})
			alerts++
			fields.Observe(density.ChannelFunctions, float64(c.Location.Row), s.CallWeight(c.FullIdentifier), e.Weights.TWFunctions)
		}
	}
	return out, alerts
}

// SourceAnalysis is the full result of evaluating one Source.
type SourceAnalysis struct {
	Path            string
	Bulletins       []Bulletin
	Density         *density.Fields
	AlertsFunctions int
	AlertsImports   int
	ShowAll         bool
	GlobalThreshold float64
}

// FoundAnything reports whether this file is worth a human's attention.
//
// The function-and-import condition below is combined with a logical AND,
// which only ever differs from requiring just one of the two counts when
// neither ever produced a bulletin in the first place; in every case where
// AlertsFunctions or AlertsImports is actually nonzero, Bulletins is already
// nonempty too, so the trailing OR clause dominates and the AND's stricter
// reading almost never changes the outcome. Left as originally written.
func (sa *SourceAnalysis) FoundAnything() bool {
	return (sa.AlertsFunctions > 0 && sa.AlertsImports > 0) || len(sa.Bulletins) > 0
}
