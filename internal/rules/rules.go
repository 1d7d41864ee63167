// Package rules implements the static rule catalog: named sets of
// suspicious module/function signatures, each tagged with a broad
// functionality category and grouped under a set-level alert threshold.
// Catalogs are authored in TOML (pelletier/go-toml/v2).
package rules

import (
	"embed"
	"fmt"

	"github.com/pelletier/go-toml/v2"
)

// Functionality groups rules by the broad capability they flag.
type Functionality string

const (
	Encryption  Functionality = "encryption"
	Encoding    Functionality = "encoding"
	Compression Functionality = "compression"
	FileSystem  Functionality = "filesystem"
	Network     Functionality = "network"
	Process     Functionality = "process"
	System      Functionality = "system"
	NotSpecific Functionality = "not_specific"
)

// Kind distinguishes a module-level rule from a function-level rule.
type Kind int

const (
	KindModule Kind = iota
	KindFunction
)

// Rule is one catalog entry. A module rule matches against imported module
// names; a function rule matches against the last attribute of a call's
// resolved identifier.
type Rule struct {
	Kind          Kind          `toml:"-"`
	Pattern       string        `toml:"pattern"`
	Functionality Functionality `toml:"functionality"`
	Description   string        `toml:"description"`
}

// rawRule mirrors the TOML shape before Kind is attached by the section it
// was parsed from.
type rawRule struct {
	Pattern       string        `toml:"pattern"`
	Functionality Functionality `toml:"functionality"`
	Description   string        `toml:"description"`
}

// RuleSet groups rules under a name and carries the threshold every bulletin
// raised by one of its rules is stamped with, for later comparison against a
// hotspot's peak density.
type RuleSet struct {
	Name      string
	Threshold float64
	Modules   []Rule
	Functions []Rule
}

// rawRuleSet is the on-disk TOML shape of one [[set]] table.
type rawRuleSet struct {
	Name      string    `toml:"name"`
	Threshold float64   `toml:"threshold"`
	Modules   []rawRule `toml:"modules"`
	Functions []rawRule `toml:"functions"`
}

type rawCatalog struct {
	Set []rawRuleSet `toml:"set"`
}

// Catalog is the fully loaded rule catalog.
type Catalog struct {
	Sets []RuleSet
}

// ModuleRules returns every module-kind rule across all sets, paired with
// the owning set, for the evaluator's per-import scan.
func (c *Catalog) ModuleRules() []SetRule {
	return c.filter(func(s *RuleSet) []Rule { return s.Modules })
}

// FunctionRules returns every function-kind rule across all sets, paired
// with the owning set, for the evaluator's per-call scan.
func (c *Catalog) FunctionRules() []SetRule {
	return c.filter(func(s *RuleSet) []Rule { return s.Functions })
}

// SetRule pairs a rule with the set it belongs to, so the evaluator can
// attribute a match back to its set's threshold.
type SetRule struct {
	Set  *RuleSet
	Rule Rule
}

func (c *Catalog) filter(pick func(*RuleSet) []Rule) []SetRule {
	var out []SetRule
	for i := range c.Sets {
		for _, r := range pick(&c.Sets[i]) {
			out = append(out, SetRule{Set: &c.Sets[i], Rule: r})
		}
	}
	return out
}

// Parse decodes a TOML rule catalog document.
func Parse(data []byte) (*Catalog, error) {
	var raw rawCatalog
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("rules: parse catalog: %w", err)
	}

	cat := &Catalog{Sets: make([]RuleSet, len(raw.Set))}
	for i, rs := range raw.Set {
		set := RuleSet{Name: rs.Name, Threshold: rs.Threshold}
		for _, m := range rs.Modules {
			set.Modules = append(set.Modules, Rule{Kind: KindModule, Pattern: m.Pattern, Functionality: m.Functionality, Description: m.Description})
		}
		for _, f := range rs.Functions {
			set.Functions = append(set.Functions, Rule{Kind: KindFunction, Pattern: f.Pattern, Functionality: f.Functionality, Description: f.Description})
		}
		cat.Sets[i] = set
	}
	return cat, nil
}

//go:embed default_catalog.toml
var defaultCatalogFS embed.FS

// DefaultCatalog loads the catalog shipped with the binary, used when the
// operator does not pass --rules.
func DefaultCatalog() (*Catalog, error) {
	data, err := defaultCatalogFS.ReadFile("default_catalog.toml")
	if err != nil {
		return nil, fmt.Errorf("rules: read embedded default catalog: %w", err)
	}
	return Parse(data)
}
