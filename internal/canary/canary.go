// Package canary implements sentinel-string detection: a small catalog of
// known "canary" literal prefixes, each naming what planting it in a decoy
// credential or config file is meant to catch, and an optional transform to
// undo before comparing. Catalogs are authored in YAML.
package canary

import (
	"embed"
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Transform names a decoding step to apply to a candidate string before
// prefix-matching it against a canary.
type Transform string

const (
	TransformNone   Transform = "none"
	TransformBase64 Transform = "base64"
)

// Canary is one catalog entry: a literal prefix, the sentinel it identifies,
// and how to normalize a candidate string before comparing it.
type Canary struct {
	Prefix     string    `yaml:"prefix"`
	Identifier string    `yaml:"identifier"`
	Transform  Transform `yaml:"transform"`
}

// Catalog is the loaded set of canaries.
type Catalog struct {
	Canaries []Canary `yaml:"canaries"`
}

// Parse decodes a YAML canary catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("canary: parse catalog: %w", err)
	}
	for i := range cat.Canaries {
		if cat.Canaries[i].Transform == "" {
			cat.Canaries[i].Transform = TransformNone
		}
	}
	return &cat, nil
}

// Match reports the first canary whose prefix matches s once the canary's
// transform has been applied, if any.
func (c *Catalog) Match(s string) (Canary, bool) {
	for _, can := range c.Canaries {
		candidate, ok := apply(can.Transform, s)
		if !ok {
			continue
		}
		if strings.HasPrefix(candidate, can.Prefix) {
			return can, true
		}
	}
	return Canary{}, false
}

func apply(t Transform, s string) (string, bool) {
	switch t {
	case TransformBase64:
		decoded, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return "", false
		}
		return string(decoded), true
	default:
		return s, true
	}
}

//go:embed default_canaries.yaml
var defaultCatalogFS embed.FS

// DefaultCatalog loads the canary catalog shipped with the binary, used
// when the operator does not pass --canaries.
func DefaultCatalog() (*Catalog, error) {
	data, err := defaultCatalogFS.ReadFile("default_canaries.yaml")
	if err != nil {
		return nil, fmt.Errorf("canary: read embedded default catalog: %w", err)
	}
	return Parse(data)
}
