// Package config loads the engine's tunable weights from a JSON-with-
// comments document, merged through spf13/viper so the same decode path
// handles both a file on disk and an inline --config-json string. A small
// pre-pass strips // and /* */ comments before the document reaches viper,
// since no JSONC-aware library appears anywhere in this repo's dependency
// pack; see DESIGN.md for why that one step is hand-rolled rather than
// pulled from a library.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/viper"

	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/scouterrors"
)

// Config mirrors the JSON schema in scout's configuration document.
type Config struct {
	UseCache  bool `mapstructure:"use_cache"`
	SaveCache bool `mapstructure:"save_cache"`

	FWFunctions float64 `mapstructure:"fw_functions"`
	FWImports   float64 `mapstructure:"fw_imports"`
	FWBehavior  float64 `mapstructure:"fw_behavior"`
	FWStrings   float64 `mapstructure:"fw_strings"`

	TWFunctions float64 `mapstructure:"tw_functions"`
	TWImports   float64 `mapstructure:"tw_imports"`

	FeatureTFIDFCalls   bool `mapstructure:"feature_tfidf_calls"`
	FeatureTFIDFImports bool `mapstructure:"feature_tfidf_imports"`
}

// Default returns the configuration used when no --config/--config-json is
// given: every channel and signal weighted evenly, caching and TF-IDF on.
func Default() Config {
	return Config{
		UseCache: true, SaveCache: true,
		FWFunctions: 1, FWImports: 1, FWBehavior: 1, FWStrings: 1,
		TWFunctions: 1, TWImports: 1,
		FeatureTFIDFCalls: true, FeatureTFIDFImports: true,
	}
}

// Weights projects Config onto the subset the evaluator needs.
func (c Config) Weights() evaluate.Weights {
	return evaluate.Weights{
		FWFunctions: c.FWFunctions, FWImports: c.FWImports,
		FWBehavior: c.FWBehavior, FWStrings: c.FWStrings,
		TWFunctions: c.TWFunctions, TWImports: c.TWImports,
	}
}

// schema is the jsonschema-go document --config-json is validated against
// before decode, catching field-name typos as a fatal ConfigLoadError
// instead of silently ignoring them.
var schema = &jsonschema.Schema{
	Type: "object",
	Properties: map[string]*jsonschema.Schema{
		"use_cache":             {Type: "boolean"},
		"save_cache":            {Type: "boolean"},
		"fw_functions":          {Type: "number"},
		"fw_imports":            {Type: "number"},
		"fw_behavior":           {Type: "number"},
		"fw_strings":            {Type: "number"},
		"tw_functions":          {Type: "number"},
		"tw_imports":            {Type: "number"},
		"feature_tfidf_calls":   {Type: "boolean"},
		"feature_tfidf_imports": {Type: "boolean"},
	},
	AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
}

// LoadFile decodes a config document from disk, comment-stripped like
// LoadJSON's input, starting from Default and overlaying whatever keys the
// document sets. Unlike LoadJSON it does not validate against the schema.
func LoadFile(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, scouterrors.NewConfigLoadError(path, err)
	}
	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewBufferString(stripComments(string(raw)))); err != nil {
		return Config{}, scouterrors.NewConfigLoadError(path, err)
	}
	return decode(v, path)
}

// LoadJSON decodes an inline --config-json document, comment-stripped and
// schema-validated before being handed to viper.
func LoadJSON(raw string) (Config, error) {
	stripped := stripComments(raw)

	v := viper.New()
	v.SetConfigType("json")
	if err := v.ReadConfig(bytes.NewBufferString(stripped)); err != nil {
		return Config{}, scouterrors.NewConfigLoadError("--config-json", err)
	}
	decoded := v.AllSettings()

	res, err := schema.Resolve(nil)
	if err != nil {
		return Config{}, scouterrors.NewConfigLoadError("--config-json", fmt.Errorf("resolve config schema: %w", err))
	}
	if err := res.Validate(decoded); err != nil {
		return Config{}, scouterrors.NewConfigLoadError("--config-json", fmt.Errorf("schema validation: %w", err))
	}

	return decode(v, "--config-json")
}

func decode(v *viper.Viper, source string) (Config, error) {
	cfg := Default()
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, scouterrors.NewConfigLoadError(source, fmt.Errorf("decode: %w", err))
	}
	return cfg, nil
}

// stripComments removes // line comments and /* */ block comments from a
// JSONC document, tracking JSON string-literal state so a "//" or "/*"
// inside a quoted value is left untouched.
func stripComments(raw string) string {
	var out bytes.Buffer
	inBlock, inString, escaped := false, false, false
	runes := []rune(raw)
	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if inString {
			out.WriteRune(r)
			switch {
			case escaped:
				escaped = false
			case r == '\\':
				escaped = true
			case r == '"':
				inString = false
			}
			continue
		}

		if inBlock {
			if r == '*' && i+1 < len(runes) && runes[i+1] == '/' {
				inBlock = false
				i++
			}
			continue
		}

		if r == '"' {
			inString = true
			out.WriteRune(r)
			continue
		}
		if r == '/' && i+1 < len(runes) && runes[i+1] == '/' {
			for i < len(runes) && runes[i] != '\n' {
				i++
			}
			if i < len(runes) {
				out.WriteRune('\n')
			}
			continue
		}
		if r == '/' && i+1 < len(runes) && runes[i+1] == '*' {
			inBlock = true
			i++
			continue
		}
		out.WriteRune(r)
	}
	return out.String()
}
