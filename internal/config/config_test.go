package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultWeightsAreAllEven(t *testing.T) {
	cfg := Default()
	w := cfg.Weights()

	assert.Equal(t, 1.0, w.FWFunctions)
	assert.Equal(t, 1.0, w.FWImports)
	assert.Equal(t, 1.0, w.FWBehavior)
	assert.Equal(t, 1.0, w.FWStrings)
	assert.Equal(t, 1.0, w.TWFunctions)
	assert.Equal(t, 1.0, w.TWImports)
	assert.True(t, cfg.UseCache)
	assert.True(t, cfg.FeatureTFIDFCalls)
}

func TestLoadFileOverlaysOnlyTheKeysItSets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scout.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"fw_imports": 2.5,
		"use_cache": false
	}`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, 2.5, cfg.FWImports)
	assert.False(t, cfg.UseCache)
	assert.Equal(t, 1.0, cfg.FWFunctions, "unset keys should keep their default")
}

func TestLoadFileReturnsConfigLoadErrorOnMissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
}

func TestLoadJSONStripsLineAndBlockComments(t *testing.T) {
	raw := `{
		// TF-IDF feature toggles
		"feature_tfidf_calls": false,
		/* channel weights below */
		"fw_strings": 3.0
	}`

	cfg, err := LoadJSON(raw)
	require.NoError(t, err)
	assert.False(t, cfg.FeatureTFIDFCalls)
	assert.Equal(t, 3.0, cfg.FWStrings)
}

func TestLoadJSONRejectsUnknownFields(t *testing.T) {
	_, err := LoadJSON(`{"fw_functions": 1.0, "not_a_real_field": true}`)
	require.Error(t, err)
}

func TestLoadJSONRejectsMalformedDocument(t *testing.T) {
	_, err := LoadJSON(`{"fw_functions": `)
	require.Error(t, err)
}

func TestStripCommentsPreservesURLLikeStringContent(t *testing.T) {
	out := stripComments(`{"a": "http://example.com"}`)
	assert.Contains(t, out, `"http://example.com"`)
}
