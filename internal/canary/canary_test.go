package canary

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
canaries:
  - prefix: "sentinel-"
    identifier: "planted test token"
    transform: "none"
`

func TestMatchFindsPlainPrefix(t *testing.T) {
	cat, err := Parse([]byte(sample))
	require.NoError(t, err)

	got, ok := cat.Match("sentinel-abc123")
	assert.True(t, ok)
	assert.Equal(t, "planted test token", got.Identifier)
}

func TestMatchRejectsNonPrefixedString(t *testing.T) {
	cat, err := Parse([]byte(sample))
	require.NoError(t, err)

	_, ok := cat.Match("not-a-match")
	assert.False(t, ok)
}

func TestMatchAppliesBase64TransformBeforeComparing(t *testing.T) {
	cat := &Catalog{Canaries: []Canary{{Prefix: "sentinel-", Identifier: "wrapped", Transform: TransformBase64}}}
	encoded := base64.StdEncoding.EncodeToString([]byte("sentinel-xyz"))

	got, ok := cat.Match(encoded)
	assert.True(t, ok)
	assert.Equal(t, "wrapped", got.Identifier)
}

func TestDefaultCatalogParsesAndIsNonEmpty(t *testing.T) {
	cat, err := DefaultCatalog()
	require.NoError(t, err)
	assert.NotEmpty(t, cat.Canaries)
}
