package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/evaluate"
)

func TestSaveThenLookupRoundTripsBulletins(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	hash := Hash([]byte("import os\n"))
	sa := &evaluate.SourceAnalysis{
		Path: "sample.py",
		Bulletins: []evaluate.Bulletin{
			{Reason: evaluate.ReasonSuspiciousImport, Message: "os", Location: ast.Location{Row: 1}, SetName: "system", Threshold: 0.1},
		},
		AlertsImports: 1,
	}

	require.NoError(t, store.Save(hash, sa))

	entry, ok := store.Lookup(hash)
	require.True(t, ok)
	assert.Equal(t, hash, entry.ContentHash)
	assert.Equal(t, 1, entry.AlertsImp)
	require.Len(t, entry.Bulletins, 1)
	assert.Equal(t, "os", entry.Bulletins[0].Message)
}

func TestLookupMissesOnUnknownHash(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	_, ok := store.Lookup(Hash([]byte("never saved")))
	assert.False(t, ok)
}

func TestHashDiffersForDifferentContent(t *testing.T) {
	a := Hash([]byte("import os\n"))
	b := Hash([]byte("import sys\n"))
	assert.NotEqual(t, a, b)
}

func TestOpenCreatesMissingDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/cache"
	_, err := Open(dir)
	require.NoError(t, err)
}
