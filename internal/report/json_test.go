package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/source"
)

func buildAnalysis(t *testing.T, s *source.Source) *evaluate.SourceAnalysis {
	t.Helper()
	sa := &evaluate.SourceAnalysis{
		Density: density.NewFields(s.LineCount(), 1, 1, 1, 1),
		Bulletins: []evaluate.Bulletin{
			{Location: ast.Location{Row: 1, Column: 1}, Reason: evaluate.ReasonSuspiciousImport, Message: "socket"},
		},
	}
	sa.Density.Observe(density.ChannelImports, 1, 1.0, 1.0)
	return sa
}

func TestNewDocumentGroupsBulletinsAndHotspotsByPath(t *testing.T) {
	s, err := source.Build("sample.py", "import socket\n")
	require.NoError(t, err)
	sa := buildAnalysis(t, s)
	view := Build(s, sa)

	doc := NewDocument(map[string]FileView{s.Path: view}, []string{"requests"})
	assert.NotEmpty(t, doc.RunID)
	require.Contains(t, doc.Bulletins, s.Path)
	require.Contains(t, doc.Hotspots, s.Path)
	assert.Len(t, doc.Bulletins[s.Path], 1)
	assert.Equal(t, []string{"requests"}, doc.Metadata.Dependencies)
}

func TestWithFieldsAttachesPerChannelCurvesForOneFile(t *testing.T) {
	s, err := source.Build("sample.py", "import socket\n")
	require.NoError(t, err)
	sa := buildAnalysis(t, s)
	view := Build(s, sa)

	doc := NewDocument(map[string]FileView{s.Path: view}, nil).WithFields(s, sa)
	require.Contains(t, doc.FieldsByPath, s.Path)
	curves := doc.FieldsByPath[s.Path]
	assert.Equal(t, sa.Density.Len(), len(curves.X))
	assert.Equal(t, len(curves.X), len(curves.Combined))
}

func TestMarshalIndentProducesValidJSON(t *testing.T) {
	s, err := source.Build("sample.py", "import socket\n")
	require.NoError(t, err)
	sa := buildAnalysis(t, s)
	view := Build(s, sa)

	doc := NewDocument(map[string]FileView{s.Path: view}, nil)
	data, err := doc.MarshalIndent()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Contains(t, decoded, "run_id")
	assert.Contains(t, decoded, "bulletins")
}
