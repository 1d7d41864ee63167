package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syntox32/scout/internal/ast"
	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/source"
)

func TestWriteTextReportsCleanForAnEmptyView(t *testing.T) {
	s, err := source.Build("sample.py", "import os\n")
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteText(&buf, s, FileView{Path: s.Path}, false)
	assert.Equal(t, "sample.py: clean\n", buf.String())
}

func TestWriteTextRendersTheFlaggedLineAndACaret(t *testing.T) {
	s, err := source.Build("sample.py", "import socket\n")
	require.NoError(t, err)

	sa := &evaluate.SourceAnalysis{
		Density: density.NewFields(s.LineCount(), 1, 1, 1, 1),
		Bulletins: []evaluate.Bulletin{
			{Location: ast.Location{Row: 1, Column: 1}, Reason: evaluate.ReasonSuspiciousImport, Message: "socket"},
		},
	}
	sa.Density.Observe(density.ChannelImports, 1, 1.0, 1.0)

	view := Build(s, sa)
	var buf bytes.Buffer
	WriteText(&buf, s, view, false)

	out := buf.String()
	assert.True(t, strings.Contains(out, "import socket"))
	assert.True(t, strings.Contains(out, "^"))
	assert.True(t, strings.Contains(out, "suspicious import"))
}

func TestWriteTextOmitsAnsiCodesWhenColorIsDisabled(t *testing.T) {
	s, err := source.Build("sample.py", "import socket\n")
	require.NoError(t, err)

	sa := &evaluate.SourceAnalysis{
		Density: density.NewFields(s.LineCount(), 1, 1, 1, 1),
		Bulletins: []evaluate.Bulletin{
			{Location: ast.Location{Row: 1, Column: 1}, Reason: evaluate.ReasonSuspiciousImport, Message: "socket"},
		},
	}
	sa.Density.Observe(density.ChannelImports, 1, 1.0, 1.0)

	view := Build(s, sa)
	var buf bytes.Buffer
	WriteText(&buf, s, view, false)

	assert.False(t, strings.Contains(buf.String(), "\033["))
}
