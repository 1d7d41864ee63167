package driver

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Syntox32/scout/internal/cache"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/rules"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func ruleCatalogForSocket() *rules.Catalog {
	return &rules.Catalog{Sets: []rules.RuleSet{
		{Name: "network", Threshold: 0.05, Modules: []rules.Rule{{Kind: rules.KindModule, Pattern: "socket", Functionality: rules.Network}}},
	}}
}

func TestScanFileEvaluatesASingleSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "import socket\n")

	d := New(ruleCatalogForSocket(), nil, evaluate.DefaultWeights())
	result, err := d.ScanFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Analysis.AlertsImports)
}

func TestScanFileRejectsBinaryContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bin.py")
	require.NoError(t, os.WriteFile(path, []byte("import os\x00\x01\x02"), 0o644))

	d := New(&rules.Catalog{}, nil, evaluate.DefaultWeights())
	_, err := d.ScanFile(path)
	require.Error(t, err)
}

func TestScanPackageFindsEveryPythonFileRecursively(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import os\n")
	writeFile(t, dir, "pkg/b.py", "import socket\n")
	writeFile(t, dir, "notes.txt", "not python\n")

	d := New(ruleCatalogForSocket(), nil, evaluate.DefaultWeights())
	report, err := d.ScanPackage(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
}

func TestScanPackageComputesCorpusWideImportTFIDF(t *testing.T) {
	dir := t.TempDir()
	// json appears in every file: its TF-IDF weight should collapse to ~0.
	writeFile(t, dir, "a.py", "import json\n")
	writeFile(t, dir, "b.py", "import json\n")
	writeFile(t, dir, "c.py", "import json\nimport socket\n")

	d := New(ruleCatalogForSocket(), nil, evaluate.DefaultWeights())
	report, err := d.ScanPackage(context.Background(), dir)
	require.NoError(t, err)

	for _, f := range report.Files {
		if w := f.Source.ImportWeight("json"); w > 1e-9 {
			t.Fatalf("expected json's TF-IDF weight to collapse to ~0 across a corpus where it's ubiquitous, got %v", w)
		}
	}
}

func TestScanPackageSkipsUnparseableFilesAsWarnings(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import os\n")
	// Five independently broken constructs exhausts recovery and forces rejection.
	writeFile(t, dir, "broken.py", "def f(:\nclass C(:\nx = )\ny = ]\nz = }\n")

	d := New(&rules.Catalog{}, nil, evaluate.DefaultWeights())
	report, err := d.ScanPackage(context.Background(), dir)
	require.NoError(t, err)
	assert.Len(t, report.Files, 1)
	assert.NotEmpty(t, report.Warnings)
}

func TestEvaluateOneUsesCacheOnSecondCall(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.py", "import socket\n")

	store, err := cache.Open(filepath.Join(dir, "cache"))
	require.NoError(t, err)

	d := New(ruleCatalogForSocket(), nil, evaluate.DefaultWeights())
	d.Cache = store
	d.UseCache = true

	first, err := d.ScanFile(path)
	require.NoError(t, err)
	analysis := d.evaluateOne(first.Source)
	assert.Equal(t, 1, analysis.AlertsImports)

	// Second call against the same content should hit the cache and still
	// report the same alert count, reconstructed from the stored bulletins.
	second := d.evaluateOne(first.Source)
	assert.Equal(t, analysis.AlertsImports, second.AlertsImports)
	assert.Equal(t, len(analysis.Bulletins), len(second.Bulletins))
}

func TestReportFilesAreSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "z.py", "import os\n")
	writeFile(t, dir, "a.py", "import os\n")

	d := New(&rules.Catalog{}, nil, evaluate.DefaultWeights())
	report, err := d.ScanPackage(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, report.Files, 2)
	assert.Less(t, report.Files[0].Source.Path, report.Files[1].Source.Path)
}
