// Package driver implements the package-level orchestration: enumerating
// source files under a tree, building a Source per file, computing
// corpus-wide TF-IDF tables, and running the evaluator over every file.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/Syntox32/scout/internal/cache"
	"github.com/Syntox32/scout/internal/canary"
	"github.com/Syntox32/scout/internal/debug"
	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/rules"
	"github.com/Syntox32/scout/internal/scouterrors"
	"github.com/Syntox32/scout/internal/source"
)

const component = "driver"

// extensionGlob is the source-file pattern enumerated under a package root.
// The parser collaborator is fixed to one scripting language (internal/pyparse),
// so the driver never needs a configurable extension list.
const extensionGlob = "**/*.py"

// maxParallelReads bounds the number of file-read goroutines in flight,
// a semaphore-gated fan-out without pulling in a dedicated semaphore
// package for a single bounded counter.
const maxParallelReads = 32

// FileResult pairs one file's built Source with its evaluation.
type FileResult struct {
	Source   *source.Source
	Analysis *evaluate.SourceAnalysis
}

// Report is the outcome of a package-wide scan: every evaluated file plus
// warnings for anything skipped along the way.
type Report struct {
	Files        []FileResult
	Warnings     []string
	Dependencies []string
}

// Driver bundles the catalogs and tunables a scan run needs.
type Driver struct {
	Rules    *rules.Catalog
	Canary   *canary.Catalog // nil disables canary detection
	Weights  evaluate.Weights
	Cache    *cache.Store // nil disables the on-disk cache
	UseCache bool

	// FeatureTFIDFImports/FeatureTFIDFCalls gate whether the corpus-wide
	// TF-IDF pass runs at all; when disabled every weight stays at the
	// neutral 1.0 default ImportWeight/CallWeight already falls back to.
	FeatureTFIDFImports bool
	FeatureTFIDFCalls   bool

	// Dependencies is an optional pre-extracted list of declared package
	// names, threaded straight into the report's metadata. The driver never
	// reads a manifest file itself.
	Dependencies []string
}

// New builds a Driver from loaded catalogs and evaluator weights.
func New(ruleCatalog *rules.Catalog, canaryCatalog *canary.Catalog, weights evaluate.Weights) *Driver {
	return &Driver{
		Rules:               ruleCatalog,
		Canary:              canaryCatalog,
		Weights:             weights,
		FeatureTFIDFImports: true,
		FeatureTFIDFCalls:   true,
	}
}

// ScanFile evaluates exactly one file, with no corpus to compute TF-IDF
// weights over (every lookup stays at the neutral default of 1.0).
func (d *Driver) ScanFile(path string) (FileResult, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return FileResult{}, scouterrors.NewIOError(path, err)
	}
	if looksBinary(content) {
		return FileResult{}, scouterrors.NewIOError(path, fmt.Errorf("refusing to analyze binary content"))
	}

	s, err := source.Build(path, string(content))
	if err != nil {
		return FileResult{}, scouterrors.NewParseError(path, err)
	}

	ev := evaluate.New(d.Rules, d.Canary)
	ev.Weights = d.Weights
	analysis := ev.Evaluate(s)

	return FileResult{Source: s, Analysis: analysis}, nil
}

// evaluateOne runs the full evaluator, consulting the on-disk cache first
// when enabled. A cache hit skips rule matching and canary/dynamic-import
// scanning entirely and replays its stored bulletins onto a freshly sized
// Fields (each bulletin contributing a flat (1.0, 1.0) observation on its
// channel); this approximates but does not reproduce the exact TF-IDF-
// weighted density a live evaluation would have produced, since only the
// bulletins themselves are persisted, not the raw per-event weights that
// fed them. See DESIGN.md for why that approximation is an acceptable
// trade for this cache's scope.
func (d *Driver) evaluateOne(s *source.Source) *evaluate.SourceAnalysis {
	if d.UseCache && d.Cache != nil {
		hash := cache.Hash([]byte(s.Text))
		if entry, ok := d.Cache.Lookup(hash); ok {
			debug.Log(component, "cache hit for %s", s.Path)
			return replayFromCache(s, entry, d.Weights)
		}
	}

	ev := evaluate.New(d.Rules, d.Canary)
	ev.Weights = d.Weights
	analysis := ev.Evaluate(s)

	if d.UseCache && d.Cache != nil {
		hash := cache.Hash([]byte(s.Text))
		if err := d.Cache.Save(hash, analysis); err != nil {
			debug.Log(component, "failed to save cache entry for %s: %v", s.Path, err)
		}
	}

	return analysis
}

// replayFromCache rebuilds a SourceAnalysis from a cached entry without
// re-running rule matching.
func replayFromCache(s *source.Source, entry cache.Entry, weights evaluate.Weights) *evaluate.SourceAnalysis {
	fields := density.NewFields(s.LineCount(), weights.FWFunctions, weights.FWImports, weights.FWBehavior, weights.FWStrings)
	for _, b := range entry.Bulletins {
		fields.Observe(channelFor(b.Reason), float64(b.Location.Row), 1.0, 1.0)
	}
	return &evaluate.SourceAnalysis{
		Path:            s.Path,
		Bulletins:       entry.Bulletins,
		Density:         fields,
		AlertsFunctions: entry.AlertsFunc,
		AlertsImports:   entry.AlertsImp,
	}
}

func channelFor(reason evaluate.ReasonKind) density.Channel {
	switch reason {
	case evaluate.ReasonSuspiciousFunction:
		return density.ChannelFunctions
	case evaluate.ReasonSuspiciousImport, evaluate.ReasonImportInsideFunction:
		return density.ChannelImports
	case evaluate.ReasonDynamicImport:
		return density.ChannelBehavior
	default:
		return density.ChannelStrings
	}
}

// ScanPackage enumerates every source file under root, builds a Source for
// each, computes corpus TF-IDF tables, and evaluates the lot. Unparseable
// or unreadable files are recorded as warnings and excluded, never fatal.
func (d *Driver) ScanPackage(ctx context.Context, root string) (*Report, error) {
	paths, err := enumerate(root)
	if err != nil {
		return nil, err
	}

	built, warnings := d.buildAll(ctx, paths)

	if d.FeatureTFIDFImports || d.FeatureTFIDFCalls {
		applyTFIDF(built, d.FeatureTFIDFImports, d.FeatureTFIDFCalls)
	}

	report := &Report{Warnings: warnings, Dependencies: d.Dependencies}
	for _, s := range built {
		report.Files = append(report.Files, FileResult{Source: s, Analysis: d.evaluateOne(s)})
	}

	sort.Slice(report.Files, func(i, j int) bool { return report.Files[i].Source.Path < report.Files[j].Source.Path })
	return report, nil
}

// enumerate walks root for every file matching extensionGlob. Symlinks are
// not followed; a single breadth-first-irrelevant traversal is enough.
func enumerate(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		matched, matchErr := doublestar.Match(extensionGlob, filepath.ToSlash(rel))
		if matchErr != nil {
			return matchErr
		}
		if matched {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, scouterrors.NewIOError(root, err)
	}
	return out, nil
}

// buildAll reads and parses every path concurrently, bounded by
// maxParallelReads in-flight goroutines. A parse failure (after recovery)
// produces a warning instead of aborting the run.
func (d *Driver) buildAll(ctx context.Context, paths []string) ([]*source.Source, []string) {
	var (
		mu       sync.Mutex
		built    []*source.Source
		warnings []string
	)

	sem := make(chan struct{}, maxParallelReads)
	g, gctx := errgroup.WithContext(ctx)

	for _, p := range paths {
		p := p
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			s, warn := d.buildOne(p)
			mu.Lock()
			defer mu.Unlock()
			if warn != "" {
				warnings = append(warnings, warn)
				return nil
			}
			built = append(built, s)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		debug.Log(component, "package scan aborted: %v", err)
	}

	return built, warnings
}

func (d *Driver) buildOne(path string) (*source.Source, string) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, scouterrors.NewIOError(path, err).Error()
	}
	if looksBinary(content) {
		return nil, fmt.Sprintf("warning: skipping %s: looks like binary content", path)
	}

	s, err := source.Build(path, string(content))
	if err != nil {
		return nil, scouterrors.NewParseError(path, err).Error()
	}
	return s, ""
}

// looksBinary applies a cheap NUL-byte heuristic over the first few KB,
// the same signal most line-oriented source scanners use to reject
// non-text input without a full content-type sniff.
func looksBinary(content []byte) bool {
	probe := content
	if len(probe) > 8192 {
		probe = probe[:8192]
	}
	return bytes.IndexByte(probe, 0) != -1
}

// applyTFIDF computes corpus-wide import/call TF-IDF tables over built and
// installs them on every Source, using a plain ln(N/df) IDF formula.
func applyTFIDF(built []*source.Source, imports, calls bool) {
	if len(built) == 0 {
		return
	}

	if imports {
		weights := tfidfTable(built, func(s *source.Source) map[string]int {
			counts := make(map[string]int)
			for _, imp := range s.Imports() {
				counts[imp.Module]++
			}
			return counts
		})
		for i, s := range built {
			s.SetImportTFIDF(weights[i])
		}
	}

	if calls {
		weights := tfidfTable(built, func(s *source.Source) map[string]int {
			counts := make(map[string]int)
			for _, c := range s.Calls() {
				counts[c.FullIdentifier]++
			}
			return counts
		})
		for i, s := range built {
			s.SetCallTFIDF(weights[i])
		}
	}
}

// tfidfTable computes per-source TF-IDF weights for the term vocabulary
// countsOf extracts from each Source, returned in the same order as built.
// N is len(built); df(k) is the number of sources with a nonzero count for
// k; idf(k) = ln(N/df(k)).
func tfidfTable(built []*source.Source, countsOf func(*source.Source) map[string]int) []map[string]float64 {
	n := len(built)
	perSource := make([]map[string]int, n)
	df := make(map[string]int)

	for i, s := range built {
		counts := countsOf(s)
		perSource[i] = counts
		for k := range counts {
			df[k]++
		}
	}

	idf := make(map[string]float64, len(df))
	for k, d := range df {
		idf[k] = math.Log(float64(n) / float64(d))
	}

	out := make([]map[string]float64, n)
	for i, counts := range perSource {
		total := 0
		for _, c := range counts {
			total += c
		}
		weights := make(map[string]float64, len(counts))
		for k, c := range counts {
			tf := float64(c) / float64(total)
			weights[k] = tf * idf[k]
		}
		out[i] = weights
	}
	return out
}
