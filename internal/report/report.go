// Package report groups an evaluated source's bulletins by hotspot and
// renders either annotated text or JSON. Each rendered run is tagged with a
// google/uuid run identifier so separate invocations can be told apart in
// downstream tooling.
package report

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/source"
)

// Group pairs a hotspot with the bulletins it makes visible.
type Group struct {
	Hotspot   density.Hotspot
	Bulletins []evaluate.Bulletin
}

// FileView is the rendering-ready result for one file: its visible bulletin
// groups in hotspot scan order.
type FileView struct {
	Path   string
	Groups []Group
}

// Visible reports whether bulletin b should be shown for hotspot h under
// showAll/globalThreshold, per the two-stage visibility rule: show_all
// bypasses everything; otherwise b must fall inside h's line range and h's
// peak must clear both the bulletin's own threshold and the run's global
// threshold.
func Visible(b evaluate.Bulletin, h density.Hotspot, showAll bool, globalThreshold float64) bool {
	if showAll {
		return true
	}
	return h.Contains(b.Location.Row) && h.Peak >= b.Threshold && h.Peak >= globalThreshold
}

// Build computes hotspots from sa's combined density field and groups every
// visible bulletin under the hotspot that makes it visible. Hotspots with no
// visible bulletins are dropped.
func Build(s *source.Source, sa *evaluate.SourceAnalysis) FileView {
	hotspots := sa.Density.Hotspots(density.HotspotThreshold)

	view := FileView{Path: s.Path}
	for _, h := range hotspots {
		var bulletins []evaluate.Bulletin
		for _, b := range sa.Bulletins {
			if Visible(b, h, sa.ShowAll, sa.GlobalThreshold) {
				bulletins = append(bulletins, b)
			}
		}
		if len(bulletins) == 0 {
			continue
		}
		view.Groups = append(view.Groups, Group{Hotspot: h, Bulletins: bulletins})
	}
	return view
}

// RunID mints a fresh run identifier for a report invocation.
func RunID() string {
	return uuid.New().String()
}

// Empty reports whether v has no visible findings at all.
func (v FileView) Empty() bool { return len(v.Groups) == 0 }

// TotalBulletins counts every visible bulletin across all of v's groups.
func (v FileView) TotalBulletins() int {
	n := 0
	for _, g := range v.Groups {
		n += len(g.Bulletins)
	}
	return n
}

// Describe renders a one-line human summary of v's visible findings.
func (v FileView) Describe() string {
	if v.Empty() {
		return fmt.Sprintf("%s: clean", v.Path)
	}
	return fmt.Sprintf("%s: %d finding(s) across %d hotspot(s)", v.Path, v.TotalBulletins(), len(v.Groups))
}
