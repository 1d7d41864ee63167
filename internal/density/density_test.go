package density

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGaussianMatchesStandardNormalPDF(t *testing.T) {
	got := Gaussian(11, 10, 1)
	assert.InDelta(t, 0.24197072451914337, got, 1e-12)
}

func TestGaussianPeaksAtMean(t *testing.T) {
	atMean := Gaussian(10, 10, Variance)
	offMean := Gaussian(15, 10, Variance)
	assert.Greater(t, atMean, offMean)
}

func TestFieldAddIsZeroFarFromLine(t *testing.T) {
	f := NewField(100, 1.0)
	f.Add(50, 1.0, 1.0)

	// A sample far from line 50 should be near zero relative to the peak.
	farIdx := int(5.0 / Resolution)
	nearIdx := int(50.0 / Resolution)
	assert.Greater(t, f.ValueAt(nearIdx), f.ValueAt(farIdx))
}

func TestFieldAddRescalesTheWholeRunningTotalOnEveryCall(t *testing.T) {
	// Two Add calls at different lines with a sub-1.0 multiplier: the
	// second call's dampening factor shrinks the first call's contribution
	// too, not just its own new bump.
	f := NewField(20, 1.0)
	f.Add(5, 0.5, 1.0)
	afterFirst := append([]float64(nil), f.samples...)
	f.Add(15, 0.5, 1.0)

	idx := int(5.0 / Resolution)
	naiveStack := afterFirst[idx] + Gaussian(5, 15, Variance)
	assert.Less(t, f.ValueAt(idx), naiveStack)
}

func TestCombinedAppliesEachChannelMultiplierTwice(t *testing.T) {
	fs := NewFields(20, 2.0, 1.0, 1.0, 1.0)
	fs.Observe(ChannelFunctions, 10, 1.0, 1.0)

	idx := int(10.0 / Resolution)
	raw := fs.Channel(ChannelFunctions).ValueAt(idx)
	combined := fs.Combined(idx)

	// The channel's own Add already scaled its Gaussian term by the channel
	// weight once (baked into the field); Combined scales the running total
	// by it again, so combined should equal raw*multiplier, not raw.
	assert.InDelta(t, raw*2.0, combined, 1e-9)
}

func TestHotspotsSkipsRunsBelowThreshold(t *testing.T) {
	fs := NewFields(50, 1.0, 1.0, 1.0, 1.0)
	// A near-zero multiplier (e.g. a commonly-imported module's near-zero
	// TF-IDF weight) drives the dampening factor close to zero, crushing
	// the whole running total below threshold.
	fs.Observe(ChannelImports, 25, 0.001, 1.0)

	spots := fs.Hotspots(HotspotThreshold)
	assert.Empty(t, spots)
}

func TestHotspotsEndXRecordsTheExitSampleNotTheLastInRunSample(t *testing.T) {
	fs := NewFields(50, 1.0, 1.0, 1.0, 1.0)
	fs.Observe(ChannelImports, 25, 1.0, 5.0)

	threshold := HotspotThreshold
	lastAbove := -1
	for i := 0; i < fs.Len(); i++ {
		if fs.Combined(i) > threshold {
			lastAbove = i
		}
	}
	if lastAbove < 0 || lastAbove+1 >= fs.Len() {
		t.Fatal("expected a run that exits before the field ends")
	}
	exitIdx := lastAbove + 1
	if fs.Combined(exitIdx) > threshold {
		t.Fatal("expected the sample right after the run to have fallen at or below threshold")
	}
	wantLineHigh := int(math.Round(fs.XAt(exitIdx)))

	spots := fs.Hotspots(threshold)
	assert.NotEmpty(t, spots)

	found := false
	for _, spot := range spots {
		if spot.LineHigh == wantLineHigh {
			found = true
		}
	}
	assert.True(t, found, "expected a hotspot whose LineHigh (%d) is the exit sample's line, not the last in-run sample's, got %+v", wantLineHigh, spots)
}

func TestHotspotsFindsPeakAroundObservedLine(t *testing.T) {
	fs := NewFields(50, 1.0, 1.0, 1.0, 1.0)
	fs.Observe(ChannelImports, 25, 1.0, 5.0)

	spots := fs.Hotspots(HotspotThreshold)
	assert.NotEmpty(t, spots)

	found := false
	for _, h := range spots {
		if h.Contains(25) {
			found = true
		}
	}
	assert.True(t, found)
}
