// Package density implements the line-indexed Gaussian kernel density
// fields the evaluator scans for hotspots. Four independent channels
// (Functions, Imports, Behavior, Strings) are tracked per Source;
// each observation smears a weighted Gaussian bump across nearby lines, and
// hotspot detection walks the combined field for local peaks above a
// threshold.
package density

import "math"

const (
	// Resolution is the spacing, in lines, between sample points along the
	// field's x axis.
	Resolution = 0.5
	// Variance is the Gaussian kernel's sigma^2 used by every channel.
	Variance = 5.0
	// HotspotThreshold is the minimum combined-field peak a region must
	// clear to be reported as a hotspot.
	HotspotThreshold = 0.01
)

// Channel names one of the four density channels.
type Channel int

const (
	ChannelFunctions Channel = iota
	ChannelImports
	ChannelBehavior
	ChannelStrings
	channelCount
)

// Gaussian evaluates the normal probability density function at x for mean
// mu and variance sigma2.
func Gaussian(x, mu, sigma2 float64) float64 {
	coeff := 1.0 / math.Sqrt(2*math.Pi*sigma2)
	exponent := -((x - mu) * (x - mu)) / (2 * sigma2)
	return coeff * math.Exp(exponent)
}

// dampen computes W(v, w) = 1 - (1-v)*w, the per-event rescaling factor
// applied to a field's entire running total on every Add call.
func dampen(v, w float64) float64 {
	return 1 - (1-v)*w
}

// Field is one channel's sampled density curve over a file's line range.
// fieldMultiplier is the channel's own configured weight (fw_functions,
// fw_imports, fw_behavior, or fw_strings), baked into every Gaussian term
// added to the field.
type Field struct {
	lineCount       int
	fieldMultiplier float64
	samples         []float64 // indexed by sample position, spaced Resolution apart
}

// NewField allocates a zeroed field spanning [0, lineCount] at Resolution
// spacing, weighted by fieldMultiplier.
func NewField(lineCount int, fieldMultiplier float64) *Field {
	n := int(float64(lineCount)/Resolution) + 1
	if n < 1 {
		n = 1
	}
	return &Field{lineCount: lineCount, fieldMultiplier: fieldMultiplier, samples: make([]float64, n)}
}

func (f *Field) xAt(i int) float64 { return float64(i) * Resolution }

// Add smears a Gaussian bump centered at line across every sample point.
// Every sample (not just the ones near line) is rewritten on each call:
// first the channel-weighted Gaussian term is added to the existing value,
// then the whole running total is rescaled by dampen(multiplier,
// tfidfWeight). Because that rescaling hits the entire field, not just the
// new bump, earlier contributions are compounded by every later Add call,
// so the order of observations changes the final totals.
func (f *Field) Add(line float64, multiplier, tfidfWeight float64) {
	w := dampen(multiplier, tfidfWeight)
	for i := range f.samples {
		x := f.xAt(i)
		f.samples[i] = (f.samples[i] + Gaussian(x, line, Variance)*f.fieldMultiplier) * w
	}
}

// ValueAt returns the field's sampled value at line index i (0-based,
// Resolution spacing), or 0 if out of range.
func (f *Field) ValueAt(i int) float64 {
	if i < 0 || i >= len(f.samples) {
		return 0
	}
	return f.samples[i]
}

// Len returns the number of sample points in the field.
func (f *Field) Len() int { return len(f.samples) }

// Fields bundles the four channels for one Source.
type Fields struct {
	lineCount int
	channels  [channelCount]*Field
	// multiplier is the per-channel weight, already baked into each
	// channel's own Add calls via Field.fieldMultiplier. Combined applies
	// it a second time when summing channels: the same value is applied
	// twice by design, once inside each channel's running update and once
	// more when channels are summed.
	multiplier [channelCount]float64
}

// NewFields allocates all four channels for a file of lineCount lines, with
// multipliers supplied by the caller (config keys fw_functions, fw_imports,
// fw_behavior, fw_strings).
func NewFields(lineCount int, fwFunctions, fwImports, fwBehavior, fwStrings float64) *Fields {
	fs := &Fields{lineCount: lineCount}
	fs.multiplier[ChannelFunctions] = fwFunctions
	fs.multiplier[ChannelImports] = fwImports
	fs.multiplier[ChannelBehavior] = fwBehavior
	fs.multiplier[ChannelStrings] = fwStrings
	for c := Channel(0); c < channelCount; c++ {
		fs.channels[c] = NewField(lineCount, fs.multiplier[c])
	}
	return fs
}

// Channel returns the requested channel's field for direct Add calls.
func (fs *Fields) Channel(c Channel) *Field { return fs.channels[c] }

// Observe adds a weighted bump to channel c at line, using the per-event
// (multiplier, tfidfWeight) pair the evaluator computes for this bulletin
// (e.g. an import's TF-IDF weight paired with tw_imports). The channel's
// own configured weight is applied separately, inside Add, via the
// channel's fieldMultiplier.
func (fs *Fields) Observe(c Channel, line float64, multiplier, tfidfWeight float64) {
	fs.channels[c].Add(line, multiplier, tfidfWeight)
}

// Combined sums every channel's sample at index i, each scaled again by its
// channel multiplier.
func (fs *Fields) Combined(i int) float64 {
	total := 0.0
	for c := Channel(0); c < channelCount; c++ {
		total += fs.channels[c].ValueAt(i) * fs.multiplier[c]
	}
	return total
}

// Len returns the number of sample points shared by all four channels.
func (fs *Fields) Len() int {
	if fs.channels[0] == nil {
		return 0
	}
	return fs.channels[0].Len()
}

// XAt returns the line-space x coordinate of sample index i.
func (fs *Fields) XAt(i int) float64 { return float64(i) * Resolution }
