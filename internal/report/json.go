package report

import (
	"encoding/json"

	"github.com/Syntox32/scout/internal/density"
	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/source"
)

// Document is the top-level JSON shape: visible bulletins and hotspots
// grouped by file path, plus the run's identity and any pass-through
// dependency metadata.
type Document struct {
	RunID        string                           `json:"run_id"`
	Bulletins    map[string][]evaluate.Bulletin   `json:"bulletins"`
	Hotspots     map[string][]density.Hotspot     `json:"hotspots"`
	Metadata     Metadata                         `json:"metadata"`
	FieldsByPath map[string]FieldCurves           `json:"fields,omitempty"`
}

// Metadata carries driver-level facts that do not belong to any one file.
type Metadata struct {
	Dependencies []string `json:"dependencies,omitempty"`
}

// FieldCurves is the extended --fields form: per-channel density samples
// plus the combined curve. Single-file only: a package-wide scan would make
// this prohibitively large.
type FieldCurves struct {
	X          []float64 `json:"x"`
	Functions  []float64 `json:"functions"`
	Imports    []float64 `json:"imports"`
	Behavior   []float64 `json:"behavior"`
	Strings    []float64 `json:"strings"`
	Combined   []float64 `json:"combined"`
}

// NewDocument builds a Document from every evaluated file's visible view.
func NewDocument(views map[string]FileView, dependencies []string) Document {
	doc := Document{
		RunID:     RunID(),
		Bulletins: make(map[string][]evaluate.Bulletin, len(views)),
		Hotspots:  make(map[string][]density.Hotspot, len(views)),
		Metadata:  Metadata{Dependencies: dependencies},
	}
	for path, v := range views {
		var bulletins []evaluate.Bulletin
		var hotspots []density.Hotspot
		for _, g := range v.Groups {
			hotspots = append(hotspots, g.Hotspot)
			bulletins = append(bulletins, g.Bulletins...)
		}
		doc.Bulletins[path] = bulletins
		doc.Hotspots[path] = hotspots
	}
	return doc
}

// WithFields attaches the extended per-channel density curves for a single
// file, the only case --fields is accepted in.
func (doc Document) WithFields(s *source.Source, sa *evaluate.SourceAnalysis) Document {
	curves := FieldCurves{}
	for i := 0; i < sa.Density.Len(); i++ {
		x := sa.Density.XAt(i)
		curves.X = append(curves.X, x)
		curves.Functions = append(curves.Functions, sa.Density.Channel(density.ChannelFunctions).ValueAt(i))
		curves.Imports = append(curves.Imports, sa.Density.Channel(density.ChannelImports).ValueAt(i))
		curves.Behavior = append(curves.Behavior, sa.Density.Channel(density.ChannelBehavior).ValueAt(i))
		curves.Strings = append(curves.Strings, sa.Density.Channel(density.ChannelStrings).ValueAt(i))
		curves.Combined = append(curves.Combined, sa.Density.Combined(i))
	}
	doc.FieldsByPath = map[string]FieldCurves{s.Path: curves}
	return doc
}

// MarshalIndent produces the report's JSON output, indented for readability.
func (doc Document) MarshalIndent() ([]byte, error) {
	return json.MarshalIndent(doc, "", "  ")
}
