package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/Syntox32/scout/internal/evaluate"
	"github.com/Syntox32/scout/internal/source"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorDim    = "\033[2m"
	colorBold   = "\033[1m"
)

// WriteText renders v's visible groups as annotated source excerpts:
// context lines dimmed, the flagged line highlighted, and a caret-prefixed
// reason printed under it at the bulletin's column. Non-adjacent groups are
// separated by a standalone "...". color is false when --no-color is set
// or stdout is not a terminal.
func WriteText(w io.Writer, s *source.Source, v FileView, color bool) {
	if v.Empty() {
		fmt.Fprintf(w, "%s: clean\n", v.Path)
		return
	}

	fmt.Fprintf(w, "%s%s%s\n", paint(color, colorBold), v.Path, paint(color, colorReset))

	for i, g := range v.Groups {
		if i > 0 && g.Hotspot.LineLow > v.Groups[i-1].Hotspot.LineHigh+1 {
			fmt.Fprintln(w, "...")
		}
		writeGroup(w, s, g, color)
	}
}

func writeGroup(w io.Writer, s *source.Source, g Group, color bool) {
	flagged := make(map[int][]evaluate.Bulletin, 4)
	for _, b := range g.Bulletins {
		flagged[b.Location.Row] = append(flagged[b.Location.Row], b)
	}

	lines := s.LinesBetween(g.Hotspot.LineLow, g.Hotspot.LineHigh)
	for offset, text := range lines {
		row := g.Hotspot.LineLow + offset
		if hits, ok := flagged[row]; ok {
			fmt.Fprintf(w, "%s%4d | %s%s\n", paint(color, colorYellow), row, text, paint(color, colorReset))
			for _, b := range hits {
				caret := strings.Repeat(" ", b.Location.Column) + "^"
				fmt.Fprintf(w, "%s      %s %s%s\n", paint(color, colorRed), caret, b.Describe(), paint(color, colorReset))
			}
			continue
		}
		fmt.Fprintf(w, "%s%4d | %s%s\n", paint(color, colorDim), row, text, paint(color, colorReset))
	}
}

func paint(enabled bool, code string) string {
	if !enabled {
		return ""
	}
	return code
}
