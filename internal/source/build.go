package source

import (
	"fmt"

	"github.com/Syntox32/scout/internal/extract"
	"github.com/Syntox32/scout/internal/pyparse"
	"github.com/Syntox32/scout/internal/walk"
)

// Build parses text with pyparse, walks the three extraction visitors over
// the resulting tree, and returns an already-resolved Source. It is the one
// entry point internal/driver uses to turn a file's raw bytes into a
// Source; tests that want to construct a Source from hand-built visitor
// output can still call New and Resolve directly.
func Build(path, text string) (*Source, error) {
	root, parsedText, err := pyparse.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("source: parse %s: %w", path, err)
	}

	imp := extract.NewImportVisitor()
	call := extract.NewCallVisitor()
	vars := extract.NewVariableVisitor()

	walk.New(imp).Walk(root)
	walk.New(call).Walk(root)
	walk.New(vars).Walk(root)

	s := New(path, parsedText)
	s.Resolve(imp, call, vars)
	return s, nil
}
