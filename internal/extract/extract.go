// # internal/extract/extract.go
package extract

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"polyscan/internal/fact"
	"polyscan/internal/shared/observability"
)

// Facts accumulates everything one extractor recognizes in a single file.
// Imports and definitions each mirror into the Functions reporting view as
// they are added, so the two views never need a second pass to agree.
type Facts struct {
	Definitions []fact.Definition
	Imports     []fact.Import
	Functions   []fact.Function
}

func (f *Facts) AddDefinition(d fact.Definition) {
	f.Definitions = append(f.Definitions, d)
	f.Functions = append(f.Functions, fact.Function{
		Name:      d.Name,
		Kind:      fact.FunctionDefined,
		Language:  d.Language,
		File:      d.File,
		Line:      d.Line,
		Signature: d.Signature,
	})
}

func (f *Facts) AddImport(language string, imp fact.Import) {
	f.Imports = append(f.Imports, imp)

	// The reporting fact carries the alias when one was declared.
	name := imp.Name
	if imp.Alias != "" {
		name = imp.Alias
	}
	f.Functions = append(f.Functions, fact.Function{
		Name:         name,
		Kind:         fact.FunctionImported,
		Language:     language,
		File:         imp.File,
		Line:         imp.Line,
		Module:       imp.Module,
		OriginalName: imp.Name,
	})
}

func (f *Facts) Empty() bool {
	return len(f.Definitions) == 0 && len(f.Imports) == 0
}

// Extractor is one per-language fact recognizer. Extract appends into fx and
// may bail out mid-file; whatever was gathered up to that point stands.
type Extractor interface {
	Language() string
	Extensions() []string
	CanHandle(path string) bool
	Extract(path, content string, fx *Facts)
}

// Registry holds the extractors in a fixed priority order. The first
// extractor whose CanHandle matches a path owns that path.
type Registry struct {
	extractors []Extractor
}

func NewRegistry() *Registry {
	return &Registry{
		extractors: []Extractor{
			NewPythonExtractor(),
			NewJavaScriptExtractor(),
			NewJavaExtractor(),
			NewCFamilyExtractor(),
			NewGoExtractor(),
		},
	}
}

func (r *Registry) ForPath(path string) Extractor {
	for _, e := range r.extractors {
		if e.CanHandle(path) {
			return e
		}
	}
	return nil
}

// Supports reports whether any extractor handles the path's extension.
func (r *Registry) Supports(path string) bool {
	return r.ForPath(path) != nil
}

// Extensions returns every extension claimed by a registered extractor.
func (r *Registry) Extensions() map[string]bool {
	exts := make(map[string]bool)
	for _, e := range r.extractors {
		for _, ext := range e.Extensions() {
			exts[ext] = true
		}
	}
	return exts
}

// Extract runs the matching extractor over one file's content. A path no
// extractor handles is a silent no-op. A panicking extractor is contained
// here: the facts it gathered before failing are kept, and the failure comes
// back as an error so the caller can record it against the file.
func (r *Registry) Extract(path, content string) (fx Facts, err error) {
	e := r.ForPath(path)
	if e == nil {
		return fx, nil
	}

	start := time.Now()
	defer func() {
		observability.ExtractionDuration.WithLabelValues(e.Language()).Observe(time.Since(start).Seconds())
		if rec := recover(); rec != nil {
			slog.Debug("extractor recovered", "path", path, "language", e.Language(), "panic", rec)
			err = fmt.Errorf("%s extractor failure: %v", e.Language(), rec)
		}
	}()

	e.Extract(path, content, &fx)
	return fx, nil
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, candidate := range exts {
		if ext == candidate {
			return true
		}
	}
	return false
}

func splitLines(content string) []string {
	return strings.Split(content, "\n")
}
