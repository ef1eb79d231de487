// # internal/xref/engine.go
package xref

import (
	"sort"
	"time"

	"polyscan/internal/fact"
	"polyscan/internal/shared/observability"
)

// Engine holds the lookup indices for one cross-reference pass. Indices are
// built fresh per scan invocation; nothing here outlives or is shared
// between scans, so concurrent scans cannot interfere.
type Engine struct {
	files []string

	defsByName    map[string][]fact.Definition
	defsByFile    map[string][]fact.Definition
	importsByFile map[string][]fact.Import

	// moduleIndex maps an inferred module identity to the file believed to
	// define it. Registration order is the sorted file list, so the first
	// claim on a contested identity is stable across runs.
	moduleIndex map[string]string
}

// New builds the indices over the aggregated fact collections. The caller
// must have finished all extraction before calling this; the engine never
// observes a partial fact set.
func New(files []string, defs []fact.Definition, imports []fact.Import) *Engine {
	e := &Engine{
		files:         append([]string(nil), files...),
		defsByName:    make(map[string][]fact.Definition),
		defsByFile:    make(map[string][]fact.Definition),
		importsByFile: make(map[string][]fact.Import),
		moduleIndex:   make(map[string]string),
	}
	sort.Strings(e.files)

	for _, d := range defs {
		e.defsByName[d.Name] = append(e.defsByName[d.Name], d)
		e.defsByFile[d.File] = append(e.defsByFile[d.File], d)
	}
	for _, imp := range imports {
		e.importsByFile[imp.File] = append(e.importsByFile[imp.File], imp)
	}

	for _, file := range e.files {
		identity := ModuleIdentity(file)
		if identity == "" {
			continue
		}
		if _, taken := e.moduleIndex[identity]; !taken {
			e.moduleIndex[identity] = file
		}
	}

	return e
}

// Run executes the three analyses and tallies the statistics once at the
// end. Single-threaded by design; the indices are never mutated after New.
func (e *Engine) Run() ([]fact.Issue, []fact.Cycle, fact.Stats) {
	start := time.Now()
	defer func() {
		observability.AnalysisDuration.Observe(time.Since(start).Seconds())
	}()

	var issues []fact.Issue
	issues = append(issues, e.missingDefinitions()...)
	issues = append(issues, e.orphanedDefinitions()...)

	cycles := e.detectCycles()
	for _, c := range cycles {
		issues = append(issues, fact.Issue{
			Kind:        fact.CircularImport,
			Severity:    fact.SeverityWarning,
			Description: c.Description,
			File:        c.Path[0],
		})
	}

	return issues, cycles, fact.ComputeStats(issues, cycles)
}

// resolveModule tries every variant spelling of a raw import string against
// the module-identity index. First hit wins.
func (e *Engine) resolveModule(raw string) (string, bool) {
	for _, candidate := range Variants(raw) {
		if file, ok := e.moduleIndex[candidate]; ok {
			return file, true
		}
	}
	return "", false
}

func (e *Engine) fileHasDef(file, name string) bool {
	for _, d := range e.defsByFile[file] {
		if d.Name == name {
			return true
		}
	}
	return false
}
