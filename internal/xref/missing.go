// # internal/xref/missing.go
package xref

import (
	"fmt"

	"polyscan/internal/fact"
)

// missingDefinitions flags imports that resolve to no known definition.
// Well-known module roots are exempt outright. For the rest, an import is
// satisfied by a definition with the imported name anywhere, or by the file
// its module resolves to: a plain module import is satisfied by the resolved
// file itself, a from-style import needs the named symbol defined in it.
func (e *Engine) missingDefinitions() []fact.Issue {
	var issues []fact.Issue

	for _, file := range e.files {
		for _, imp := range e.importsByFile[file] {
			if imp.Name == "" || imp.Name == "*" {
				continue
			}
			if IsWellKnown(imp.Module) {
				continue
			}
			if len(e.defsByName[imp.Name]) > 0 {
				continue
			}

			if target, ok := e.resolveModule(imp.Module); ok {
				if !imp.FromStyle {
					continue
				}
				if e.fileHasDef(target, imp.Name) {
					continue
				}
			}

			style := "import"
			if imp.FromStyle {
				style = "from-import"
			}
			issues = append(issues, fact.Issue{
				Kind:        fact.MissingDefinition,
				Severity:    fact.SeverityCritical,
				Description: fmt.Sprintf("imported name %q from module %q has no known definition", imp.Name, imp.Module),
				File:        imp.File,
				Line:        imp.Line,
				Details: map[string]string{
					"name":   imp.Name,
					"module": imp.Module,
					"style":  style,
				},
			})
		}
	}

	return issues
}
