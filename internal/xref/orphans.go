// # internal/xref/orphans.go
package xref

import (
	"fmt"
	"strings"

	"polyscan/internal/fact"
)

// orphanedDefinitions flags definitions whose name never appears as an
// imported name or alias anywhere in the scanned set. Entry points and
// protocol-mandated names are exempt per language.
func (e *Engine) orphanedDefinitions() []fact.Issue {
	imported := make(map[string]bool)
	for _, imports := range e.importsByFile {
		for _, imp := range imports {
			imported[imp.Name] = true
			if imp.Alias != "" {
				imported[imp.Alias] = true
			}
			// A dotted module import also makes its last segment reachable.
			if idx := strings.LastIndex(imp.Name, "."); idx != -1 {
				imported[imp.Name[idx+1:]] = true
			}
		}
	}

	var issues []fact.Issue
	for _, file := range e.files {
		for _, def := range e.defsByFile[file] {
			if imported[def.Name] {
				continue
			}
			if IsOrphanExempt(def.Language, def.Name) {
				continue
			}
			issues = append(issues, fact.Issue{
				Kind:        fact.OrphanedFunction,
				Severity:    fact.SeverityWarning,
				Description: fmt.Sprintf("%q is defined but never imported anywhere", def.Name),
				File:        def.File,
				Line:        def.Line,
				Details: map[string]string{
					"name":     def.Name,
					"language": def.Language,
				},
			})
		}
	}

	return issues
}
