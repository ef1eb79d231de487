// # internal/extract/golang.go
package extract

import (
	"regexp"
	"strings"

	"polyscan/internal/fact"
)

// GoExtractor matches func declarations (including methods) and both
// single-line and grouped import blocks. Grouped-import recognition is
// stateful: inside an "import (" block the single-line import pattern is
// suppressed until the closing paren.
type GoExtractor struct{}

func NewGoExtractor() *GoExtractor {
	return &GoExtractor{}
}

var (
	goFuncPattern          = regexp.MustCompile(`func\s+(?:\([^)]*\)\s+)?([a-zA-Z_][a-zA-Z0-9_]*)\s*\(`)
	goImportPattern        = regexp.MustCompile(`^\s*import\s+(?:([a-zA-Z_][a-zA-Z0-9_]*|\.)\s+)?"([^"]+)"`)
	goGroupedImportPattern = regexp.MustCompile(`^\s*(?:([a-zA-Z_][a-zA-Z0-9_]*|[._])\s+)?"([^"]+)"`)
)

func (e *GoExtractor) Language() string { return "go" }

func (e *GoExtractor) Extensions() []string { return []string{".go"} }

func (e *GoExtractor) CanHandle(path string) bool {
	return hasExtension(path, e.Extensions())
}

func (e *GoExtractor) Extract(path, content string, fx *Facts) {
	inImportBlock := false

	for i, line := range splitLines(content) {
		lineNum := i + 1

		if m := goFuncPattern.FindStringSubmatch(line); m != nil {
			fx.AddDefinition(fact.Definition{
				Name:      m[1],
				File:      path,
				Line:      lineNum,
				Language:  e.Language(),
				Signature: strings.TrimSpace(line),
			})
		}

		if strings.Contains(line, "import (") {
			inImportBlock = true
			continue
		}
		if inImportBlock {
			if strings.Contains(line, ")") {
				inImportBlock = false
				continue
			}
			if m := goGroupedImportPattern.FindStringSubmatch(line); m != nil {
				e.addImport(path, lineNum, m[1], m[2], fx)
			}
			continue
		}

		if m := goImportPattern.FindStringSubmatch(line); m != nil {
			e.addImport(path, lineNum, m[1], m[2], fx)
		}
	}
}

func (e *GoExtractor) addImport(path string, line int, alias, importPath string, fx *Facts) {
	segments := strings.Split(importPath, "/")
	name := segments[len(segments)-1]

	// Blank and dot imports carry no usable alias.
	if alias == "_" || alias == "." {
		alias = ""
	}

	fx.AddImport(e.Language(), fact.Import{
		Name:   name,
		Module: importPath,
		Alias:  alias,
		File:   path,
		Line:   line,
	})
}
