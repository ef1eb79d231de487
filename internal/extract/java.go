// # internal/extract/java.go
package extract

import (
	"regexp"
	"strings"

	"polyscan/internal/fact"
)

// JavaExtractor matches the conventional method-signature shape on lines
// that open a brace, plus dotted import statements.
type JavaExtractor struct{}

func NewJavaExtractor() *JavaExtractor {
	return &JavaExtractor{}
}

var (
	javaMethodPattern = regexp.MustCompile(`^\s*(?:public|private|protected|static|final|synchronized|abstract|native|\s)*\s*[\w<>,\[\]\s]+\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\(`)
	javaImportPattern = regexp.MustCompile(`^\s*import\s+(?:static\s+)?((?:[a-zA-Z_$][a-zA-Z0-9_$]*\.)*[a-zA-Z_$][a-zA-Z0-9_$*]*)`)
)

func (e *JavaExtractor) Language() string { return "java" }

func (e *JavaExtractor) Extensions() []string { return []string{".java"} }

func (e *JavaExtractor) CanHandle(path string) bool {
	return hasExtension(path, e.Extensions())
}

func (e *JavaExtractor) Extract(path, content string, fx *Facts) {
	for i, line := range splitLines(content) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "//") {
			continue
		}

		if !strings.Contains(line, "class ") && strings.Contains(line, "{") {
			if m := javaMethodPattern.FindStringSubmatch(line); m != nil && !isJavaKeyword(m[1]) {
				fx.AddDefinition(fact.Definition{
					Name:      m[1],
					File:      path,
					Line:      lineNum,
					Language:  e.Language(),
					Signature: trimmed,
				})
			}
		}

		if strings.HasPrefix(trimmed, "import") {
			if m := javaImportPattern.FindStringSubmatch(line); m != nil {
				full := m[1]
				segments := strings.Split(full, ".")
				fx.AddImport(e.Language(), fact.Import{
					Name:   segments[len(segments)-1],
					Module: full,
					File:   path,
					Line:   lineNum,
				})
			}
		}
	}
}

func isJavaKeyword(name string) bool {
	switch name {
	case "if", "for", "while", "switch", "catch", "return", "new", "else", "do", "try":
		return true
	}
	return false
}
