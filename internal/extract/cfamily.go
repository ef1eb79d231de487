// # internal/extract/cfamily.go
package extract

import (
	"regexp"
	"strings"

	"polyscan/internal/fact"
)

// CFamilyExtractor covers C and C++ sources and headers. Function
// recognition is a call-shaped line ending in "{" or ";"; imports are
// #include directives.
type CFamilyExtractor struct{}

func NewCFamilyExtractor() *CFamilyExtractor {
	return &CFamilyExtractor{}
}

var (
	cFunctionPattern = regexp.MustCompile(`^\s*(?:[\w:*&<>~]+\s+)+\*?([a-zA-Z_][a-zA-Z0-9_]*)\s*\([^)]*\)\s*(?:const\s*)?[{;]`)
	cIncludePattern  = regexp.MustCompile(`#include\s*[<"]([^>"]+)[>"]`)
)

func (e *CFamilyExtractor) Language() string { return "c" }

func (e *CFamilyExtractor) Extensions() []string {
	return []string{".c", ".cc", ".cpp", ".cxx", ".h", ".hpp"}
}

func (e *CFamilyExtractor) CanHandle(path string) bool {
	return hasExtension(path, e.Extensions())
}

func (e *CFamilyExtractor) Extract(path, content string, fx *Facts) {
	for i, line := range splitLines(content) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "//") {
			continue
		}
		if strings.HasPrefix(trimmed, "#") && !strings.Contains(line, "include") {
			continue
		}

		if m := cIncludePattern.FindStringSubmatch(line); m != nil {
			fx.AddImport(e.Language(), fact.Import{
				Name:   m[1],
				Module: m[1],
				File:   path,
				Line:   lineNum,
			})
			continue
		}

		if m := cFunctionPattern.FindStringSubmatch(line); m != nil && !containsCKeyword(line) {
			fx.AddDefinition(fact.Definition{
				Name:      m[1],
				File:      path,
				Line:      lineNum,
				Language:  e.Language(),
				Signature: trimmed,
			})
		}
	}
}

func containsCKeyword(line string) bool {
	for _, keyword := range []string{"if ", "if(", "for ", "for(", "while ", "while(", "switch ", "switch(", "return "} {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}
