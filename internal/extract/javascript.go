// # internal/extract/javascript.go
package extract

import (
	"regexp"
	"strings"

	"polyscan/internal/fact"
)

// JavaScriptExtractor covers JS, JSX, TS, TSX and .mjs files with per-line
// shape matching. It does not parse; a line either looks like a declaration
// or it does not.
type JavaScriptExtractor struct{}

func NewJavaScriptExtractor() *JavaScriptExtractor {
	return &JavaScriptExtractor{}
}

var (
	jsDefinitionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`^\s*function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\(`),
		regexp.MustCompile(`^\s*async\s+function\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\(`),
		regexp.MustCompile(`^\s*(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*function\s*\(`),
		regexp.MustCompile(`^\s*(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*(?:async\s*)?\([^)]*\)\s*=>\s*\{`),
		regexp.MustCompile(`^\s*([a-zA-Z_$][a-zA-Z0-9_$]*)\s*:\s*function\s*\(`),
		regexp.MustCompile(`^\s*([a-zA-Z_$][a-zA-Z0-9_$]*)\s*\([^)]*\)\s*\{`),
	}

	jsNamedImportPattern   = regexp.MustCompile(`import\s*\{\s*([^}]+)\s*\}\s*from\s*['"]([^'"]+)['"]`)
	jsDefaultImportPattern = regexp.MustCompile(`import\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s+from\s*['"]([^'"]+)['"]`)
	jsRequirePattern       = regexp.MustCompile(`(?:const|let|var)\s+([a-zA-Z_$][a-zA-Z0-9_$]*)\s*=\s*require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
	jsDestructureRequire   = regexp.MustCompile(`(?:const|let|var)\s*\{\s*([^}]+)\s*\}\s*=\s*require\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

func (e *JavaScriptExtractor) Language() string { return "javascript" }

func (e *JavaScriptExtractor) Extensions() []string {
	return []string{".js", ".jsx", ".ts", ".tsx", ".mjs"}
}

func (e *JavaScriptExtractor) CanHandle(path string) bool {
	return hasExtension(path, e.Extensions())
}

func (e *JavaScriptExtractor) Extract(path, content string, fx *Facts) {
	for i, line := range splitLines(content) {
		lineNum := i + 1

		for _, pattern := range jsDefinitionPatterns {
			m := pattern.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			if isJSKeyword(m[1]) {
				continue
			}
			fx.AddDefinition(fact.Definition{
				Name:      m[1],
				File:      path,
				Line:      lineNum,
				Language:  e.Language(),
				Signature: strings.TrimSpace(line),
			})
		}

		if m := jsNamedImportPattern.FindStringSubmatch(line); m != nil {
			e.addDestructured(path, lineNum, m[1], m[2], fx)
			continue
		}
		if m := jsDestructureRequire.FindStringSubmatch(line); m != nil {
			e.addDestructured(path, lineNum, m[1], m[2], fx)
			continue
		}
		if m := jsDefaultImportPattern.FindStringSubmatch(line); m != nil {
			fx.AddImport(e.Language(), fact.Import{
				Name:   m[1],
				Module: m[2],
				File:   path,
				Line:   lineNum,
			})
			continue
		}
		if m := jsRequirePattern.FindStringSubmatch(line); m != nil {
			fx.AddImport(e.Language(), fact.Import{
				Name:   m[1],
				Module: m[2],
				File:   path,
				Line:   lineNum,
			})
		}
	}
}

// addDestructured splits "{ a, b as c }" style lists into one import per
// name, keeping "as" aliases.
func (e *JavaScriptExtractor) addDestructured(path string, line int, list, module string, fx *Facts) {
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		name, alias := item, ""
		if idx := strings.Index(item, " as "); idx != -1 {
			name = strings.TrimSpace(item[:idx])
			alias = strings.TrimSpace(item[idx+4:])
		}

		fx.AddImport(e.Language(), fact.Import{
			Name:      name,
			Module:    module,
			Alias:     alias,
			File:      path,
			Line:      line,
			FromStyle: true,
		})
	}
}

// The call-shaped pattern also matches control-flow statements; filter them.
func isJSKeyword(name string) bool {
	switch name {
	case "if", "for", "while", "switch", "catch", "return", "function", "else", "do":
		return true
	}
	return false
}
