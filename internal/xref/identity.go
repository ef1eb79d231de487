// # internal/xref/identity.go
package xref

import (
	"path/filepath"
	"strings"

	"polyscan/internal/shared/util"
)

// conventionalRoots are directory names that carry no module meaning in
// dotted-path languages; they are stripped from the front of a path before
// the identity is formed.
var conventionalRoots = map[string]bool{
	"src":    true,
	"source": true,
	"lib":    true,
	"app":    true,
	"main":   true,
	"java":   true,
	"test":   true,
	"tests":  true,
}

// languageFamily buckets a path by extension into the family whose identity
// rule applies. Unknown extensions return "".
func languageFamily(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw":
		return "python"
	case ".js", ".jsx", ".ts", ".tsx", ".mjs":
		return "javascript"
	case ".java":
		return "java"
	case ".c", ".cc", ".cpp", ".cxx", ".h", ".hpp":
		return "c"
	case ".go":
		return "go"
	}
	return ""
}

// ModuleIdentity guesses the canonical name a file would be imported by.
// There is no real import resolver behind this; each language family gets
// one fixed heuristic rule:
//
//	python/java  dotted path, extension stripped, conventional roots dropped
//	go           parent directory name (the package directory)
//	javascript/c bare path stem
func ModuleIdentity(path string) string {
	family := languageFamily(path)
	if family == "" {
		return ""
	}

	clean := util.NormalizePatternPath(path)
	stem := strings.TrimSuffix(clean, filepath.Ext(clean))

	switch family {
	case "python", "java":
		parts := strings.Split(stem, "/")
		for len(parts) > 1 && conventionalRoots[parts[0]] {
			parts = parts[1:]
		}
		if family == "python" && parts[len(parts)-1] == "__init__" {
			parts = parts[:len(parts)-1]
		}
		return strings.Join(parts, ".")
	case "go":
		dir := filepath.Dir(clean)
		if dir == "." || dir == "/" {
			return filepath.Base(stem)
		}
		return filepath.Base(dir)
	default:
		return filepath.Base(stem)
	}
}

// Variants generates alternate spellings for a raw import string. The
// candidate set bridges dotted and slashed naming styles without claiming to
// resolve either one correctly: drop the trailing dotted segment, swap the
// separator style in both directions, and peel leading path segments off
// slash-delimited forms.
func Variants(raw string) []string {
	var ordered []string
	seen := make(map[string]bool)
	add := func(candidate string) {
		if candidate == "" || seen[candidate] {
			return
		}
		seen[candidate] = true
		ordered = append(ordered, candidate)
	}

	add(raw)

	trimmed := raw
	for strings.HasPrefix(trimmed, "./") || strings.HasPrefix(trimmed, "../") {
		trimmed = strings.TrimPrefix(trimmed, "./")
		trimmed = strings.TrimPrefix(trimmed, "../")
	}
	add(trimmed)

	if idx := strings.LastIndex(trimmed, "."); idx > 0 {
		add(trimmed[:idx])
	}

	add(strings.ReplaceAll(trimmed, ".", "/"))
	add(strings.ReplaceAll(trimmed, "/", "."))

	// Suffixes of every slash-delimited candidate gathered so far.
	for _, candidate := range append([]string(nil), ordered...) {
		if !strings.Contains(candidate, "/") {
			continue
		}
		parts := strings.Split(candidate, "/")
		for i := 1; i < len(parts); i++ {
			add(strings.Join(parts[i:], "/"))
		}
	}

	return ordered
}
