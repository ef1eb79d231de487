// # internal/xref/known.go
package xref

import (
	_ "embed"
	"strings"
)

//go:embed known/python.txt
var pythonKnownData string

//go:embed known/go.txt
var goKnownData string

//go:embed known/javascript.txt
var javascriptKnownData string

//go:embed known/java.txt
var javaKnownData string

//go:embed known/c.txt
var cKnownData string

// knownRoots is the merged set of well-known standard-library and popular
// third-party module roots across all supported languages. Imports from
// these modules are exempt from missing-definition analysis outright.
var knownRoots = map[string]bool{}

func init() {
	for _, data := range []string{pythonKnownData, goKnownData, javascriptKnownData, javaKnownData, cKnownData} {
		for _, line := range strings.Split(data, "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			knownRoots[line] = true
		}
	}
}

// IsWellKnown reports whether a raw import module string belongs to a
// well-known root. Checked forms: the whole string, its first dotted and
// slashed segments, and the first two dotted segments (Java package style).
func IsWellKnown(module string) bool {
	if module == "" {
		return false
	}
	if knownRoots[module] {
		return true
	}

	if dotted := strings.Split(module, "."); len(dotted) > 1 {
		if knownRoots[dotted[0]] {
			return true
		}
		if knownRoots[dotted[0]+"."+dotted[1]] {
			return true
		}
	} else if knownRoots[dotted[0]] {
		return true
	}

	if slashed := strings.Split(module, "/"); len(slashed) > 1 && knownRoots[slashed[0]] {
		return true
	}

	return false
}

// orphanExemptions lists names that are entry points, object-protocol hooks
// or interface-mandated methods in each language family; a definition with
// one of these names is expected to have no matching import anywhere.
var orphanExemptions = map[string]map[string]bool{
	"python": {
		"main": true, "__init__": true, "__main__": true, "__new__": true,
		"__del__": true, "__str__": true, "__repr__": true, "__eq__": true,
		"__ne__": true, "__lt__": true, "__hash__": true, "__len__": true,
		"__iter__": true, "__next__": true, "__call__": true, "__enter__": true,
		"__exit__": true, "__getitem__": true, "__setitem__": true,
		"__contains__": true, "setUp": true, "tearDown": true,
	},
	"go": {
		"main": true, "init": true, "String": true, "Error": true,
		"TestMain": true, "ServeHTTP": true, "Close": true, "Read": true,
		"Write": true, "MarshalJSON": true, "UnmarshalJSON": true,
	},
	"java": {
		"main": true, "toString": true, "equals": true, "hashCode": true,
		"compareTo": true, "run": true, "close": true, "clone": true,
		"finalize": true,
	},
	"javascript": {
		"main": true, "constructor": true, "render": true, "toString": true,
		"componentDidMount": true, "componentWillUnmount": true,
	},
	"c": {
		"main": true,
	},
}

// IsOrphanExempt reports whether a definition name is conventional for its
// language and should never be flagged as orphaned.
func IsOrphanExempt(language, name string) bool {
	if exempt, ok := orphanExemptions[language]; ok && exempt[name] {
		return true
	}
	return false
}
