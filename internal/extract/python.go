// # internal/extract/python.go
package extract

import (
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"polyscan/internal/fact"
)

var (
	pythonLangOnce sync.Once
	pythonLang     *sitter.Language
)

func pythonLanguage() *sitter.Language {
	pythonLangOnce.Do(func() {
		pythonLang = sitter.NewLanguage(tree_sitter_python.Language())
	})
	return pythonLang
}

// PythonExtractor walks a real syntax tree instead of matching line shapes,
// so it also sees nested and async function definitions and class bodies.
type PythonExtractor struct{}

func NewPythonExtractor() *PythonExtractor {
	return &PythonExtractor{}
}

func (e *PythonExtractor) Language() string { return "python" }

func (e *PythonExtractor) Extensions() []string { return []string{".py", ".pyw"} }

func (e *PythonExtractor) CanHandle(path string) bool {
	return hasExtension(path, e.Extensions())
}

func (e *PythonExtractor) Extract(path, content string, fx *Facts) {
	parser := sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(pythonLanguage()); err != nil {
		return
	}

	tree := parser.Parse([]byte(content), nil)
	if tree == nil {
		return
	}
	defer tree.Close()

	e.walk(tree.RootNode(), []byte(content), path, fx)
}

func (e *PythonExtractor) walk(node *sitter.Node, source []byte, path string, fx *Facts) {
	switch node.Kind() {
	case "function_definition":
		e.extractFunction(node, source, path, fx)
	case "class_definition":
		e.extractClass(node, source, path, fx)
	case "import_statement":
		e.extractImport(node, source, path, fx)
	case "import_from_statement":
		e.extractFromImport(node, source, path, fx)
	}

	// Recurse; nested defs and class methods are plain function_definition
	// nodes further down.
	for i := uint(0); i < node.ChildCount(); i++ {
		e.walk(node.Child(i), source, path, fx)
	}
}

func (e *PythonExtractor) extractFunction(node *sitter.Node, source []byte, path string, fx *Facts) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.text(nameNode, source)

	signature := name + "()"
	if params := node.ChildByFieldName("parameters"); params != nil {
		signature = name + e.text(params, source)
	}
	if first := node.Child(0); first != nil && first.Kind() == "async" {
		signature = "async " + signature
	}

	fx.AddDefinition(fact.Definition{
		Name:      name,
		File:      path,
		Line:      e.line(node),
		Language:  e.Language(),
		Signature: signature,
	})
}

func (e *PythonExtractor) extractClass(node *sitter.Node, source []byte, path string, fx *Facts) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := e.text(nameNode, source)

	fx.AddDefinition(fact.Definition{
		Name:      name,
		File:      path,
		Line:      e.line(node),
		Language:  e.Language(),
		Signature: "class " + name,
	})
}

func (e *PythonExtractor) extractImport(node *sitter.Node, source []byte, path string, fx *Facts) {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			module := e.text(child, source)
			fx.AddImport(e.Language(), fact.Import{
				Name:   module,
				Module: module,
				File:   path,
				Line:   e.line(child),
			})
		case "aliased_import":
			var module, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if module == "" {
						module = e.text(sub, source)
					} else {
						alias = e.text(sub, source)
					}
				}
			}
			if module == "" {
				continue
			}
			fx.AddImport(e.Language(), fact.Import{
				Name:   module,
				Module: module,
				Alias:  alias,
				File:   path,
				Line:   e.line(child),
			})
		}
	}
}

func (e *PythonExtractor) extractFromImport(node *sitter.Node, source []byte, path string, fx *Facts) {
	var module string

	if mod := node.ChildByFieldName("module_name"); mod != nil {
		module = e.text(mod, source)
	} else {
		for i := uint(0); i < node.ChildCount(); i++ {
			child := node.Child(i)
			if child.Kind() == "dotted_name" || child.Kind() == "relative_import" {
				module = e.text(child, source)
				break
			}
		}
	}

	sawImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		if child.Kind() == "import" {
			sawImport = true
			continue
		}
		if !sawImport {
			continue
		}

		switch child.Kind() {
		case "dotted_name", "identifier":
			name := e.text(child, source)
			fx.AddImport(e.Language(), fact.Import{
				Name:      name,
				Module:    joinPythonModule(module, name),
				File:      path,
				Line:      e.line(node),
				FromStyle: true,
			})
		case "aliased_import":
			var name, alias string
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					if name == "" {
						name = e.text(sub, source)
					} else {
						alias = e.text(sub, source)
					}
				}
			}
			if name == "" {
				continue
			}
			fx.AddImport(e.Language(), fact.Import{
				Name:      name,
				Module:    joinPythonModule(module, name),
				Alias:     alias,
				File:      path,
				Line:      e.line(node),
				FromStyle: true,
			})
		case "wildcard_import":
			fx.AddImport(e.Language(), fact.Import{
				Name:      "*",
				Module:    module,
				File:      path,
				Line:      e.line(node),
				FromStyle: true,
			})
		}
	}
}

func joinPythonModule(module, name string) string {
	if module == "" {
		return name
	}
	if strings.HasSuffix(module, ".") {
		// Relative import like "from . import x".
		return module + name
	}
	return module + "." + name
}

func (e *PythonExtractor) line(node *sitter.Node) int {
	return int(node.StartPosition().Row) + 1
}

func (e *PythonExtractor) text(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
