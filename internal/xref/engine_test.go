// # internal/xref/engine_test.go
package xref

import (
	"sort"
	"strings"
	"testing"

	"polyscan/internal/fact"
)

func issuesOfKind(issues []fact.Issue, kind fact.IssueKind) []fact.Issue {
	var out []fact.Issue
	for _, issue := range issues {
		if issue.Kind == kind {
			out = append(out, issue)
		}
	}
	return out
}

func TestMissingDefinitionUnresolvedModule(t *testing.T) {
	files := []string{"x.js"}
	imports := []fact.Import{
		{Name: "doThing", Module: "./lib", File: "x.js", Line: 1, FromStyle: true},
	}

	issues, _, stats := New(files, nil, imports).Run()

	missing := issuesOfKind(issues, fact.MissingDefinition)
	if len(missing) != 1 {
		t.Fatalf("Expected exactly 1 missing_definition, got %v", issues)
	}
	issue := missing[0]
	if issue.Severity != fact.SeverityCritical {
		t.Errorf("Expected critical severity, got %s", issue.Severity)
	}
	if issue.File != "x.js" || issue.Line != 1 {
		t.Errorf("Expected issue at x.js:1, got %s:%d", issue.File, issue.Line)
	}
	if issue.Details["name"] != "doThing" || issue.Details["module"] != "./lib" {
		t.Errorf("Unexpected details: %v", issue.Details)
	}
	if stats.MissingDefinitions != 1 || stats.Critical != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestMissingDefinitionWellKnownExempt(t *testing.T) {
	files := []string{"x.py"}
	imports := []fact.Import{
		{Name: "path", Module: "os.path", File: "x.py", Line: 1, FromStyle: true},
		{Name: "os", Module: "os", File: "x.py", Line: 2},
	}

	issues, _, _ := New(files, nil, imports).Run()
	if len(issuesOfKind(issues, fact.MissingDefinition)) != 0 {
		t.Errorf("Well-known modules must never be flagged, got %v", issues)
	}
}

func TestMissingDefinitionSatisfiedByNameAnywhere(t *testing.T) {
	files := []string{"x.py", "other.py"}
	defs := []fact.Definition{
		{Name: "doThing", File: "other.py", Line: 5, Language: "python"},
	}
	imports := []fact.Import{
		{Name: "doThing", Module: "somewhere.doThing", File: "x.py", Line: 1, FromStyle: true},
	}

	issues, _, _ := New(files, defs, imports).Run()
	if len(issuesOfKind(issues, fact.MissingDefinition)) != 0 {
		t.Errorf("A definition anywhere satisfies the import, got %v", issues)
	}
}

func TestMissingDefinitionResolvedModule(t *testing.T) {
	files := []string{"x.py", "lib.py"}
	defs := []fact.Definition{
		{Name: "present", File: "lib.py", Line: 1, Language: "python"},
	}
	imports := []fact.Import{
		// Plain module import: resolving the module is enough.
		{Name: "lib", Module: "lib", File: "x.py", Line: 1},
		// From-style import of a symbol the resolved file defines.
		{Name: "present", Module: "lib.present", File: "x.py", Line: 2, FromStyle: true},
		// From-style import of a symbol the resolved file lacks.
		{Name: "absent", Module: "lib.absent", File: "x.py", Line: 3, FromStyle: true},
	}

	issues, _, _ := New(files, defs, imports).Run()

	missing := issuesOfKind(issues, fact.MissingDefinition)
	if len(missing) != 1 {
		t.Fatalf("Expected 1 missing_definition, got %v", missing)
	}
	if missing[0].Details["name"] != "absent" {
		t.Errorf("Expected absent to be flagged, got %v", missing[0].Details)
	}
	if missing[0].Details["style"] != "from-import" {
		t.Errorf("Expected from-import style, got %v", missing[0].Details)
	}
}

func TestMissingDefinitionSkipsWildcard(t *testing.T) {
	files := []string{"x.py"}
	imports := []fact.Import{
		{Name: "*", Module: "mystery", File: "x.py", Line: 1, FromStyle: true},
	}

	issues, _, _ := New(files, nil, imports).Run()
	if len(issuesOfKind(issues, fact.MissingDefinition)) != 0 {
		t.Errorf("Wildcard imports carry no checkable name, got %v", issues)
	}
}

func TestOrphanedDefinition(t *testing.T) {
	files := []string{"lib.py"}
	defs := []fact.Definition{
		{Name: "helper", File: "lib.py", Line: 3, Language: "python"},
	}

	issues, _, stats := New(files, defs, nil).Run()

	orphans := issuesOfKind(issues, fact.OrphanedFunction)
	if len(orphans) != 1 {
		t.Fatalf("Expected exactly 1 orphaned_function, got %v", issues)
	}
	issue := orphans[0]
	if issue.Severity != fact.SeverityWarning {
		t.Errorf("Expected warning severity, got %s", issue.Severity)
	}
	if issue.File != "lib.py" || issue.Line != 3 {
		t.Errorf("Expected issue at lib.py:3, got %s:%d", issue.File, issue.Line)
	}
	if stats.OrphanedFunctions != 1 || stats.Warnings != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestOrphanExemptNames(t *testing.T) {
	files := []string{"app.py", "main.go"}
	defs := []fact.Definition{
		{Name: "__init__", File: "app.py", Line: 2, Language: "python"},
		{Name: "main", File: "main.go", Line: 5, Language: "go"},
	}

	issues, _, _ := New(files, defs, nil).Run()
	if len(issuesOfKind(issues, fact.OrphanedFunction)) != 0 {
		t.Errorf("Exempt names must never be flagged, got %v", issues)
	}
}

func TestOrphanSatisfiedByAlias(t *testing.T) {
	files := []string{"lib.py", "app.py"}
	defs := []fact.Definition{
		{Name: "np", File: "lib.py", Line: 1, Language: "python"},
	}
	imports := []fact.Import{
		{Name: "numpy", Module: "numpy", Alias: "np", File: "app.py", Line: 1},
	}

	issues, _, _ := New(files, defs, imports).Run()
	if len(issuesOfKind(issues, fact.OrphanedFunction)) != 0 {
		t.Errorf("Aliases count as imported names, got %v", issues)
	}
}

func TestCycleTriangle(t *testing.T) {
	files := []string{"a.py", "b.py", "c.py"}
	imports := []fact.Import{
		{Name: "b", Module: "b", File: "a.py", Line: 1},
		{Name: "c", Module: "c", File: "b.py", Line: 1},
		{Name: "a", Module: "a", File: "c.py", Line: 1},
	}

	issues, cycles, stats := New(files, nil, imports).Run()

	if len(cycles) == 0 {
		t.Fatal("Expected at least one cycle")
	}

	rotation := func(c fact.Cycle) bool {
		if len(c.Path) != 4 || c.Path[0] != c.Path[3] {
			return false
		}
		joined := strings.Join(c.Path[:3], ",") + "," + strings.Join(c.Path[:3], ",")
		return strings.Contains(joined, "a.py,b.py,c.py")
	}
	for _, c := range cycles {
		if !rotation(c) {
			t.Errorf("Cycle %v is not a rotation of [a.py b.py c.py a.py]", c.Path)
		}
	}

	// Each entry node reports the cycle once; the duplication is deliberate.
	if len(cycles) != 3 {
		t.Errorf("Expected one rotation per start node, got %d", len(cycles))
	}

	circular := issuesOfKind(issues, fact.CircularImport)
	if len(circular) != len(cycles) {
		t.Errorf("Expected one circular_import issue per cycle, got %d/%d", len(circular), len(cycles))
	}
	for _, issue := range circular {
		if issue.Severity != fact.SeverityWarning {
			t.Errorf("Expected warning severity, got %s", issue.Severity)
		}
	}
	if stats.Cycles != len(cycles) || stats.CircularImports != len(circular) {
		t.Errorf("Unexpected stats: %+v", stats)
	}
}

func TestCycleSelfImportIgnored(t *testing.T) {
	files := []string{"a.py"}
	imports := []fact.Import{
		{Name: "a", Module: "a", File: "a.py", Line: 1},
	}

	_, cycles, _ := New(files, nil, imports).Run()
	if len(cycles) != 0 {
		t.Errorf("Self-edges must not form cycles, got %v", cycles)
	}
}

func TestCycleTwoNodes(t *testing.T) {
	files := []string{"a.py", "b.py"}
	imports := []fact.Import{
		{Name: "b", Module: "b", File: "a.py", Line: 1},
		{Name: "a", Module: "a", File: "b.py", Line: 1},
	}

	_, cycles, _ := New(files, nil, imports).Run()
	if len(cycles) != 2 {
		t.Fatalf("Expected the pair cycle from both entry points, got %v", cycles)
	}
	for _, c := range cycles {
		if len(c.Path) != 3 || c.Path[0] != c.Path[2] {
			t.Errorf("Unexpected cycle path %v", c.Path)
		}
		if !strings.HasPrefix(c.Description, "circular import: ") {
			t.Errorf("Unexpected description %q", c.Description)
		}
	}
}

func TestEngineOrderInsensitive(t *testing.T) {
	files := []string{"c.py", "a.py", "b.py"}
	defs := []fact.Definition{
		{Name: "zeta", File: "b.py", Line: 9, Language: "python"},
		{Name: "helper", File: "a.py", Line: 1, Language: "python"},
	}
	imports := []fact.Import{
		{Name: "b", Module: "b", File: "a.py", Line: 2},
		{Name: "a", Module: "a", File: "b.py", Line: 1},
		{Name: "ghost", Module: "nowhere.ghost", File: "c.py", Line: 1, FromStyle: true},
	}

	key := func(issues []fact.Issue) []string {
		keys := make([]string, 0, len(issues))
		for _, issue := range issues {
			keys = append(keys, string(issue.Kind)+":"+issue.File+":"+issue.Description)
		}
		sort.Strings(keys)
		return keys
	}

	first, firstCycles, _ := New(files, defs, imports).Run()

	// Reversed inputs simulate a different task-completion order.
	revFiles := []string{"b.py", "a.py", "c.py"}
	revDefs := []fact.Definition{defs[1], defs[0]}
	revImports := []fact.Import{imports[2], imports[1], imports[0]}
	second, secondCycles, _ := New(revFiles, revDefs, revImports).Run()

	a, b := key(first), key(second)
	if len(a) != len(b) {
		t.Fatalf("Issue sets differ in size: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Issue sets differ: %v vs %v", a, b)
			break
		}
	}
	if len(firstCycles) != len(secondCycles) {
		t.Errorf("Cycle counts differ: %d vs %d", len(firstCycles), len(secondCycles))
	}
}
