// # internal/scan/scan_test.go
package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"polyscan/internal/fact"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestScanner(t *testing.T, workers int) *Scanner {
	t.Helper()
	s, err := NewScanner(workers, []string{".git", "node_modules"}, nil)
	if err != nil {
		t.Fatalf("NewScanner failed: %v", err)
	}
	return s
}

func TestScanDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "util.py", "def helper():\n    pass\n")
	writeFile(t, dir, "main.py", "from util import helper\n\ndef main():\n    helper()\n")
	writeFile(t, dir, "README.md", "# readme\n")

	s := newTestScanner(t, 4)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.TotalFiles != 3 {
		t.Errorf("Expected 3 total files, got %d", result.TotalFiles)
	}
	if result.ProcessedFiles != 2 {
		t.Errorf("Expected 2 processed files, got %d", result.ProcessedFiles)
	}
	if result.TotalFunctions != 3 {
		t.Errorf("Expected 3 function facts, got %d", result.TotalFunctions)
	}
	if result.FunctionsByLanguage["python"] != 3 {
		t.Errorf("Expected 3 python facts, got %d", result.FunctionsByLanguage["python"])
	}
	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues, got %v", result.Issues)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}

	for _, d := range result.Definitions {
		if filepath.IsAbs(d.File) {
			t.Errorf("Expected root-relative file identifier, got %q", d.File)
		}
	}
}

func TestScanDetectsCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import b\n")
	writeFile(t, dir, "b.py", "import c\n")
	writeFile(t, dir, "c.py", "import a\n")

	s := newTestScanner(t, 2)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Cycles) == 0 {
		t.Fatal("Expected at least one cycle")
	}

	found := false
	for _, c := range result.Cycles {
		if len(c.Path) == 4 && c.Path[0] == c.Path[3] {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a 3-file cycle closing on its start, got %v", result.Cycles)
	}

	circular := 0
	for _, issue := range result.Issues {
		if issue.Kind == fact.CircularImport {
			circular++
			if issue.Severity != fact.SeverityWarning {
				t.Errorf("Expected warning severity for cycles, got %s", issue.Severity)
			}
		}
	}
	if circular != len(result.Cycles) {
		t.Errorf("Expected one circular_import issue per cycle: %d issues, %d cycles", circular, len(result.Cycles))
	}
	if result.Stats.Cycles != len(result.Cycles) {
		t.Errorf("Stats.Cycles=%d, want %d", result.Stats.Cycles, len(result.Cycles))
	}
}

func TestScanSingleFileSkipsCrossReference(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "solo.py", "def helper():\n    pass\n")

	s := newTestScanner(t, 4)
	result, err := s.Scan(context.Background(), filepath.Join(dir, "solo.py"))
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.TotalFiles != 1 || result.ProcessedFiles != 1 {
		t.Errorf("Expected 1/1 files, got %d/%d", result.TotalFiles, result.ProcessedFiles)
	}
	if len(result.Definitions) != 1 {
		t.Fatalf("Expected 1 definition, got %d", len(result.Definitions))
	}
	// helper is never imported, but single-file mode runs no analyses.
	if len(result.Issues) != 0 {
		t.Errorf("Expected no issues in single-file mode, got %v", result.Issues)
	}
}

func TestScanFileWithoutFactsNotProcessed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "empty.py", "# nothing here\n")

	s := newTestScanner(t, 1)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.TotalFiles != 1 {
		t.Errorf("Expected 1 total file, got %d", result.TotalFiles)
	}
	if result.ProcessedFiles != 0 {
		t.Errorf("Expected 0 processed files for a factless file, got %d", result.ProcessedFiles)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
}

func TestScanUnreadableFileIsNonFatal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.py", "def helper():\n    pass\n")
	if err := os.Symlink(filepath.Join(dir, "missing.py"), filepath.Join(dir, "broken.py")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	s := newTestScanner(t, 2)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %v", result.Errors)
	}
	if result.ProcessedFiles != 1 {
		t.Errorf("Expected the readable file to still be processed, got %d", result.ProcessedFiles)
	}
	if len(result.Definitions) != 1 {
		t.Errorf("Expected 1 definition from the readable file, got %d", len(result.Definitions))
	}
}

func TestScanExcludesDirectories(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.py", "import os\n")
	writeFile(t, dir, "node_modules/pkg/index.js", "function hidden() {\n}\n")

	s := newTestScanner(t, 1)
	result, err := s.Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if result.TotalFiles != 1 {
		t.Errorf("Expected excluded dirs to be skipped during enumeration, got %d files", result.TotalFiles)
	}
	for _, d := range result.Definitions {
		if d.Name == "hidden" {
			t.Error("Definition from excluded directory leaked into result")
		}
	}
}

func TestScanInvalidTarget(t *testing.T) {
	s := newTestScanner(t, 1)
	if _, err := s.Scan(context.Background(), filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Error("Expected error for nonexistent target")
	}
}

func TestScanWorkerCountEquivalence(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.py", "import b\n\ndef alpha():\n    pass\n")
	writeFile(t, dir, "b.py", "import a\n\ndef beta():\n    pass\n")
	writeFile(t, dir, "lib.js", "function gamma() {\n}\nconst delta = () => {\n}\n")

	serial, err := newTestScanner(t, 1).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("serial scan failed: %v", err)
	}
	parallel, err := newTestScanner(t, 8).Scan(context.Background(), dir)
	if err != nil {
		t.Fatalf("parallel scan failed: %v", err)
	}

	if got, want := defNames(parallel), defNames(serial); !equalStrings(got, want) {
		t.Errorf("Definition sets differ: %v vs %v", got, want)
	}
	if got, want := issueKeys(parallel), issueKeys(serial); !equalStrings(got, want) {
		t.Errorf("Issue sets differ: %v vs %v", got, want)
	}
	if serial.TotalFunctions != parallel.TotalFunctions {
		t.Errorf("Fact counts differ: %d vs %d", serial.TotalFunctions, parallel.TotalFunctions)
	}
	if len(serial.Cycles) != len(parallel.Cycles) {
		t.Errorf("Cycle counts differ: %d vs %d", len(serial.Cycles), len(parallel.Cycles))
	}
}

func defNames(r *fact.Result) []string {
	names := make([]string, 0, len(r.Definitions))
	for _, d := range r.Definitions {
		names = append(names, d.File+":"+d.Name)
	}
	sort.Strings(names)
	return names
}

func issueKeys(r *fact.Result) []string {
	keys := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		keys = append(keys, string(issue.Kind)+":"+issue.File+":"+issue.Description)
	}
	sort.Strings(keys)
	return keys
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
