// # internal/fact/fact.go
package fact

// Definition is one function, method or class/type declaration found in a file.
type Definition struct {
	Name      string `json:"name"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	Language  string `json:"language"`
	Signature string `json:"signature,omitempty"`
}

// Import is one dependency edge declared by a file on a named module or path.
// Module holds the raw, language-specific string (dotted, slashed or quoted
// path) exactly as it appeared in the source.
type Import struct {
	Name      string `json:"name"`
	Module    string `json:"module"`
	File      string `json:"file"`
	Line      int    `json:"line"`
	FromStyle bool   `json:"from_style"`
	Alias     string `json:"alias,omitempty"`
}

type FunctionKind string

const (
	FunctionDefined  FunctionKind = "defined"
	FunctionImported FunctionKind = "imported"
)

// Function is the reporting-oriented view of a fact: either a mirror of a
// Definition or of an Import. Analyses operate on Definition/Import, never
// on this merged view.
type Function struct {
	Name         string       `json:"name"`
	Kind         FunctionKind `json:"type"`
	Language     string       `json:"language"`
	File         string       `json:"file"`
	Line         int          `json:"line"`
	Signature    string       `json:"signature,omitempty"`
	Module       string       `json:"module_source,omitempty"`
	OriginalName string       `json:"original_name,omitempty"`
}

type IssueKind string

const (
	MissingDefinition IssueKind = "missing_definition"
	OrphanedFunction  IssueKind = "orphaned_function"
	CircularImport    IssueKind = "circular_import"
)

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
)

// Issue is a single cross-reference finding. Issues are produced only by the
// cross-reference engine and never mutated afterwards.
type Issue struct {
	Kind        IssueKind         `json:"kind"`
	Severity    Severity          `json:"severity"`
	Description string            `json:"description"`
	File        string            `json:"file"`
	Line        int               `json:"line,omitempty"`
	Details     map[string]string `json:"details,omitempty"`
}

// Cycle is a closed walk in the file-level import graph. Path starts and
// ends at the same file.
type Cycle struct {
	Path        []string `json:"path"`
	Description string   `json:"description"`
}

// Stats are simple counts over the issue and cycle lists.
type Stats struct {
	MissingDefinitions int `json:"missing_definitions"`
	OrphanedFunctions  int `json:"orphaned_functions"`
	CircularImports    int `json:"circular_imports"`
	Critical           int `json:"critical"`
	Warnings           int `json:"warnings"`
	Cycles             int `json:"cycles"`
}

// Result is the aggregate output of one scan invocation. It is built once
// and read-only after construction.
type Result struct {
	TotalFiles          int            `json:"total_files"`
	ProcessedFiles      int            `json:"processed_files"`
	TotalFunctions      int            `json:"total_functions"`
	FunctionsByLanguage map[string]int `json:"functions_by_language"`
	Definitions         []Definition   `json:"definitions"`
	Imports             []Import       `json:"imports"`
	Functions           []Function     `json:"functions"`
	Issues              []Issue        `json:"issues"`
	Cycles              []Cycle        `json:"cycles"`
	Stats               Stats          `json:"stats"`
	ScanTime            float64        `json:"scan_time"` // seconds
	Errors              []string       `json:"errors"`
}

// ComputeStats tallies issues and cycles by kind and severity.
func ComputeStats(issues []Issue, cycles []Cycle) Stats {
	var s Stats
	for _, issue := range issues {
		switch issue.Kind {
		case MissingDefinition:
			s.MissingDefinitions++
		case OrphanedFunction:
			s.OrphanedFunctions++
		case CircularImport:
			s.CircularImports++
		}
		switch issue.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityWarning:
			s.Warnings++
		}
	}
	s.Cycles = len(cycles)
	return s
}
