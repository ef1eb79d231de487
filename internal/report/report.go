// # internal/report/report.go
package report

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"polyscan/internal/fact"
	"polyscan/internal/shared/util"
)

const maxErrorLines = 10

// Render serializes a scan result in the requested format ("text" or
// "json"). The result is read-only; rendering never re-derives facts.
func Render(result *fact.Result, format string) (string, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return "", fmt.Errorf("marshal result: %w", err)
		}
		return string(data), nil
	case "text", "":
		return renderText(result), nil
	default:
		return "", fmt.Errorf("unknown output format %q", format)
	}
}

func renderText(result *fact.Result) string {
	var out []string
	out = append(out, "Polyscan Results")
	out = append(out, strings.Repeat("=", 50))
	out = append(out, fmt.Sprintf("Total files: %d", result.TotalFiles))
	out = append(out, fmt.Sprintf("Processed files: %d", result.ProcessedFiles))
	out = append(out, fmt.Sprintf("Total functions found: %d", result.TotalFunctions))
	out = append(out, fmt.Sprintf("Scan time: %.2f seconds", result.ScanTime))
	out = append(out, "")

	if len(result.FunctionsByLanguage) > 0 {
		out = append(out, "Functions by language:")
		for _, lang := range util.SortedStringKeys(result.FunctionsByLanguage) {
			out = append(out, fmt.Sprintf("  %s: %d", lang, result.FunctionsByLanguage[lang]))
		}
		out = append(out, "")
	}

	if len(result.Errors) > 0 {
		out = append(out, fmt.Sprintf("Errors (%d):", len(result.Errors)))
		for i, errText := range result.Errors {
			if i == maxErrorLines {
				out = append(out, fmt.Sprintf("  ... and %d more errors", len(result.Errors)-maxErrorLines))
				break
			}
			out = append(out, "  "+errText)
		}
		out = append(out, "")
	}

	out = append(out, renderIssues(result)...)
	out = append(out, renderCycles(result)...)
	out = append(out, renderFunctions(result)...)

	return strings.Join(out, "\n")
}

func renderIssues(result *fact.Result) []string {
	if len(result.Issues) == 0 {
		return nil
	}

	out := []string{
		fmt.Sprintf("Issues (%d critical, %d warnings):", result.Stats.Critical, result.Stats.Warnings),
	}

	issues := append([]fact.Issue(nil), result.Issues...)
	sort.SliceStable(issues, func(i, j int) bool {
		// Critical findings first, then stable by file.
		if issues[i].Severity != issues[j].Severity {
			return issues[i].Severity == fact.SeverityCritical
		}
		if issues[i].File != issues[j].File {
			return issues[i].File < issues[j].File
		}
		return issues[i].Line < issues[j].Line
	})

	for _, issue := range issues {
		location := issue.File
		if issue.Line > 0 {
			location = fmt.Sprintf("%s:%d", issue.File, issue.Line)
		}
		out = append(out, fmt.Sprintf("  [%s] %s %s: %s", issue.Severity, issue.Kind, location, issue.Description))
	}
	return append(out, "")
}

func renderCycles(result *fact.Result) []string {
	if len(result.Cycles) == 0 {
		return nil
	}

	out := []string{fmt.Sprintf("Circular imports (%d):", len(result.Cycles))}
	for _, c := range result.Cycles {
		out = append(out, "  "+strings.Join(c.Path, " -> "))
	}
	return append(out, "")
}

func renderFunctions(result *fact.Result) []string {
	out := []string{"Functions:", strings.Repeat("-", 30)}

	byFile := make(map[string][]fact.Function)
	for _, fn := range result.Functions {
		byFile[fn.File] = append(byFile[fn.File], fn)
	}

	for _, file := range util.SortedStringKeys(byFile) {
		out = append(out, "", file+":")

		functions := byFile[file]
		sort.SliceStable(functions, func(i, j int) bool { return functions[i].Line < functions[j].Line })

		var defined, imported []fact.Function
		for _, fn := range functions {
			if fn.Kind == fact.FunctionDefined {
				defined = append(defined, fn)
			} else {
				imported = append(imported, fn)
			}
		}

		if len(defined) > 0 {
			out = append(out, "  Defined functions:")
			for _, fn := range defined {
				out = append(out, fmt.Sprintf("    %s (line %d)", fn.Name, fn.Line))
			}
		}
		if len(imported) > 0 {
			out = append(out, "  Imported functions/modules:")
			for _, fn := range imported {
				source := ""
				if fn.Module != "" {
					source = " from " + fn.Module
				}
				out = append(out, fmt.Sprintf("    %s%s (line %d)", fn.Name, source, fn.Line))
			}
		}
	}

	return out
}
