// # internal/scan/scan.go
package scan

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"
	"golang.org/x/sync/errgroup"

	"polyscan/internal/extract"
	"polyscan/internal/fact"
	"polyscan/internal/shared/observability"
	"polyscan/internal/xref"
)

// Scanner walks a target, fans file extraction out over a bounded worker
// pool and hands the aggregated facts to the cross-reference engine. One
// Scanner may run many scans; each Scan call owns its own result end to end.
type Scanner struct {
	workers      int
	excludeDirs  []glob.Glob
	excludeFiles []glob.Glob
	registry     *extract.Registry
}

func NewScanner(workers int, excludeDirs, excludeFiles []string) (*Scanner, error) {
	if workers < 1 {
		workers = 1
	}

	compiledDirs := make([]glob.Glob, 0, len(excludeDirs))
	for _, pattern := range excludeDirs {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude dir pattern %q: %w", pattern, err)
		}
		compiledDirs = append(compiledDirs, g)
	}

	compiledFiles := make([]glob.Glob, 0, len(excludeFiles))
	for _, pattern := range excludeFiles {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compile exclude file pattern %q: %w", pattern, err)
		}
		compiledFiles = append(compiledFiles, g)
	}

	return &Scanner{
		workers:      workers,
		excludeDirs:  compiledDirs,
		excludeFiles: compiledFiles,
		registry:     extract.NewRegistry(),
	}, nil
}

// Scan analyzes a directory tree or a single file. An unreadable target path
// is the only fatal condition; everything below it degrades to per-file
// error strings in the result.
func (s *Scanner) Scan(ctx context.Context, target string) (*fact.Result, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("stat target: %w", err)
	}

	start := time.Now()
	defer func() {
		observability.ScanDuration.Observe(time.Since(start).Seconds())
	}()

	var result *fact.Result
	if info.IsDir() {
		result, err = s.scanDir(ctx, target)
	} else {
		result = s.scanFile(target)
	}
	if err != nil {
		return nil, err
	}

	result.ScanTime = time.Since(start).Seconds()
	for kind, count := range map[fact.IssueKind]int{
		fact.MissingDefinition: result.Stats.MissingDefinitions,
		fact.OrphanedFunction:  result.Stats.OrphanedFunctions,
		fact.CircularImport:    result.Stats.CircularImports,
	} {
		observability.IssuesFound.WithLabelValues(string(kind)).Set(float64(count))
	}

	slog.Info("scan complete",
		"target", target,
		"files", result.TotalFiles,
		"processed", result.ProcessedFiles,
		"functions", result.TotalFunctions,
		"issues", len(result.Issues),
		"errors", len(result.Errors),
		"elapsed", result.ScanTime)

	return result, nil
}

// scanDir enumerates the tree, extracts concurrently and cross-references
// once every extraction task has finished. Facts land in task-completion
// order; nothing downstream may depend on that order. Files are identified
// by their root-relative slash path, which is also what the module-identity
// heuristics key on.
func (s *Scanner) scanDir(ctx context.Context, root string) (*fact.Result, error) {
	result := &fact.Result{FunctionsByLanguage: make(map[string]int)}

	var scannable []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
			return nil
		}
		if d.IsDir() {
			if path != root && s.shouldExcludeDir(path) {
				return filepath.SkipDir
			}
			return nil
		}

		result.TotalFiles++
		if s.shouldExcludeFile(path) {
			return nil
		}
		if s.isScannable(path) {
			rel, err := filepath.Rel(root, path)
			if err != nil {
				rel = path
			}
			scannable = append(scannable, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for _, path := range scannable {
		path := path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			observability.FilesScanned.Inc()

			content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(path)))
			if err != nil {
				observability.ScanErrors.Inc()
				mu.Lock()
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
				mu.Unlock()
				return nil
			}

			fx, xerr := s.registry.Extract(path, string(content))

			mu.Lock()
			defer mu.Unlock()
			if xerr != nil {
				observability.ScanErrors.Inc()
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, xerr))
			}
			result.Definitions = append(result.Definitions, fx.Definitions...)
			result.Imports = append(result.Imports, fx.Imports...)
			result.Functions = append(result.Functions, fx.Functions...)
			if !fx.Empty() {
				result.ProcessedFiles++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Hard barrier: analysis only ever sees the complete fact set.
	engine := xref.New(scannable, result.Definitions, result.Imports)
	result.Issues, result.Cycles, result.Stats = engine.Run()

	s.finalize(result)
	return result, nil
}

// scanFile runs the extraction synchronously. Cross-reference analysis needs
// a whole-codebase module map, so single-file mode skips it entirely.
func (s *Scanner) scanFile(path string) *fact.Result {
	result := &fact.Result{
		TotalFiles:          1,
		FunctionsByLanguage: make(map[string]int),
	}
	observability.FilesScanned.Inc()

	content, err := os.ReadFile(path)
	if err != nil {
		observability.ScanErrors.Inc()
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, err))
		return result
	}

	fx, xerr := s.registry.Extract(path, string(content))
	if xerr != nil {
		observability.ScanErrors.Inc()
		result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", path, xerr))
	}
	result.Definitions = fx.Definitions
	result.Imports = fx.Imports
	result.Functions = fx.Functions
	if !fx.Empty() {
		result.ProcessedFiles = 1
	}

	s.finalize(result)
	return result
}

func (s *Scanner) finalize(result *fact.Result) {
	result.TotalFunctions = len(result.Functions)
	for _, fn := range result.Functions {
		result.FunctionsByLanguage[fn.Language]++
	}
}

// isScannable accepts files a registered extractor claims, plus anything
// whose extension smells like text. Unclaimed text files pass through the
// registry as silent no-ops.
func (s *Scanner) isScannable(path string) bool {
	if s.registry.Supports(path) {
		return true
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	return strings.HasPrefix(mimeType, "text/")
}

func (s *Scanner) shouldExcludeDir(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeDirs {
		if g.Match(base) {
			return true
		}
	}
	return false
}

func (s *Scanner) shouldExcludeFile(path string) bool {
	base := filepath.Base(path)
	for _, g := range s.excludeFiles {
		if g.Match(base) {
			return true
		}
	}
	return false
}
