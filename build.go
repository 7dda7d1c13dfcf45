package livecss

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Config holds one-shot build configuration.
type Config struct {
	ContentGlobs []string // project files to scan for class candidates
	Source       string   // entry stylesheet, DefaultSource when empty
	OutputFile   string   // path the stylesheet is written to
	Logger       *slog.Logger
}

// BuildResult contains build statistics.
type BuildResult struct {
	FilesScanned  int      // files scanned for candidates
	ClassesFound  int      // class tokens encountered, repeats included
	UniqueClasses int      // distinct class names fed to the compiler
	RulesEmitted  int      // top-level blocks in the output, :root included
	Bytes         int      // size of the written stylesheet
	Warnings      []string // non-fatal problems encountered along the way
}

// Build scans the configured content globs for class names, compiles a
// stylesheet covering all of them, and writes it to cfg.OutputFile with an
// atomic replace. Unknown class names are skipped rather than failing the
// build; use Check to report them.
func Build(ctx context.Context, cfg Config) (*BuildResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.OutputFile == "" {
		return nil, fmt.Errorf("build: no output file configured")
	}
	if len(cfg.ContentGlobs) == 0 {
		return nil, fmt.Errorf("build: no content globs configured")
	}

	cands, stats, err := ScanFiles(cfg.ContentGlobs)
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}

	result := &BuildResult{FilesScanned: stats.FilesScanned}
	if stats.FilesFailed > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("%d matched files could not be read", stats.FilesFailed))
	}

	seen := make(map[string]struct{})
	classes := make([]string, 0, len(cands))
	for _, cand := range cands {
		for _, name := range strings.Fields(cand.Value) {
			result.ClassesFound++
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			classes = append(classes, name)
		}
	}
	result.UniqueClasses = len(classes)

	sink := NewMemorySink()
	session := New(Options{
		Source:  cfg.Source,
		Logger:  logger,
		NewSink: func() Sink { return sink },
	})
	session.Classes(Cls(strings.Join(classes, " ")))
	if err := session.Flush(ctx); err != nil {
		return nil, fmt.Errorf("compile stylesheet: %w", err)
	}

	css := sink.CSS()
	out := &FileSink{Path: cfg.OutputFile}
	if err := out.Replace(css); err != nil {
		return nil, fmt.Errorf("write %s: %w", cfg.OutputFile, err)
	}

	result.RulesEmitted = countRules(css)
	result.Bytes = len(css)

	logger.Debug("stylesheet built",
		"output", cfg.OutputFile,
		"files", result.FilesScanned,
		"classes", result.UniqueClasses,
		"rules", result.RulesEmitted,
		"bytes", result.Bytes)

	return result, nil
}

// countRules counts top-level blocks in an emitted stylesheet. Nested
// closers are indented, so only a brace in column zero ends a block.
func countRules(css string) int {
	n := 0
	for _, line := range strings.Split(css, "\n") {
		if line == "}" {
			n++
		}
	}
	return n
}
