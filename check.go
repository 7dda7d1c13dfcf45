package livecss

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

// CheckConfig holds check configuration.
type CheckConfig struct {
	ContentGlobs  []string // project files to scan for class candidates
	Source        string   // entry stylesheet, DefaultSource when empty
	MaxSameIssues int      // cap per identical message, 0 = unlimited
	Logger        *slog.Logger
}

// CheckResult contains the outcome of a check run.
type CheckResult struct {
	Issues         []Issue
	FilesScanned   int
	ClassesFound   int // class tokens inspected, repeats included
	UniqueClasses  int
	UnknownClasses int // distinct class names that produce no rule
	TruncatedCount int // issues dropped by MaxSameIssues
}

// classKind classifies one class token against the stylesheet.
type classKind int

const (
	// classGenerated means the engine can compile the name into a rule.
	classGenerated classKind = iota
	// classDefined means a plain CSS rule in the stylesheet covers the name.
	classDefined
	// classUnknown means nothing in the stylesheet produces the name.
	classUnknown
)

// Check scans the configured content for class names and reports every one
// the stylesheet cannot account for, either by generating a rule or by a
// plain CSS selector. Variant prefixes and arbitrary values are understood,
// so hover:flex and bg-[#fff] pass while typos like felx are reported.
// Every issue carries warning severity; strict handling is the caller's.
func Check(cfg CheckConfig) (*CheckResult, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if len(cfg.ContentGlobs) == 0 {
		return nil, fmt.Errorf("check: no content globs configured")
	}

	source := cfg.Source
	if source == "" {
		source = DefaultSource
	}
	eng, err := newEngine(source)
	if err != nil {
		return nil, fmt.Errorf("load stylesheet: %w", err)
	}

	cands, stats, err := ScanFiles(cfg.ContentGlobs)
	if err != nil {
		return nil, fmt.Errorf("scan content: %w", err)
	}

	result := &CheckResult{FilesScanned: stats.FilesScanned}

	classify := func(name string) classKind {
		if eng.Match(name) {
			return classGenerated
		}
		if eng.Defined(name) {
			return classDefined
		}
		return classUnknown
	}

	unique := make(map[string]struct{})
	unknown := make(map[string]struct{})
	reported := make(map[string]struct{})
	for _, cand := range cands {
		for _, name := range strings.Fields(cand.Value) {
			result.ClassesFound++
			unique[name] = struct{}{}

			if classify(name) != classUnknown {
				continue
			}
			unknown[name] = struct{}{}

			column := findClassColumn(cand.Location.Text, name)
			if column == 0 {
				column = cand.Location.Column
			}

			// The same class can be extracted twice from one spot, say
			// when two globs overlap; report each location once.
			key := fmt.Sprintf("%s:%d:%d:%s", cand.Location.File, cand.Location.Line, column, name)
			if _, dup := reported[key]; dup {
				continue
			}
			reported[key] = struct{}{}

			result.Issues = append(result.Issues, Issue{
				FromLinter:  checkerName,
				Text:        fmt.Sprintf(unknownClassMessage, name),
				Severity:    SeverityWarning,
				SourceLines: []string{cand.Location.Text},
				Pos: IssuePos{
					Filename: cand.Location.File,
					Line:     cand.Location.Line,
					Column:   column,
				},
			})
		}
	}
	result.UniqueClasses = len(unique)
	result.UnknownClasses = len(unknown)

	sortIssues(result.Issues)

	if cfg.MaxSameIssues > 0 {
		result.Issues, result.TruncatedCount = capSameIssues(result.Issues, cfg.MaxSameIssues)
	}

	logger.Debug("check finished",
		"files", result.FilesScanned,
		"classes", result.UniqueClasses,
		"unknown", result.UnknownClasses)

	return result, nil
}

// sortIssues orders issues by file, then line, then column, so output is
// stable across runs and scan orderings.
func sortIssues(issues []Issue) {
	sort.Slice(issues, func(i, j int) bool {
		if issues[i].Pos.Filename != issues[j].Pos.Filename {
			return issues[i].Pos.Filename < issues[j].Pos.Filename
		}
		if issues[i].Pos.Line != issues[j].Pos.Line {
			return issues[i].Pos.Line < issues[j].Pos.Line
		}
		return issues[i].Pos.Column < issues[j].Pos.Column
	})
}

// capSameIssues limits how many times the same message text appears,
// returning the filtered issues and the number dropped.
func capSameIssues(issues []Issue, maxSame int) ([]Issue, int) {
	counts := make(map[string]int)
	kept := issues[:0]
	for _, issue := range issues {
		if counts[issue.Text] >= maxSame {
			continue
		}
		counts[issue.Text]++
		kept = append(kept, issue)
	}
	return kept, len(issues) - len(kept)
}
