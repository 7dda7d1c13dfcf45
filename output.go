package livecss

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// OutputFormat selects how check results are rendered.
type OutputFormat string

const (
	// OutputText prints issues in golangci-lint style, one per line with
	// the source line and a caret under the offending class.
	OutputText OutputFormat = "text"
	// OutputJSON exports structured data for tooling integration.
	OutputJSON OutputFormat = "json"
)

// DetermineOutputFormat maps an output flag value to a format, defaulting
// to text for anything unrecognized.
func DetermineOutputFormat(flag string) OutputFormat {
	switch flag {
	case "json":
		return OutputJSON
	default:
		return OutputText
	}
}

// Terminal styles for the text reporter. Lipgloss degrades colors based on
// terminal capabilities.
var (
	styleLocation = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleCaret    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleMuted    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func render(style lipgloss.Style, text string, useColors bool) string {
	if !useColors {
		return text
	}
	return style.Render(text)
}

// ShouldUseColors reports whether colored output is appropriate: forced by
// FORCE_COLOR, implied by GitHub Actions, or stdout being a terminal.
func ShouldUseColors() bool {
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return true
	}
	if info, _ := os.Stdout.Stat(); info != nil && (info.Mode()&os.ModeCharDevice) != 0 {
		return true
	}
	return false
}

// ReportOptions tunes the text reporter.
type ReportOptions struct {
	PrintSourceLines bool // show the offending line under each issue
	PrintCheckerName bool // append the (livecss) suffix
	UseColors        bool
}

// Reporter renders check results as text.
type Reporter struct {
	w    io.Writer
	opts ReportOptions
}

// NewReporter creates a reporter writing to w.
func NewReporter(w io.Writer, opts ReportOptions) *Reporter {
	return &Reporter{w: w, opts: opts}
}

// PrintIssues outputs issues in file:line:col format. Issues are assumed
// already sorted; Check returns them that way.
func (r *Reporter) PrintIssues(issues []Issue) {
	for _, issue := range issues {
		r.printIssue(issue)
	}
}

func (r *Reporter) printIssue(issue Issue) {
	location := fmt.Sprintf("%s:%d:%d:", relPath(issue.Pos.Filename), issue.Pos.Line, issue.Pos.Column)

	suffix := ""
	if r.opts.PrintCheckerName {
		suffix = fmt.Sprintf(" (%s)", issue.FromLinter)
	}

	fmt.Fprintf(r.w, "%s %s%s\n",
		render(styleLocation, location, r.opts.UseColors),
		issue.Text,
		render(styleMuted, suffix, r.opts.UseColors))

	if r.opts.PrintSourceLines && len(issue.SourceLines) > 0 {
		for _, line := range issue.SourceLines {
			fmt.Fprintf(r.w, "\t%s\n", line)
		}
		caret := buildCaretIndicator(issue.SourceLines[0], issue.Pos.Column)
		fmt.Fprintf(r.w, "\t%s\n", render(styleCaret, caret, r.opts.UseColors))
	}
}

// buildCaretIndicator creates the "^" indicator aligned with the column.
// Tabs in the prefix are preserved so the caret lines up in terminals.
func buildCaretIndicator(sourceLine string, column int) string {
	if column <= 0 {
		return "^"
	}

	prefixLen := column - 1
	if prefixLen > len(sourceLine) {
		prefixLen = len(sourceLine)
	}

	var padding strings.Builder
	for _, ch := range sourceLine[:prefixLen] {
		if ch == '\t' {
			padding.WriteRune('\t')
		} else {
			padding.WriteRune(' ')
		}
	}

	return padding.String() + "^"
}

// PrintSummary outputs the closing issue count.
func (r *Reporter) PrintSummary(result *CheckResult) {
	total := len(result.Issues)

	fmt.Fprintln(r.w, "")
	if total == 0 {
		fmt.Fprintln(r.w, render(styleMuted, "no issues found", r.opts.UseColors))
		return
	}

	if result.TruncatedCount > 0 {
		fmt.Fprintf(r.w, "%s (%s truncated):\n",
			pluralizeCount(total, "issue", "issues"),
			pluralizeCount(result.TruncatedCount, "issue", "issues"))
	} else {
		fmt.Fprintf(r.w, "%s:\n", pluralizeCount(total, "issue", "issues"))
	}
	fmt.Fprintf(r.w, "* %s: %d\n", checkerName, total)
}

// pluralizeCount returns a formatted string with count and the matching
// singular or plural form.
func pluralizeCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// WriteOutput writes the check result in the given format.
func WriteOutput(w io.Writer, result *CheckResult, format OutputFormat, opts ReportOptions) error {
	switch format {
	case OutputJSON:
		return WriteJSON(w, result)
	default:
		reporter := NewReporter(w, opts)
		reporter.PrintIssues(result.Issues)
		reporter.PrintSummary(result)
		return nil
	}
}
