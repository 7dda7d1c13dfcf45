package livecss

import (
	"encoding/json"
	"io"
	"time"
)

// CheckReport is the structured JSON export schema.
type CheckReport struct {
	Version   string        `json:"version"`
	Timestamp string        `json:"timestamp"`
	Summary   ReportSummary `json:"summary"`
	Issues    []ReportIssue `json:"issues"`
}

// ReportSummary contains high-level counts.
type ReportSummary struct {
	TotalIssues    int `json:"total_issues"`
	FilesScanned   int `json:"files_scanned"`
	ClassesFound   int `json:"classes_found"`
	UniqueClasses  int `json:"unique_classes"`
	UnknownClasses int `json:"unknown_classes"`
	Truncated      int `json:"truncated"`
}

// ReportIssue is a single finding in the export.
type ReportIssue struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
	Checker  string `json:"checker"`
	Source   string `json:"source,omitempty"`
}

// WriteJSON writes the check result as indented JSON.
func WriteJSON(w io.Writer, result *CheckResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(buildReport(result))
}

func buildReport(result *CheckResult) CheckReport {
	issues := make([]ReportIssue, len(result.Issues))
	for i, issue := range result.Issues {
		source := ""
		if len(issue.SourceLines) > 0 {
			source = issue.SourceLines[0]
		}
		issues[i] = ReportIssue{
			File:     issue.Pos.Filename,
			Line:     issue.Pos.Line,
			Column:   issue.Pos.Column,
			Severity: issue.Severity,
			Message:  issue.Text,
			Checker:  issue.FromLinter,
			Source:   source,
		}
	}

	return CheckReport{
		Version:   "1.0",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Summary: ReportSummary{
			TotalIssues:    len(result.Issues),
			FilesScanned:   result.FilesScanned,
			ClassesFound:   result.ClassesFound,
			UniqueClasses:  result.UniqueClasses,
			UnknownClasses: result.UnknownClasses,
			Truncated:      result.TruncatedCount,
		},
		Issues: issues,
	}
}
