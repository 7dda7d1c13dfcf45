package livecss

// Issue is a single check finding, shaped like a golangci-lint issue so
// editor integrations and CI annotators that already parse that format
// keep working.
type Issue struct {
	FromLinter  string   `json:"FromLinter"`
	Text        string   `json:"Text"`
	Severity    string   `json:"Severity"`
	SourceLines []string `json:"SourceLines"`
	Pos         IssuePos `json:"Pos"`
}

// IssuePos specifies the exact location of an issue.
type IssuePos struct {
	Filename string `json:"Filename"`
	Line     int    `json:"Line"`
	Column   int    `json:"Column"` // 1-based, start of the offending class
}

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// checkerName is the FromLinter value on every issue this package emits.
const checkerName = "livecss"

// unknownClassMessage is the text template for class names the stylesheet
// can neither generate nor find among its plain CSS selectors.
const unknownClassMessage = "unknown class %q produces no CSS rule"
