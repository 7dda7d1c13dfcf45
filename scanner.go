package livecss

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Candidate is one class attribute value found in project source. Value
// holds the full attribute string, which may name several whitespace
// separated classes.
type Candidate struct {
	Value    string
	Location FileLocation
}

// FileLocation tracks where a candidate was found.
type FileLocation struct {
	File   string
	Line   int
	Column int    // 1-based column of the attribute value
	Text   string // full line content for source display
}

// ScanStats tracks file scanning statistics.
type ScanStats struct {
	FilesDiscovered int // total files matched by the glob patterns
	FilesScanned    int // files actually scanned after filtering
	FilesSkipped    int // files dropped as generated or gitignored
	FilesFailed     int // files that could not be read
}

// scanPattern is one regex shape that yields a class attribute value.
type scanPattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// Shapes that carry class names in templ, Go, and HTML source. The
	// templ argument-list forms are handled separately in extractCandidates.
	patterns = []scanPattern{
		{
			name:  "class attribute",
			regex: regexp.MustCompile(`class="([^"]+)"`),
		},
		{
			name:  "class attribute, single quotes",
			regex: regexp.MustCompile(`class='([^']+)'`),
		},
		{
			name:  "class expression",
			regex: regexp.MustCompile(`class=\{\s*"([^"]+)"`),
		},
		{
			name:  "Cls call",
			regex: regexp.MustCompile(`\bCls\(\s*"([^"]+)"`),
		},
		{
			name:  "KV call",
			regex: regexp.MustCompile(`\bKV\(\s*"([^"]+)"`),
		},
	}

	// templ helpers take argument lists, so a single capture group is not
	// enough to pull every class string out of them.
	templClassesCall = regexp.MustCompile(`templ\.Classes\(([^)]+)\)`)
	templKVCall      = regexp.MustCompile(`templ\.KV\(([^)]+)\)`)

	commentLine = regexp.MustCompile(`^\s*(//|<!--)`)

	gitIgnoreCache *ignore.GitIgnore
	gitIgnoreOnce  sync.Once
)

// isGeneratedFile reports whether path is a templ-generated Go file.
// Both the _templ.go and .templ.go suffix variants occur in the wild.
func isGeneratedFile(path string) bool {
	return strings.HasSuffix(path, "_templ.go") ||
		strings.HasSuffix(path, ".templ.go")
}

// loadGitIgnore loads the .gitignore file once (thread-safe).
// Gracefully degrades if .gitignore doesn't exist.
func loadGitIgnore() *ignore.GitIgnore {
	gitIgnoreOnce.Do(func() {
		gi, err := ignore.CompileIgnoreFile(".gitignore")
		if err != nil {
			gitIgnoreCache = nil
			return
		}
		gitIgnoreCache = gi
	})
	return gitIgnoreCache
}

// shouldSkipFile determines if a file should be excluded from scanning.
//
// Two-layer filtering:
//  1. Pattern check (fast): skip templ-generated Go files, whose class
//     attributes duplicate the .templ sources they came from.
//  2. Gitignore check: skip gitignored files, for relative paths only.
//     Absolute paths (like /tmp/...) are outside the project and are not
//     subject to its .gitignore.
func shouldSkipFile(path string) bool {
	if isGeneratedFile(path) {
		return true
	}

	if !filepath.IsAbs(path) {
		gi := loadGitIgnore()
		if gi != nil && gi.MatchesPath(path) {
			return true
		}
	}

	return false
}

// ScanFiles expands the given glob patterns and scans every matching file
// for class name candidates. Unreadable files are counted in the stats and
// skipped so a single bad file cannot fail a whole build.
func ScanFiles(globs []string) ([]Candidate, ScanStats, error) {
	files, stats, err := expandGlobs(globs)
	if err != nil {
		return nil, stats, err
	}

	var all []Candidate
	for _, file := range files {
		cands, err := scanFile(file)
		if err != nil {
			stats.FilesFailed++
			continue
		}
		all = append(all, cands...)
	}

	return all, stats, nil
}

// expandGlobs resolves doublestar patterns to a deduplicated list of
// regular files, applying the skip filters along the way.
func expandGlobs(globs []string) ([]string, ScanStats, error) {
	var files []string
	seen := make(map[string]bool)
	stats := ScanStats{}

	for _, pattern := range globs {
		matches, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, stats, fmt.Errorf("glob %q: %w", pattern, err)
		}

		for _, match := range matches {
			if seen[match] {
				continue
			}
			info, err := os.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			stats.FilesDiscovered++

			if shouldSkipFile(match) {
				stats.FilesSkipped++
				continue
			}
			seen[match] = true
			files = append(files, match)
			stats.FilesScanned++
		}
	}

	return files, stats, nil
}

// scanFile scans a single file line by line for class candidates.
func scanFile(path string) ([]Candidate, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cands []Candidate
	sc := bufio.NewScanner(f)
	// Minified assets can carry very long lines.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for sc.Scan() {
		lineNum++
		cands = append(cands, extractCandidates(sc.Text(), lineNum, path)...)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return cands, nil
}

// extractCandidates extracts every class value referenced on a single line.
func extractCandidates(line string, lineNum int, file string) []Candidate {
	if commentLine.MatchString(line) {
		return nil
	}

	var cands []Candidate
	scannable := line

	// templ.Classes and templ.KV get dedicated handlers. Their matched
	// spans are blanked out before the plain patterns run, which keeps
	// columns stable and avoids extracting the same string twice.
	if strings.Contains(line, "templ.KV(") {
		var spans [][2]int
		cands = append(cands, extractTemplKV(line, lineNum, file, &spans)...)
		scannable = blankSpans(scannable, spans)
	}
	if strings.Contains(line, "templ.Classes(") {
		var spans [][2]int
		cands = append(cands, extractTemplClasses(line, lineNum, file, &spans)...)
		scannable = blankSpans(scannable, spans)
	}

	for _, p := range patterns {
		for _, m := range p.regex.FindAllStringSubmatchIndex(scannable, -1) {
			if len(m) < 4 || m[2] < 0 {
				continue
			}
			cands = append(cands, Candidate{
				Value: scannable[m[2]:m[3]],
				Location: FileLocation{
					File:   file,
					Line:   lineNum,
					Column: m[2] + 1,
					Text:   strings.TrimSpace(line),
				},
			})
		}
	}

	return cands
}

// extractTemplClasses pulls string literals out of templ.Classes(...) calls.
// Handles: templ.Classes("foo", "bar", someExpr, templ.KV(...)).
func extractTemplClasses(line string, lineNum int, file string, spans *[][2]int) []Candidate {
	var cands []Candidate
	for _, m := range templClassesCall.FindAllStringSubmatchIndex(line, -1) {
		if len(m) < 4 {
			continue
		}
		*spans = append(*spans, [2]int{m[0], m[1]})
		cands = append(cands, quotedArgs(line[m[2]:m[3]], m[2], line, lineNum, file)...)
	}
	return cands
}

// extractTemplKV pulls the class argument out of templ.KV(...) calls. Only
// the first argument names classes; the second is the condition.
func extractTemplKV(line string, lineNum int, file string, spans *[][2]int) []Candidate {
	var cands []Candidate
	for _, m := range templKVCall.FindAllStringSubmatchIndex(line, -1) {
		if len(m) < 4 {
			continue
		}
		*spans = append(*spans, [2]int{m[0], m[1]})
		args := splitArgs(line[m[2]:m[3]])
		if len(args) > 0 {
			cands = append(cands, quotedArgs(args[0], m[2], line, lineNum, file)...)
		}
	}
	return cands
}

// quotedArgs extracts the string-literal arguments from an argument list.
// Non-literal arguments (variables, nested calls) carry no class text we
// can see statically, so they are skipped.
func quotedArgs(args string, argsStart int, line string, lineNum int, file string) []Candidate {
	var cands []Candidate
	for _, part := range splitArgs(args) {
		part = strings.TrimSpace(part)
		if len(part) < 2 || !strings.HasPrefix(part, `"`) || !strings.HasSuffix(part, `"`) {
			continue
		}
		value := part[1 : len(part)-1]
		if value == "" {
			continue
		}
		cands = append(cands, Candidate{
			Value: value,
			Location: FileLocation{
				File: file,
				Line: lineNum,
				// +2: one past the opening quote, 1-based.
				Column: argsStart + strings.Index(args, part) + 2,
				Text:   strings.TrimSpace(line),
			},
		})
	}
	return cands
}

// splitArgs splits a comma-separated argument list, keeping commas inside
// nested parentheses attached to their argument.
func splitArgs(s string) []string {
	var parts []string
	var current strings.Builder
	depth := 0

	for _, r := range s {
		switch r {
		case '(':
			depth++
			current.WriteRune(r)
		case ')':
			depth--
			current.WriteRune(r)
		case ',':
			if depth == 0 {
				parts = append(parts, current.String())
				current.Reset()
			} else {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

// blankSpans replaces the given [start, end) spans with spaces, preserving
// the length of the line so later column math still lines up.
func blankSpans(line string, spans [][2]int) string {
	if len(spans) == 0 {
		return line
	}
	b := []byte(line)
	for _, s := range spans {
		for i := s[0]; i < s[1] && i < len(b); i++ {
			b[i] = ' '
		}
	}
	return string(b)
}

// findClassColumn locates the 1-based column where className starts within
// line, preferring a class attribute over other mentions. Returns 0 when
// the class cannot be located.
func findClassColumn(line, className string) int {
	if attrIdx := strings.Index(line, "class="); attrIdx != -1 {
		if quoteIdx := strings.IndexAny(line[attrIdx:], `"'`); quoteIdx != -1 {
			start := attrIdx + quoteIdx + 1
			value := line[start:]
			if end := strings.IndexAny(value, `"'`); end != -1 {
				value = value[:end]
			}
			if idx := indexClass(value, className); idx != -1 {
				return start + idx + 1
			}
		}
	}

	if idx := strings.Index(line, `"`+className+`"`); idx != -1 {
		return idx + 2
	}
	if idx := indexClass(line, className); idx != -1 {
		return idx + 1
	}

	return 0
}

// indexClass finds className as a whole token, so "flex" does not match
// inside "inline-flex". Returns -1 when absent.
func indexClass(s, className string) int {
	from := 0
	for from <= len(s)-len(className) {
		i := strings.Index(s[from:], className)
		if i == -1 {
			return -1
		}
		pos := from + i
		startOK := pos == 0 || isClassBoundary(s[pos-1])
		end := pos + len(className)
		endOK := end == len(s) || isClassBoundary(s[end])
		if startOK && endOK {
			return pos
		}
		from = pos + 1
	}
	return -1
}

func isClassBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '"', '\'', '{', '}', '(', ')', ',', '>', '<':
		return true
	}
	return false
}

// relPath returns path relative to the current working directory, falling
// back to the input when it cannot be made relative.
func relPath(path string) string {
	cwd, err := os.Getwd()
	if err != nil {
		return path
	}
	rel, err := filepath.Rel(cwd, path)
	if err != nil {
		return path
	}
	return rel
}
