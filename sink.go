package livecss

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// Sink is the single owned output target for compiled CSS. Replace swaps
// the full stylesheet text; there is no incremental patching.
type Sink interface {
	Replace(css string) error
}

// MemorySink holds the latest stylesheet in memory, tracking a revision
// counter and a content hash so callers can cheaply detect changes. It is
// the default sink and is safe for concurrent readers.
type MemorySink struct {
	mu  sync.RWMutex
	css string
	rev uint64
	sum uint64
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

// Replace installs the new stylesheet. Identical content leaves the
// revision untouched so change watchers do not fire spuriously.
func (s *MemorySink) Replace(css string) error {
	sum := xxhash.Sum64String(css)

	s.mu.Lock()
	defer s.mu.Unlock()
	if sum == s.sum && css == s.css {
		return nil
	}
	s.css = css
	s.sum = sum
	s.rev++
	return nil
}

// CSS returns the current stylesheet text.
func (s *MemorySink) CSS() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.css
}

// Revision counts content changes. It starts at zero and increments once
// per Replace that actually changed the stylesheet.
func (s *MemorySink) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}

// ETag returns a strong validator for the current content, suitable for an
// HTTP ETag header.
func (s *MemorySink) ETag() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fmt.Sprintf("%q", fmt.Sprintf("%016x", s.sum))
}

// FileSink writes each replacement to one file on disk. Writes go through
// a temp file in the target directory followed by a rename, so a reader
// never observes a half-written stylesheet.
type FileSink struct {
	Path string
}

func (s *FileSink) Replace(css string) error {
	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".livecss-*.css")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	// Clean up temp file on error
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(css); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write stylesheet: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("chmod stylesheet: %w", err)
	}
	if err := os.Rename(tmpName, s.Path); err != nil {
		return fmt.Errorf("rename stylesheet into place: %w", err)
	}
	return nil
}
