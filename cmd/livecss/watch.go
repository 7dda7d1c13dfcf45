package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"github.com/yacobolo/livecss"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the stylesheet as content files change",
	Long: `Build once, then keep watching the content globs. Changed files are
rescanned and any new class names trigger a recompile of the full set.
Class names accumulate for the lifetime of the process; restart to drop
names that no longer appear anywhere.`,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.StringP("input", "i", "", "Entry stylesheet (empty = built-in default)")
	f.StringP("output", "o", defaultOutputFile, "Output stylesheet path")
	f.StringSlice("content", nil, "Glob patterns for files to scan")
	f.Duration("debounce", 150*time.Millisecond, "Quiet window before a rebuild")
}

func runWatch(cmd *cobra.Command, _ []string) error {
	cfg, err := buildPipelineConfig(defaultOutputFile)
	if err != nil {
		return err
	}

	pipe := newPipeline(cfg, livecss.NewMemorySink())
	if err := pipe.rebuild(cmd.Context(), nil); err != nil {
		return err
	}
	return watchContent(cmd.Context(), pipe)
}

// watchContent blocks, feeding file system events through a debouncer into
// pipe.rebuild, until ctx is canceled. Rebuild failures after startup are
// logged, not fatal; a broken template save should not kill the watcher.
func watchContent(ctx context.Context, pipe *pipeline) error {
	w, err := newContentWatcher(pipe.globs, pipe.output, pipe.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	window := getDuration("debounce", 150*time.Millisecond)
	deb := newDebouncer(window, func(paths []string) {
		if err := pipe.rebuild(ctx, paths); err != nil && !errors.Is(err, context.Canceled) {
			pipe.logger.Error("rebuild failed", "error", err)
		}
	})

	pipe.logger.Info("watching for changes", "globs", pipe.globs, "debounce", window)
	return w.run(ctx, deb.Add)
}

// styleSink is the in-memory side of a pipeline's output: the session
// replaces content, the pipeline reads it back for the file mirror and the
// dev server.
type styleSink interface {
	livecss.Sink
	CSS() string
	Revision() uint64
}

// pipeline ties one long-lived session to a set of content globs and an
// optional output file. watch and serve share it.
type pipeline struct {
	session *livecss.Session
	sink    styleSink
	globs   []string
	output  string // empty serves from memory only
	logger  *slog.Logger

	mu      sync.Mutex
	lastRev uint64
}

func newPipeline(cfg livecss.Config, sink styleSink) *pipeline {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	session := livecss.New(livecss.Options{
		Source:  cfg.Source,
		Logger:  logger,
		NewSink: func() livecss.Sink { return sink },
		OnBuildError: func(err *livecss.BuildError) {
			logger.Error("background build failed", "error", err)
		},
	})
	return &pipeline{
		session: session,
		sink:    sink,
		globs:   cfg.ContentGlobs,
		output:  cfg.OutputFile,
		logger:  logger,
	}
}

// rebuild scans paths (nil means every content glob), feeds the class names
// into the session and mirrors the sink to the output file when content
// actually changed. The debouncer may fire concurrently with shutdown, so
// rebuild serializes itself and checks ctx up front.
func (p *pipeline) rebuild(ctx context.Context, paths []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ctx.Err() != nil {
		return nil
	}

	globs := paths
	if globs == nil {
		globs = p.globs
	}
	cands, stats, err := livecss.ScanFiles(globs)
	if err != nil {
		return fmt.Errorf("scan content: %w", err)
	}

	items := make([]livecss.Item, 0, len(cands))
	for _, cand := range cands {
		items = append(items, livecss.Cls(cand.Value))
	}
	p.session.Classes(items...)
	if err := p.session.Flush(ctx); err != nil {
		return err
	}

	rev := p.sink.Revision()
	if rev == p.lastRev {
		p.logger.Debug("no stylesheet change", "scanned", stats.FilesScanned)
		return nil
	}
	p.lastRev = rev

	css := p.sink.CSS()
	if p.output != "" {
		out := &livecss.FileSink{Path: p.output}
		if err := out.Replace(css); err != nil {
			return fmt.Errorf("write %s: %w", p.output, err)
		}
	}
	p.logger.Info("stylesheet rebuilt",
		"scanned", stats.FilesScanned,
		"classes", len(p.session.Known()),
		"bytes", len(css))
	return nil
}

// skipWatchDirs are directory names never worth watching.
var skipWatchDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
}

// contentWatcher wraps fsnotify with recursive directory registration and
// glob filtering. fsnotify watches directories, not patterns, so the roots
// of every glob are walked and each directory added individually.
type contentWatcher struct {
	fw     *fsnotify.Watcher
	globs  []string
	output string
	logger *slog.Logger
}

func newContentWatcher(globs []string, output string, logger *slog.Logger) (*contentWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	cleaned := make([]string, len(globs))
	for i, glob := range globs {
		cleaned[i] = filepath.Clean(glob)
	}
	if output != "" {
		output = filepath.Clean(output)
	}

	w := &contentWatcher{fw: fw, globs: cleaned, output: output, logger: logger}
	for _, root := range watchRoots(cleaned) {
		w.addRecursive(root)
	}
	return w, nil
}

func (w *contentWatcher) Close() error {
	return w.fw.Close()
}

// addRecursive registers root and every directory below it. Unreadable
// directories are skipped so one bad permission does not stop the watch.
func (w *contentWatcher) addRecursive(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if skipWatchDirs[d.Name()] {
			return fs.SkipDir
		}
		if err := w.fw.Add(path); err != nil {
			w.logger.Warn("cannot watch directory", "dir", path, "error", err)
		}
		return nil
	})
}

// run pumps events until ctx is canceled. Cancellation is the normal way
// to stop, so it returns nil rather than ctx.Err().
func (w *contentWatcher) run(ctx context.Context, notify func(path string)) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev, notify)
		case err, ok := <-w.fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *contentWatcher) handleEvent(ev fsnotify.Event, notify func(string)) {
	const relevant = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename
	if ev.Op&relevant == 0 {
		return
	}
	path := filepath.Clean(ev.Name)

	// New directories join the watch set so files created inside them are
	// seen. fsnotify does not do this on its own.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !skipWatchDirs[filepath.Base(path)] {
				w.addRecursive(path)
			}
			return
		}
	}

	// The output file lives under a watched root when globs start at ".";
	// reacting to our own writes would loop forever.
	if w.output != "" && path == w.output {
		return
	}
	if !matchesAny(w.globs, path) {
		return
	}
	notify(path)
}

// matchesAny reports whether path matches at least one glob.
func matchesAny(globs []string, path string) bool {
	for _, glob := range globs {
		if ok, err := doublestar.PathMatch(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

// watchRoots returns the deduplicated static prefixes of the globs, the
// directories the watcher must register: "web/**/*.templ" yields "web",
// "**/*.go" yields ".".
func watchRoots(globs []string) []string {
	seen := make(map[string]struct{})
	roots := make([]string, 0, len(globs))
	for _, glob := range globs {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(glob))
		base = filepath.FromSlash(base)
		if _, dup := seen[base]; dup {
			continue
		}
		seen[base] = struct{}{}
		roots = append(roots, base)
	}
	return roots
}
