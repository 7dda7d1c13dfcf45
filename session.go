package livecss

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Options configures a Session. The zero value is usable: default source,
// the built-in engine, an in-memory sink, and slog's default logger.
type Options struct {
	// Source is the stylesheet the session compiles on auto-initialize.
	// Empty means DefaultSource.
	Source string

	// Logger receives task-level records. Defaults to slog.Default().
	Logger *slog.Logger

	// NewCompiler builds a Compiler from stylesheet source. Defaults to
	// the built-in engine. Tests substitute fakes here.
	NewCompiler func(source string) (Compiler, error)

	// NewSink is consulted exactly once, after the first successful
	// initialize. Defaults to NewMemorySink.
	NewSink func() Sink

	// OnBuildError observes failures of tasks nobody waits on. Errors of
	// awaited tasks (Initialize, Flush, Reset) go to the waiter instead.
	OnBuildError func(*BuildError)
}

// Session accumulates utility class names and keeps one stylesheet sink in
// step with the full accumulated set.
//
// Classes may be called from any goroutine. All builds run on a single
// drain goroutine fed by a FIFO queue: tasks execute in enqueue order, one
// at a time, and each rebuild compiles the complete registry, never a diff.
// A task whose class names are all already known performs no compile at
// all. The drain goroutine exits whenever the queue empties, so an idle
// Session holds no resources and needs no Close.
type Session struct {
	opts Options

	mu       sync.Mutex
	queue    []*task
	draining bool
	nextSeq  uint64
	registry map[string]struct{}
	compiler Compiler
	sink     Sink
}

type taskKind int

const (
	taskBuild taskKind = iota
	taskInit
	taskBarrier
	taskReset
)

// task is one unit of serialized work. done is non-nil when a caller waits
// for the outcome; it must be buffered so the drain goroutine never blocks
// on an abandoned waiter.
type task struct {
	seq        uint64
	kind       taskKind
	candidates []string
	source     string // initialize tasks only
	done       chan error
}

// New creates an empty Session. No compiler is constructed until the first
// task runs.
func New(opts Options) *Session {
	if opts.Source == "" {
		opts.Source = DefaultSource
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.NewCompiler == nil {
		opts.NewCompiler = newDefaultCompiler
	}
	if opts.NewSink == nil {
		opts.NewSink = func() Sink { return NewMemorySink() }
	}
	return &Session{
		opts:     opts,
		registry: make(map[string]struct{}),
	}
}

// Classes returns the class attribute string for the active items and
// schedules one build task covering every candidate, active or not. It
// never waits for the build; compilation failures surface through the
// session's logger and OnBuildError hook, not here.
//
// The returned string preserves encounter order and is not deduplicated;
// only the registry used for compilation is.
func (s *Session) Classes(items ...Item) string {
	var active, candidates []string
	for _, item := range items {
		if item == nil {
			continue
		}
		item.collect(&active, &candidates)
	}

	s.enqueue(&task{kind: taskBuild, candidates: candidates})
	return strings.Join(active, " ")
}

// Initialize replaces the session's compiler with one built from customCSS,
// or from the configured source when customCSS is empty. The swap is
// atomic: the new compiler is installed only after the full registry
// compiles through it, and on failure the previous compiler, sink and
// registry are untouched. Initialize waits for the outcome; ctx abandons
// the wait but not the queued work.
func (s *Session) Initialize(ctx context.Context, customCSS string) error {
	return s.wait(ctx, &task{kind: taskInit, source: customCSS})
}

// Flush waits until every task enqueued before it has finished. Tasks that
// failed have already been reported; Flush itself returns nil unless ctx
// expires first.
func (s *Session) Flush(ctx context.Context) error {
	return s.wait(ctx, &task{kind: taskBarrier})
}

// Reset empties the registry and uninstalls the compiler; the next task
// auto-initializes from the configured source again. The sink and its
// content stay in place until the next successful build replaces them.
func (s *Session) Reset(ctx context.Context) error {
	return s.wait(ctx, &task{kind: taskReset})
}

// Known returns every class name the session has seen, sorted.
func (s *Session) Known() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.known()
}

// Sink returns the session's sink, or nil before the first initialize.
func (s *Session) Sink() Sink {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sink
}

// known returns the sorted registry contents. Callers hold s.mu.
func (s *Session) known() []string {
	names := make([]string, 0, len(s.registry))
	for name := range s.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Session) wait(ctx context.Context, t *task) error {
	t.done = make(chan error, 1)
	s.enqueue(t)
	select {
	case err := <-t.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enqueue appends the task and starts the drain goroutine if none is
// running. The draining flag hands off under the mutex, so at most one
// drainer exists at any instant.
func (s *Session) enqueue(t *task) {
	s.mu.Lock()
	s.nextSeq++
	t.seq = s.nextSeq
	s.queue = append(s.queue, t)
	if s.draining {
		s.mu.Unlock()
		return
	}
	s.draining = true
	s.mu.Unlock()

	go s.drain()
}

func (s *Session) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.mu.Unlock()
			return
		}
		t := s.queue[0]
		s.queue = s.queue[1:]
		s.mu.Unlock()

		err := s.runTask(t)
		if t.done != nil {
			t.done <- err
			continue
		}
		if err != nil {
			s.opts.Logger.Error("build task failed", "task", t.seq, "error", err)
			if s.opts.OnBuildError != nil {
				s.opts.OnBuildError(&BuildError{Task: t.seq, Err: err})
			}
		}
	}
}

// runTask executes one task. A panic out of a compiler or sink is caught
// here so one bad build cannot take down the drain goroutine.
func (s *Session) runTask(t *task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch t.kind {
	case taskBarrier:
		return nil
	case taskReset:
		s.mu.Lock()
		s.registry = make(map[string]struct{})
		s.compiler = nil
		s.mu.Unlock()
		return nil
	case taskInit:
		return s.initialize(t.source)
	default:
		return s.build(t)
	}
}

// initialize builds a fresh compiler, compiles the current registry through
// it, and only then swaps it in. The sink is created lazily here, exactly
// once per session, after the first compile succeeds.
func (s *Session) initialize(source string) error {
	if source == "" {
		source = s.opts.Source
	}

	compiler, err := s.opts.NewCompiler(source)
	if err != nil {
		return fmt.Errorf("initialize compiler: %w", err)
	}

	s.mu.Lock()
	known := s.known()
	s.mu.Unlock()

	css, err := compiler.Build(known)
	if err != nil {
		return fmt.Errorf("compile %d classes: %w", len(known), err)
	}

	s.mu.Lock()
	s.compiler = compiler
	if s.sink == nil {
		s.sink = s.opts.NewSink()
	}
	sink := s.sink
	s.mu.Unlock()

	if err := sink.Replace(css); err != nil {
		return fmt.Errorf("replace stylesheet: %w", err)
	}

	s.opts.Logger.Debug("compiler initialized", "classes", len(known), "bytes", len(css))
	return nil
}

// ensureInit constructs the compiler on first demand so a build task never
// observes an uninitialized engine.
func (s *Session) ensureInit() error {
	s.mu.Lock()
	initialized := s.compiler != nil
	s.mu.Unlock()
	if initialized {
		return nil
	}
	return s.initialize("")
}

// build runs one queued rebuild: ensure a compiler exists, merge the
// candidates into the registry, and recompile the full set only when the
// task introduced at least one new class name.
func (s *Session) build(t *task) error {
	if err := s.ensureInit(); err != nil {
		return err
	}

	s.mu.Lock()
	fresh := 0
	for _, name := range t.candidates {
		if _, seen := s.registry[name]; !seen {
			s.registry[name] = struct{}{}
			fresh++
		}
	}
	if fresh == 0 {
		s.mu.Unlock()
		return nil
	}
	known := s.known()
	compiler := s.compiler
	sink := s.sink
	s.mu.Unlock()

	css, err := compiler.Build(known)
	if err != nil {
		return fmt.Errorf("compile %d classes: %w", len(known), err)
	}
	if err := sink.Replace(css); err != nil {
		return fmt.Errorf("replace stylesheet: %w", err)
	}

	s.opts.Logger.Debug("stylesheet rebuilt",
		"task", t.seq,
		"new", fresh,
		"classes", len(known),
		"bytes", len(css),
	)
	return nil
}
