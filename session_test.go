package livecss

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingCompiler remembers every class set it was asked to build.
type recordingCompiler struct {
	mu    sync.Mutex
	calls [][]string
	err   error
	gate  chan struct{}
}

func (c *recordingCompiler) Build(classNames []string) (string, error) {
	if c.gate != nil {
		<-c.gate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", c.err
	}
	snapshot := append([]string(nil), classNames...)
	c.calls = append(c.calls, snapshot)
	return "/* " + strings.Join(snapshot, " ") + " */", nil
}

func (c *recordingCompiler) setErr(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func (c *recordingCompiler) snapshot() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.calls...)
}

type compilerFunc func(classNames []string) (string, error)

func (f compilerFunc) Build(classNames []string) (string, error) {
	return f(classNames)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSession(t *testing.T, rc *recordingCompiler) *Session {
	t.Helper()
	return New(Options{
		NewCompiler: func(source string) (Compiler, error) { return rc, nil },
		Logger:      discardLogger(),
	})
}

func TestClassesDedup(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	s.Classes(Cls("flex p-4"))
	s.Classes(Cls("flex p-4"))
	require.NoError(t, s.Flush(context.Background()))

	// One auto-initialize build plus one real build; the repeat call
	// introduced nothing new and compiled nothing
	calls := rc.snapshot()
	require.Len(t, calls, 2)
	assert.Empty(t, calls[0])
	assert.Equal(t, []string{"flex", "p-4"}, calls[1])
	assert.Equal(t, []string{"flex", "p-4"}, s.Known())
}

func TestRegistryMonotonic(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	var prev []string
	for _, cls := range []string{"a", "b", "a", "c"} {
		s.Classes(Cls(cls))
		require.NoError(t, s.Flush(context.Background()))
		known := s.Known()
		assert.Subset(t, known, prev)
		prev = known
	}
	assert.Equal(t, []string{"a", "b", "c"}, prev)
}

func TestSerializedBuilds(t *testing.T) {
	gate := make(chan struct{})
	rc := &recordingCompiler{gate: gate}
	s := newTestSession(t, rc)

	// All three return synchronously while the first build is still blocked
	assert.Equal(t, "a", s.Classes(Cls("a")))
	assert.Equal(t, "b", s.Classes(Cls("b")))
	assert.Equal(t, "c", s.Classes(Cls("c")))

	close(gate)
	require.NoError(t, s.Flush(context.Background()))

	// FIFO order, one at a time, each observing the previous mutations
	calls := rc.snapshot()
	require.Len(t, calls, 4)
	assert.Empty(t, calls[0])
	assert.Equal(t, []string{"a"}, calls[1])
	assert.Equal(t, []string{"a", "b"}, calls[2])
	assert.Equal(t, []string{"a", "b", "c"}, calls[3])
}

func TestActiveSubset(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	out := s.Classes(Cls("a b"), Toggles(map[string]bool{"c": true, "d": false}))
	assert.Equal(t, "a b c", out)

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Known(), "inactive candidates still compile")

	calls := rc.snapshot()
	require.Len(t, calls, 2)
	assert.Equal(t, []string{"a", "b", "c", "d"}, calls[1])
}

func TestNilItemsIgnored(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	assert.Equal(t, "x", s.Classes(nil, nil, Cls("x")))
	assert.Equal(t, "", s.Classes(nil))

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{"x"}, s.Known())
}

func TestReturnedStringNotDeduplicated(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	assert.Equal(t, "x x x", s.Classes(Cls("x x"), Cls("x")))

	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{"x"}, s.Known(), "registry deduplicates even when the output string does not")
}

func TestUnsupportedResource(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	err := s.Initialize(context.Background(), `@import "not-a-thing";`)
	require.Error(t, err)

	var resErr *UnsupportedResourceError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "not-a-thing", resErr.Identifier)
	assert.Contains(t, err.Error(), "not-a-thing")
}

func TestUnsupportedExtension(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	err := s.Initialize(context.Background(), `@plugin "typography";`)
	require.Error(t, err)

	var extErr *UnsupportedExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "typography", extErr.Identifier)
}

func TestFullRecompilation(t *testing.T) {
	rc := &recordingCompiler{}
	s := newTestSession(t, rc)

	s.Classes(Cls("a b"))
	require.NoError(t, s.Flush(context.Background()))
	s.Classes(Cls("c"))
	require.NoError(t, s.Flush(context.Background()))

	calls := rc.snapshot()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"a", "b", "c"}, calls[2], "build receives the full registry, not the diff")
}

func TestFailureIsolation(t *testing.T) {
	rc := &recordingCompiler{}
	var captured *BuildError
	s := New(Options{
		NewCompiler:  func(source string) (Compiler, error) { return rc, nil },
		OnBuildError: func(err *BuildError) { captured = err },
		Logger:       discardLogger(),
	})

	require.NoError(t, s.Initialize(context.Background(), ""))

	boom := errors.New("boom")
	rc.setErr(boom)
	s.Classes(Cls("a"))
	require.NoError(t, s.Flush(context.Background()), "a failed task does not fail the barrier")

	require.NotNil(t, captured)
	assert.ErrorIs(t, captured, boom)
	assert.Contains(t, captured.Error(), "build task")

	// The queue keeps accepting and running tasks
	rc.setErr(nil)
	s.Classes(Cls("b"))
	require.NoError(t, s.Flush(context.Background()))

	calls := rc.snapshot()
	assert.Equal(t, []string{"a", "b"}, calls[len(calls)-1])
}

func TestPanicRecovery(t *testing.T) {
	builds := 0
	var captured *BuildError
	s := New(Options{
		NewCompiler: func(source string) (Compiler, error) {
			return compilerFunc(func(classNames []string) (string, error) {
				builds++
				if builds == 2 {
					panic("compiler exploded")
				}
				return "", nil
			}), nil
		},
		OnBuildError: func(err *BuildError) { captured = err },
		Logger:       discardLogger(),
	})

	s.Classes(Cls("a"))
	require.NoError(t, s.Flush(context.Background()))

	require.NotNil(t, captured)
	assert.Contains(t, captured.Error(), "compiler exploded")

	s.Classes(Cls("b"))
	require.NoError(t, s.Flush(context.Background()))
	assert.Equal(t, []string{"a", "b"}, s.Known())
}

func TestSinkCreatedOnce(t *testing.T) {
	rc := &recordingCompiler{}
	made := 0
	s := New(Options{
		NewCompiler: func(source string) (Compiler, error) { return rc, nil },
		NewSink:     func() Sink { made++; return NewMemorySink() },
		Logger:      discardLogger(),
	})

	assert.Nil(t, s.Sink(), "no sink before the first initialize")

	require.NoError(t, s.Initialize(context.Background(), ""))
	first := s.Sink()
	require.NotNil(t, first)

	require.NoError(t, s.Initialize(context.Background(), "reinitialized"))
	assert.Same(t, first, s.Sink())
	assert.Equal(t, 1, made)
}

func TestInitializeAtomicSwap(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	s.Classes(Cls("flex"))
	require.NoError(t, s.Flush(context.Background()))

	sink := s.Sink().(*MemorySink)
	before := sink.CSS()
	assert.Contains(t, before, ".flex {")

	// A failing initialize leaves the previous compiler and sink untouched
	err := s.Initialize(context.Background(), `@import "bogus";`)
	require.Error(t, err)
	assert.Equal(t, before, sink.CSS())

	s.Classes(Cls("hidden"))
	require.NoError(t, s.Flush(context.Background()))
	after := sink.CSS()
	assert.Contains(t, after, ".flex {")
	assert.Contains(t, after, ".hidden {")
}

func TestInitializeRebuildsRegistry(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	s.Classes(Cls("flex"))
	require.NoError(t, s.Flush(context.Background()))

	require.NoError(t, s.Initialize(context.Background(), `@theme { --spacing: 0.5rem; }`))

	css := s.Sink().(*MemorySink).CSS()
	assert.Contains(t, css, "--spacing: 0.5rem;")
	assert.Contains(t, css, ".flex {", "known classes recompile through the new compiler")
	assert.NotContains(t, css, "--color-blue-500", "the default theme is fully replaced")
}

func TestReset(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	s.Classes(Cls("flex"))
	require.NoError(t, s.Flush(context.Background()))
	sink := s.Sink().(*MemorySink)
	require.Contains(t, sink.CSS(), ".flex {")

	require.NoError(t, s.Reset(context.Background()))
	assert.Empty(t, s.Known())
	assert.Contains(t, sink.CSS(), ".flex {", "sink keeps its content across Reset")

	// The next build auto-initializes again and compiles from scratch
	s.Classes(Cls("hidden"))
	require.NoError(t, s.Flush(context.Background()))
	assert.Same(t, sink, s.Sink().(*MemorySink))
	assert.Contains(t, sink.CSS(), ".hidden {")
	assert.NotContains(t, sink.CSS(), ".flex {")
}

func TestDefaultEndToEnd(t *testing.T) {
	s := New(Options{Logger: discardLogger()})

	out := s.Classes(
		Cls("flex items-center gap-2"),
		KV("bg-blue-500 text-white", true),
		KV("hidden", false),
	)
	assert.Equal(t, "flex items-center gap-2 bg-blue-500 text-white", out)
	require.NoError(t, s.Flush(context.Background()))

	sink, ok := s.Sink().(*MemorySink)
	require.True(t, ok)
	css := sink.CSS()

	// Base ruleset from the embedded bundle
	assert.Contains(t, css, ":root {")
	assert.Contains(t, css, "--color-blue-500: #3b82f6;")
	assert.Contains(t, css, "box-sizing: border-box")
	assert.Contains(t, css, ".sr-only")

	// Compiled utilities, inactive candidates included
	assert.Contains(t, css, ".flex {")
	assert.Contains(t, css, ".items-center {")
	assert.Contains(t, css, "background-color: var(--color-blue-500);")
	assert.Contains(t, css, "color: var(--color-white);")
	assert.Contains(t, css, ".hidden {")

	assert.Greater(t, sink.Revision(), uint64(0))
}
