package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportSplicing(t *testing.T) {
	resolve := func(identifier, base string) (Source, error) {
		if identifier == "base" {
			return Source{
				Path:    "base.css",
				Content: "@theme { --color-night: #111; }\n.reset { margin: 0; }",
			}, nil
		}
		return Source{}, fmt.Errorf("unknown resource %q", identifier)
	}

	e, err := New(`@import "base";`, Options{Resolve: resolve})
	require.NoError(t, err)

	out, err := e.Build([]string{"bg-night"})
	require.NoError(t, err)

	assert.Contains(t, out, "--color-night: #111;")
	assert.Contains(t, out, ".reset { margin: 0; }")
	assert.Contains(t, out, "background-color: var(--color-night);")
}

func TestImportedThemeMerges(t *testing.T) {
	resolve := func(identifier, base string) (Source, error) {
		return Source{
			Path:    "base.css",
			Content: "@theme { --color-night: #111; --color-day: #eee; }",
		}, nil
	}

	// A theme declared after the import wins over the imported value
	source := `@import "base";
@theme { --color-night: #000; }`

	e, err := New(source, Options{Resolve: resolve})
	require.NoError(t, err)

	out, err := e.Build(nil)
	require.NoError(t, err)

	assert.Contains(t, out, "--color-night: #000;")
	assert.Contains(t, out, "--color-day: #eee;")
	assert.NotContains(t, out, "#111")
}

func TestImportUnresolved(t *testing.T) {
	resolve := func(identifier, base string) (Source, error) {
		return Source{}, fmt.Errorf("unknown resource %q", identifier)
	}

	_, err := New(`@import "missing";`, Options{Resolve: resolve})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `import "missing"`)
}

func TestImportCycleResolvesOnce(t *testing.T) {
	calls := 0
	resolve := func(identifier, base string) (Source, error) {
		calls++
		return Source{
			Path:    "loop.css",
			Content: `@import "loop";` + "\n.looped { color: red; }",
		}, nil
	}

	e, err := New(`@import "loop";`, Options{Resolve: resolve})
	require.NoError(t, err)
	assert.Equal(t, 2, calls, "second resolution hits the visited set")

	out, err := e.Build(nil)
	require.NoError(t, err)
	assert.Contains(t, out, ".looped")
}

func TestImportDepthLimit(t *testing.T) {
	n := 0
	resolve := func(identifier, base string) (Source, error) {
		n++
		return Source{
			Path:    fmt.Sprintf("f%d.css", n),
			Content: `@import "next";`,
		}, nil
	}

	_, err := New(`@import "next";`, Options{Resolve: resolve})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "import nesting")
}

func TestModuleDirectives(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "plugin",
			source: `@plugin "tailwindcss-animate";`,
			want:   `@plugin "tailwindcss-animate"`,
		},
		{
			name:   "config",
			source: `@config "./tailwind.config.js";`,
			want:   `@config "./tailwind.config.js"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolveModule := func(identifier, base string) error {
				return fmt.Errorf("module loading is not available")
			}
			_, err := New(tt.source, Options{ResolveModule: resolveModule})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "module loading is not available")
		})
	}
}

func TestPreludePassthrough(t *testing.T) {
	e, err := New(`.btn { color: red; }`, Options{})
	require.NoError(t, err)

	out, err := e.Build([]string{"flex"})
	require.NoError(t, err)

	want := `.btn { color: red; }
.flex {
  display: flex;
}
`
	assert.Equal(t, want, out)
}

func TestRootBlockSorted(t *testing.T) {
	source := `@theme {
	--spacing: 0.25rem;
	--breakpoint-sm: 640px;
	--color-ink: #222;
}`
	e, err := New(source, Options{})
	require.NoError(t, err)

	out, err := e.Build(nil)
	require.NoError(t, err)

	want := `:root {
  --breakpoint-sm: 640px;
  --color-ink: #222;
  --spacing: 0.25rem;
}
`
	assert.Equal(t, want, out)
}

func TestDefinedClasses(t *testing.T) {
	source := `.btn { color: red; }
.card__header, a.nav-link:hover { font-weight: 600; }
p { margin: .5em; }`
	e, err := New(source, Options{})
	require.NoError(t, err)

	assert.True(t, e.Defined("btn"))
	assert.True(t, e.Defined("card__header"))
	assert.True(t, e.Defined("nav-link"))

	assert.False(t, e.Defined("flex"), "generated utilities are not prelude selectors")
	assert.False(t, e.Defined("5em"), "dimension values are not class selectors")
	assert.False(t, e.Defined("p"))
}

func TestDefinedClassesFromImport(t *testing.T) {
	resolve := func(identifier, base string) (Source, error) {
		return Source{Path: identifier, Content: `.imported { color: blue; }`}, nil
	}
	e, err := New(`@import "components";`, Options{Resolve: resolve})
	require.NoError(t, err)

	assert.True(t, e.Defined("imported"))
}
