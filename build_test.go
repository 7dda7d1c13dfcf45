package livecss

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuild(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.templ"), []byte(`package web

templ Page() {
	<main class="flex items-center">
		<button class="p-4 flex">Go</button>
	</main>
}
`), 0o644))
	out := filepath.Join(dir, "dist", "app.css")

	res, err := Build(context.Background(), Config{
		ContentGlobs: []string{filepath.Join(dir, "**", "*.templ")},
		OutputFile:   out,
		Logger:       discardLogger(),
	})
	require.NoError(t, err)

	require.Equal(t, 1, res.FilesScanned)
	require.Equal(t, 4, res.ClassesFound)
	require.Equal(t, 3, res.UniqueClasses)
	require.Greater(t, res.RulesEmitted, 3)
	require.Empty(t, res.Warnings)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	css := string(data)
	require.Equal(t, res.Bytes, len(css))

	require.Contains(t, css, ":root {")
	require.Contains(t, css, "box-sizing: border-box")
	require.Contains(t, css, ".flex {")
	require.Contains(t, css, "display: flex;")
	require.Contains(t, css, ".items-center {")
	require.Contains(t, css, ".p-4 {")
}

func TestBuildCustomSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.templ"),
		[]byte(`<div class="p-2 bg-ink">`), 0o644))
	out := filepath.Join(dir, "app.css")

	res, err := Build(context.Background(), Config{
		ContentGlobs: []string{filepath.Join(dir, "*.templ")},
		Source: `@theme {
  --spacing: 0.25rem;
  --color-ink: #111827;
}`,
		OutputFile: out,
		Logger:     discardLogger(),
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.UniqueClasses)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	css := string(data)

	require.Contains(t, css, "--color-ink: #111827;")
	require.Contains(t, css, "background-color: var(--color-ink);")
	require.NotContains(t, css, "box-sizing")
}

func TestBuildSkipsUnknownClasses(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "view.templ"),
		[]byte(`<div class="flex totally-made-up">`), 0o644))
	out := filepath.Join(dir, "app.css")

	res, err := Build(context.Background(), Config{
		ContentGlobs: []string{filepath.Join(dir, "*.templ")},
		OutputFile:   out,
		Logger:       discardLogger(),
	})
	require.NoError(t, err)
	require.Equal(t, 2, res.UniqueClasses)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(data), ".flex {")
	require.NotContains(t, string(data), "totally-made-up")
}

func TestBuildValidatesConfig(t *testing.T) {
	_, err := Build(context.Background(), Config{ContentGlobs: []string{"*.go"}})
	require.Error(t, err)
	require.Contains(t, err.Error(), "output file")

	_, err = Build(context.Background(), Config{OutputFile: "out.css"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "content globs")
}

func TestCountRules(t *testing.T) {
	tests := []struct {
		name string
		css  string
		want int
	}{
		{
			name: "empty",
			css:  "",
			want: 0,
		},
		{
			name: "flat rules",
			css:  ".a {\n  color: red;\n}\n.b {\n  color: blue;\n}\n",
			want: 2,
		},
		{
			name: "media block counts once",
			css:  "@media (min-width: 768px) {\n  .a {\n    color: red;\n  }\n}\n",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, countRules(tt.css))
		})
	}
}
