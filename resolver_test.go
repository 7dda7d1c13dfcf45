package livecss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveResourceAliases(t *testing.T) {
	tests := []struct {
		identifier string
		wantPath   string
	}{
		{"livecss", "css/index.css"},
		{"livecss/index.css", "css/index.css"},
		{"./index.css", "css/index.css"},
		{"livecss/preflight", "css/preflight.css"},
		{"livecss/preflight.css", "css/preflight.css"},
		{"./preflight.css", "css/preflight.css"},
		{"livecss/theme", "css/theme.css"},
		{"livecss/theme.css", "css/theme.css"},
		{"./theme.css", "css/theme.css"},
		{"livecss/utilities", "css/utilities.css"},
		{"livecss/utilities.css", "css/utilities.css"},
		{"./utilities.css", "css/utilities.css"},
	}

	for _, tt := range tests {
		t.Run(tt.identifier, func(t *testing.T) {
			r, err := resolveResource(tt.identifier, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantPath, r.path)
			assert.Equal(t, "livecss", r.base)
			assert.NotEmpty(t, r.content)
		})
	}
}

func TestResolveResourceRelativeToBase(t *testing.T) {
	r, err := resolveResource("./theme.css", "livecss")
	require.NoError(t, err)
	assert.Equal(t, "css/theme.css", r.path)
}

func TestResolveResourceUnknown(t *testing.T) {
	tests := []string{
		"tailwindcss",
		"livecss/colors",
		"../escape.css",
		"preflight", // bare sub-resource names are not aliases
		"",
	}

	for _, identifier := range tests {
		t.Run(identifier, func(t *testing.T) {
			_, err := resolveResource(identifier, "")
			require.Error(t, err)

			var resErr *UnsupportedResourceError
			require.ErrorAs(t, err, &resErr)
			assert.Equal(t, identifier, resErr.Identifier)
		})
	}
}

func TestResolveModuleAlwaysFails(t *testing.T) {
	err := resolveModule("tailwindcss-animate", "")
	require.Error(t, err)

	var extErr *UnsupportedExtensionError
	require.ErrorAs(t, err, &extErr)
	assert.Equal(t, "tailwindcss-animate", extErr.Identifier)
	assert.Contains(t, err.Error(), "tailwindcss-animate")
}

func TestEmbeddedBundle(t *testing.T) {
	index, err := resolveResource("livecss", "")
	require.NoError(t, err)
	assert.Contains(t, index.content, `@import "livecss/preflight";`)
	assert.Contains(t, index.content, `@import "livecss/theme";`)
	assert.Contains(t, index.content, `@import "livecss/utilities";`)

	theme, err := resolveResource("livecss/theme", "")
	require.NoError(t, err)
	assert.Contains(t, theme.content, "@theme {")
	assert.Contains(t, theme.content, "--spacing:")
	assert.Contains(t, theme.content, "--breakpoint-md:")
}
