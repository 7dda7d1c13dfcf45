package livecss

import (
	"embed"
	"fmt"
	"path"
	"strings"
)

//go:embed css/*.css
var cssFS embed.FS

// DefaultSource is the stylesheet compiled when no custom CSS is supplied.
// It pulls in the whole built-in ruleset: preflight, theme, utilities.
const DefaultSource = `@import "livecss";`

// resourceAliases maps every recognized @import identifier to its embedded
// file. The table is closed; anything outside it is an unsupported resource.
var resourceAliases = map[string]string{
	"livecss":           "css/index.css",
	"livecss/index.css": "css/index.css",
	"./index.css":       "css/index.css",

	"livecss/preflight":     "css/preflight.css",
	"livecss/preflight.css": "css/preflight.css",
	"./preflight.css":       "css/preflight.css",

	"livecss/theme":     "css/theme.css",
	"livecss/theme.css": "css/theme.css",
	"./theme.css":       "css/theme.css",

	"livecss/utilities":     "css/utilities.css",
	"livecss/utilities.css": "css/utilities.css",
	"./utilities.css":       "css/utilities.css",
}

// resolved is one looked-up resource ready for the engine.
type resolved struct {
	path    string
	base    string
	content string
}

// resolveResource maps an @import identifier to embedded content. Relative
// spellings are also tried against the importing stylesheet's base path, so
// `@import "./theme.css"` works from inside the bundle.
func resolveResource(identifier, basePath string) (resolved, error) {
	if file, ok := resourceAliases[identifier]; ok {
		return loadResource(file)
	}
	if basePath != "" && strings.HasPrefix(identifier, "./") {
		joined := path.Join(basePath, identifier[2:])
		if file, ok := resourceAliases[joined]; ok {
			return loadResource(file)
		}
	}
	return resolved{}, &UnsupportedResourceError{Identifier: identifier}
}

// resolveModule is the companion for @plugin and @config directives. It
// fails unconditionally.
func resolveModule(identifier, basePath string) error {
	return &UnsupportedExtensionError{Identifier: identifier}
}

func loadResource(file string) (resolved, error) {
	content, err := cssFS.ReadFile(file)
	if err != nil {
		return resolved{}, fmt.Errorf("read embedded %s: %w", file, err)
	}
	return resolved{path: file, base: "livecss", content: string(content)}, nil
}
