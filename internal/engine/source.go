package engine

import (
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// maxImportDepth bounds @import nesting so a resolver that hands back
// self-importing content cannot recurse forever.
const maxImportDepth = 8

// loader flattens a stylesheet source: @import targets are resolved and
// spliced in place, @theme declarations are collected as design tokens,
// @plugin and @config are delegated to the module resolver, and everything
// else passes through verbatim.
type loader struct {
	opts    Options
	tokens  map[string]string
	out     strings.Builder
	visited map[string]bool // resolved paths already inlined once
	classes map[string]bool // class selectors seen in passthrough CSS
}

func newLoader(opts Options) *loader {
	return &loader{
		opts:    opts,
		tokens:  make(map[string]string),
		visited: make(map[string]bool),
		classes: make(map[string]bool),
	}
}

func (ld *loader) load(src Source) error {
	return ld.walk(src, 0)
}

func (ld *loader) prelude() string {
	return strings.TrimSpace(ld.out.String())
}

func (ld *loader) walk(src Source, depth int) error {
	if depth > maxImportDepth {
		return fmt.Errorf("import nesting deeper than %d at %s", maxImportDepth, src.Path)
	}

	lexer := css.NewLexer(parse.NewInputString(src.Content))

	prevDot := false
	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken {
			// ErrorToken at EOF is normal - just break
			break
		}

		if tt == css.AtKeywordToken {
			switch string(text) {
			case "@import":
				if err := ld.handleImport(lexer, src, depth); err != nil {
					return err
				}
				continue
			case "@theme":
				ld.handleThemeBlock(lexer)
				continue
			case "@plugin", "@config":
				if err := ld.handleModule(lexer, src, string(text)); err != nil {
					return err
				}
				continue
			}
		}

		// A "." delimiter followed by an identifier is a class selector.
		// Numbers like .5em lex as single dimension tokens, so this does
		// not trip on declaration values.
		if prevDot && tt == css.IdentToken {
			ld.classes[string(text)] = true
		}
		prevDot = tt == css.DelimToken && string(text) == "."

		ld.out.Write(text)
	}

	return nil
}

// handleImport reads the rest of an @import statement, resolves the target,
// and splices its content in place of the statement.
func (ld *loader) handleImport(lexer *css.Lexer, src Source, depth int) error {
	identifier := ""
	found := false

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken || tt == css.SemicolonToken {
			break
		}
		switch tt {
		case css.StringToken:
			identifier = unquote(string(text))
			found = true
		case css.URLToken:
			identifier = unquote(trimURL(string(text)))
			found = true
		}
	}

	if !found {
		return fmt.Errorf("@import without a target in %s", src.Path)
	}
	if ld.opts.Resolve == nil {
		return fmt.Errorf("import %q: no resolver configured", identifier)
	}

	resolved, err := ld.opts.Resolve(identifier, src.Base)
	if err != nil {
		return fmt.Errorf("import %q: %w", identifier, err)
	}

	if ld.visited[resolved.Path] {
		return nil
	}
	ld.visited[resolved.Path] = true

	return ld.walk(resolved, depth+1)
}

// handleModule reads a @plugin or @config statement and delegates to the
// module resolver, which decides whether such extensions are available.
func (ld *loader) handleModule(lexer *css.Lexer, src Source, directive string) error {
	identifier := ""

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken || tt == css.SemicolonToken {
			break
		}
		if tt == css.StringToken {
			identifier = unquote(string(text))
		}
	}

	if ld.opts.ResolveModule == nil {
		return fmt.Errorf("%s %q: module loading is not supported", directive, identifier)
	}
	if err := ld.opts.ResolveModule(identifier, src.Base); err != nil {
		return fmt.Errorf("%s %q: %w", directive, identifier, err)
	}
	return nil
}

// handleThemeBlock reads --token: value declarations until the closing
// brace. Token names are stored without their -- prefix.
func (ld *loader) handleThemeBlock(lexer *css.Lexer) {
	// Skip ahead to the opening brace
	for {
		tt, _ := lexer.Next()
		if tt == css.ErrorToken || tt == css.SemicolonToken {
			return
		}
		if tt == css.LeftBraceToken {
			break
		}
	}

	var currentProp string
	var currentVal []string

	flush := func() {
		if currentProp != "" && len(currentVal) > 0 {
			name := strings.TrimPrefix(currentProp, "--")
			ld.tokens[name] = strings.TrimSpace(strings.Join(currentVal, ""))
		}
		currentProp = ""
		currentVal = nil
	}

	for {
		tt, text := lexer.Next()
		if tt == css.ErrorToken || tt == css.RightBraceToken {
			flush()
			return
		}

		switch {
		case currentProp == "" && isCustomProperty(tt, text):
			currentProp = string(text)
		case tt == css.ColonToken && currentProp != "" && len(currentVal) == 0:
			// Separator between property and value
		case tt == css.SemicolonToken:
			flush()
		case currentProp != "":
			currentVal = append(currentVal, string(text))
		}
	}
}

func isCustomProperty(tt css.TokenType, text []byte) bool {
	if tt == css.CustomPropertyNameToken {
		return true
	}
	return tt == css.IdentToken && strings.HasPrefix(string(text), "--")
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

func trimURL(s string) string {
	s = strings.TrimPrefix(s, "url(")
	s = strings.TrimSuffix(s, ")")
	return strings.TrimSpace(s)
}
