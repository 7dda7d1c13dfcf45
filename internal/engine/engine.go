// Package engine compiles utility class names into CSS rules.
//
// An Engine is constructed once from a stylesheet source and is a pure
// function afterwards: Build always returns byte-identical output for the
// same set of class names, regardless of input order. Class names the
// engine does not recognize are skipped silently; they may be ordinary CSS
// classes defined elsewhere.
package engine

import (
	"sort"
	"strings"
)

// Source is one resolvable stylesheet, returned by a ResolveFunc.
type Source struct {
	Path    string
	Base    string
	Content string
}

// ResolveFunc maps an @import identifier to its content. The base argument
// is the base path of the importing stylesheet.
type ResolveFunc func(identifier, base string) (Source, error)

// ModuleFunc is consulted for @plugin and @config directives.
type ModuleFunc func(identifier, base string) error

// Options configures engine construction.
type Options struct {
	Resolve       ResolveFunc
	ResolveModule ModuleFunc
}

// Engine generates CSS for utility class names against a fixed theme and
// prelude established at construction time.
type Engine struct {
	theme   *Theme
	prelude string
	defined map[string]bool
}

// New parses the stylesheet source, splicing @import targets through
// opts.Resolve and collecting @theme declarations into the engine's theme.
// Any resolution failure aborts construction.
func New(source string, opts Options) (*Engine, error) {
	ld := newLoader(opts)
	if err := ld.load(Source{Path: "input.css", Content: source}); err != nil {
		return nil, err
	}

	return &Engine{
		theme:   newTheme(ld.tokens),
		prelude: ld.prelude(),
		defined: ld.classes,
	}, nil
}

// Build compiles the full class name set into a stylesheet. The output
// carries the theme's :root block first, then the prelude, then one rule
// per recognized class in deterministic order.
func (e *Engine) Build(classNames []string) (string, error) {
	rules := make([]rule, 0, len(classNames))
	for _, name := range classNames {
		r, ok := e.compileClass(name)
		if !ok {
			continue
		}
		rules = append(rules, r)
	}
	sortRules(rules)

	var b strings.Builder
	if root := e.theme.rootRule(); root != "" {
		b.WriteString(root)
	}
	if e.prelude != "" {
		b.WriteString(e.prelude)
		if !strings.HasSuffix(e.prelude, "\n") {
			b.WriteByte('\n')
		}
	}
	for i := range rules {
		writeRule(&b, rules[i])
	}

	return b.String(), nil
}

// Match reports whether the engine can generate a rule for the class name.
func (e *Engine) Match(className string) bool {
	_, ok := e.compileClass(className)
	return ok
}

// Defined reports whether the class appears as a selector in the
// stylesheet's plain CSS. Such classes produce no generated rule but are
// not typos either.
func (e *Engine) Defined(className string) bool {
	return e.defined[className]
}

// compileClass strips variant prefixes off the class name, compiles the
// remaining utility, and attaches the variants' selector and media wrappers.
func (e *Engine) compileClass(name string) (rule, bool) {
	base := name
	var pseudo strings.Builder
	var media []string
	order := 0

	for {
		idx := strings.Index(base, ":")
		if idx <= 0 || idx == len(base)-1 {
			break
		}
		v, ok := e.lookupVariant(base[:idx])
		if !ok {
			break
		}
		if v.media != "" {
			media = append(media, v.media)
		}
		if v.pseudo != "" {
			pseudo.WriteString(v.pseudo)
		}
		order += v.order
		base = base[idx+1:]
	}

	decls, ok := e.compileUtility(base)
	if !ok {
		return rule{}, false
	}

	return rule{
		class:  name,
		base:   base,
		pseudo: pseudo.String(),
		media:  media,
		decls:  decls,
		order:  order,
		weight: ruleWeight(decls),
	}, true
}

// rule is one compiled utility ready for emission.
type rule struct {
	class  string   // original class name, variants included
	base   string   // utility part with variants stripped
	pseudo string   // accumulated pseudo-class suffix
	media  []string // media conditions, outermost first
	decls  []decl
	order  int // variant ordering offset; base rules are 0
	weight int // property group weight within one order band
}

type decl struct {
	prop  string
	value string
}

// sortRules fixes the emission order: base rules first, then pseudo-class
// variants, then dark mode, then responsive tiers narrowest to widest.
// Within one band rules sort by property group, then name.
func sortRules(rules []rule) {
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].order != rules[j].order {
			return rules[i].order < rules[j].order
		}
		if rules[i].weight != rules[j].weight {
			return rules[i].weight < rules[j].weight
		}
		if rules[i].base != rules[j].base {
			return rules[i].base < rules[j].base
		}
		return rules[i].class < rules[j].class
	})
}

func writeRule(b *strings.Builder, r rule) {
	indent := ""
	for _, m := range r.media {
		b.WriteString(indent)
		b.WriteString("@media ")
		b.WriteString(m)
		b.WriteString(" {\n")
		indent += "  "
	}

	b.WriteString(indent)
	b.WriteString(".")
	b.WriteString(escapeClass(r.class))
	b.WriteString(r.pseudo)
	b.WriteString(" {\n")
	for _, d := range r.decls {
		b.WriteString(indent)
		b.WriteString("  ")
		b.WriteString(d.prop)
		b.WriteString(": ")
		b.WriteString(d.value)
		b.WriteString(";\n")
	}
	b.WriteString(indent)
	b.WriteString("}\n")

	for range r.media {
		indent = indent[:len(indent)-2]
		b.WriteString(indent)
		b.WriteString("}\n")
	}
}
