package engine

import (
	"sort"
	"strconv"
	"strings"
)

// Theme holds the design tokens declared in @theme blocks. Utilities that
// resolve through the theme emit var() references so generated rules stay
// linked to the :root declarations.
type Theme struct {
	values      map[string]string
	breakpoints []string // tier names sorted narrowest to widest
}

func newTheme(values map[string]string) *Theme {
	t := &Theme{values: values}
	t.breakpoints = t.sortedBreakpoints()
	return t
}

func (t *Theme) lookup(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

func varRef(key string) string {
	return "var(--" + key + ")"
}

// Color resolves a color-* token, e.g. "red-500".
func (t *Theme) Color(name string) (string, bool) {
	key := "color-" + name
	if _, ok := t.lookup(key); !ok {
		return "", false
	}
	return varRef(key), true
}

// FontSize resolves a text-* token, e.g. "sm".
func (t *Theme) FontSize(name string) (string, bool) {
	key := "text-" + name
	if _, ok := t.lookup(key); !ok {
		return "", false
	}
	return varRef(key), true
}

// FontFamily resolves a font-* token, e.g. "sans".
func (t *Theme) FontFamily(name string) (string, bool) {
	key := "font-" + name
	if _, ok := t.lookup(key); !ok {
		return "", false
	}
	return varRef(key), true
}

// Radius resolves a radius token. The empty name is the bare --radius.
func (t *Theme) Radius(name string) (string, bool) {
	key := "radius"
	if name != "" {
		key += "-" + name
	}
	if _, ok := t.lookup(key); !ok {
		return "", false
	}
	return varRef(key), true
}

// Shadow resolves a shadow token. The empty name is the bare --shadow.
func (t *Theme) Shadow(name string) (string, bool) {
	key := "shadow"
	if name != "" {
		key += "-" + name
	}
	if _, ok := t.lookup(key); !ok {
		return "", false
	}
	return varRef(key), true
}

// Spacing resolves a spacing-scale suffix: bare multipliers scale the
// --spacing unit, "px" is one pixel, fractions become percentages. A
// negative resolution flips the sign.
func (t *Theme) Spacing(raw string, neg bool) (string, bool) {
	if raw == "" || raw[0] == '-' || raw[0] == '+' {
		return "", false
	}

	sign := ""
	if neg {
		sign = "-"
	}

	switch raw {
	case "0":
		return "0", true
	case "px":
		return sign + "1px", true
	case "full":
		return sign + "100%", true
	}

	if pct, ok := fraction(raw); ok {
		return sign + pct, true
	}

	if _, err := strconv.ParseFloat(raw, 64); err == nil {
		if _, ok := t.lookup("spacing"); !ok {
			return "", false
		}
		return "calc(var(--spacing) * " + sign + raw + ")", true
	}

	return "", false
}

// Breakpoint returns the min-width value for a responsive tier name.
func (t *Theme) Breakpoint(name string) (string, bool) {
	return t.lookup("breakpoint-" + name)
}

// breakpointIndex returns the tier's position narrowest-first, or -1.
func (t *Theme) breakpointIndex(name string) int {
	for i, n := range t.breakpoints {
		if n == name {
			return i
		}
	}
	return -1
}

func (t *Theme) sortedBreakpoints() []string {
	type tier struct {
		name string
		px   float64
	}
	var tiers []tier
	for key, value := range t.values {
		name, ok := strings.CutPrefix(key, "breakpoint-")
		if !ok {
			continue
		}
		px, _ := strconv.ParseFloat(strings.TrimSuffix(value, "px"), 64)
		tiers = append(tiers, tier{name: name, px: px})
	}

	sort.Slice(tiers, func(i, j int) bool {
		if tiers[i].px != tiers[j].px {
			return tiers[i].px < tiers[j].px
		}
		return tiers[i].name < tiers[j].name
	})

	names := make([]string, len(tiers))
	for i, tr := range tiers {
		names[i] = tr.name
	}
	return names
}

// rootRule emits the :root block carrying every theme token.
func (t *Theme) rootRule() string {
	if len(t.values) == 0 {
		return ""
	}

	// Sort keys for determinism
	keys := make([]string, 0, len(t.values))
	for k := range t.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, k := range keys {
		b.WriteString("  --")
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(t.values[k])
		b.WriteString(";\n")
	}
	b.WriteString("}\n")
	return b.String()
}

// fraction converts "1/2" style suffixes to percentages.
func fraction(raw string) (string, bool) {
	num, den, ok := strings.Cut(raw, "/")
	if !ok {
		return "", false
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return "", false
	}

	v := strconv.FormatFloat(n/d*100, 'f', 6, 64)
	v = strings.TrimRight(v, "0")
	v = strings.TrimRight(v, ".")
	return v + "%", true
}
