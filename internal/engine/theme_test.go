package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpacingScale(t *testing.T) {
	th := newTheme(map[string]string{"spacing": "0.25rem"})

	tests := []struct {
		raw  string
		neg  bool
		want string
		ok   bool
	}{
		{"0", false, "0", true},
		{"0", true, "0", true},
		{"px", false, "1px", true},
		{"px", true, "-1px", true},
		{"4", false, "calc(var(--spacing) * 4)", true},
		{"4", true, "calc(var(--spacing) * -4)", true},
		{"0.5", false, "calc(var(--spacing) * 0.5)", true},
		{"full", false, "100%", true},
		{"1/2", false, "50%", true},
		{"1/3", false, "33.333333%", true},
		{"2/3", true, "-66.666667%", true},
		{"3/4", false, "75%", true},
		{"1/0", false, "", false},
		{"auto", false, "", false},
		{"-4", false, "", false},
		{"abc", false, "", false},
		{"", false, "", false},
	}

	for _, tt := range tests {
		name := tt.raw
		if tt.neg {
			name = "-" + name
		}
		t.Run(name, func(t *testing.T) {
			got, ok := th.Spacing(tt.raw, tt.neg)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpacingWithoutUnit(t *testing.T) {
	th := newTheme(map[string]string{})

	// Keyword values resolve without the --spacing token, multipliers do not
	_, ok := th.Spacing("4", false)
	assert.False(t, ok)

	got, ok := th.Spacing("0", false)
	assert.True(t, ok)
	assert.Equal(t, "0", got)

	got, ok = th.Spacing("px", false)
	assert.True(t, ok)
	assert.Equal(t, "1px", got)
}

func TestBreakpointsSortedByWidth(t *testing.T) {
	th := newTheme(map[string]string{
		"breakpoint-lg": "1024px",
		"breakpoint-sm": "640px",
		"breakpoint-md": "768px",
	})

	assert.Equal(t, []string{"sm", "md", "lg"}, th.breakpoints)
	assert.Equal(t, 0, th.breakpointIndex("sm"))
	assert.Equal(t, 2, th.breakpointIndex("lg"))
	assert.Equal(t, -1, th.breakpointIndex("xs"))
}

func TestThemeLookups(t *testing.T) {
	th := newTheme(map[string]string{
		"color-red-500": "#ef4444",
		"text-sm":       "0.875rem",
		"font-sans":     "ui-sans-serif, sans-serif",
		"radius":        "0.25rem",
		"radius-lg":     "0.5rem",
		"shadow":        "0 1px 2px rgb(0 0 0 / 0.05)",
	})

	tests := []struct {
		name   string
		lookup func() (string, bool)
		want   string
	}{
		{"color", func() (string, bool) { return th.Color("red-500") }, "var(--color-red-500)"},
		{"font size", func() (string, bool) { return th.FontSize("sm") }, "var(--text-sm)"},
		{"font family", func() (string, bool) { return th.FontFamily("sans") }, "var(--font-sans)"},
		{"bare radius", func() (string, bool) { return th.Radius("") }, "var(--radius)"},
		{"named radius", func() (string, bool) { return th.Radius("lg") }, "var(--radius-lg)"},
		{"bare shadow", func() (string, bool) { return th.Shadow("") }, "var(--shadow)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.lookup()
			assert.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := th.Color("missing")
	assert.False(t, ok)
	_, ok = th.Shadow("xl")
	assert.False(t, ok)
}
