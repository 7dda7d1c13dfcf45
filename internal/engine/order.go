package engine

import "strings"

// Weight bands group rules by what they affect so the stylesheet reads
// layout first and effects last, stable across rebuilds.
const (
	weightLayout     = 0
	weightSpacing    = 100
	weightSizing     = 200
	weightTypography = 300
	weightVisual     = 400
	weightEffects    = 500
)

// propertyWeights maps CSS property names to weight bands
var propertyWeights = map[string]int{
	// Layout
	"display":               weightLayout,
	"position":              weightLayout,
	"inset":                 weightLayout,
	"top":                   weightLayout,
	"right":                 weightLayout,
	"bottom":                weightLayout,
	"left":                  weightLayout,
	"z-index":               weightLayout,
	"flex":                  weightLayout,
	"flex-direction":        weightLayout,
	"flex-wrap":             weightLayout,
	"flex-grow":             weightLayout,
	"flex-shrink":           weightLayout,
	"flex-basis":            weightLayout,
	"grid-template-columns": weightLayout,
	"grid-template-rows":    weightLayout,
	"grid-column":           weightLayout,
	"grid-row":              weightLayout,
	"grid-auto-flow":        weightLayout,
	"justify-content":       weightLayout,
	"align-items":           weightLayout,
	"align-self":            weightLayout,
	"align-content":         weightLayout,
	"overflow":              weightLayout,
	"overflow-x":            weightLayout,
	"overflow-y":            weightLayout,
	"object-fit":            weightLayout,
	"object-position":       weightLayout,
	"isolation":             weightLayout,
	"visibility":            weightLayout,

	// Spacing
	"gap":            weightSpacing,
	"row-gap":        weightSpacing,
	"column-gap":     weightSpacing,
	"padding":        weightSpacing,
	"padding-top":    weightSpacing,
	"padding-right":  weightSpacing,
	"padding-bottom": weightSpacing,
	"padding-left":   weightSpacing,
	"margin":         weightSpacing,
	"margin-top":     weightSpacing,
	"margin-right":   weightSpacing,
	"margin-bottom":  weightSpacing,
	"margin-left":    weightSpacing,

	// Sizing
	"width":      weightSizing,
	"height":     weightSizing,
	"min-width":  weightSizing,
	"min-height": weightSizing,
	"max-width":  weightSizing,
	"max-height": weightSizing,

	// Typography
	"font-family":          weightTypography,
	"font-size":            weightTypography,
	"font-weight":          weightTypography,
	"font-style":           weightTypography,
	"line-height":          weightTypography,
	"letter-spacing":       weightTypography,
	"text-align":           weightTypography,
	"text-decoration-line": weightTypography,
	"text-transform":       weightTypography,
	"text-overflow":        weightTypography,
	"white-space":          weightTypography,
	"word-break":           weightTypography,
	"overflow-wrap":        weightTypography,
	"list-style-type":      weightTypography,

	// Visual
	"color":            weightVisual,
	"background-color": weightVisual,
	"border":           weightVisual,
	"border-width":     weightVisual,
	"border-style":     weightVisual,
	"border-color":     weightVisual,
	"border-radius":    weightVisual,
	"outline":          weightVisual,
	"outline-offset":   weightVisual,
	"box-shadow":       weightVisual,
	"opacity":          weightVisual,
	"fill":             weightVisual,
	"stroke":           weightVisual,

	// Effects
	"transition":                 weightEffects,
	"transition-property":        weightEffects,
	"transition-duration":        weightEffects,
	"transition-timing-function": weightEffects,
	"transform":                  weightEffects,
	"animation":                  weightEffects,
	"filter":                     weightEffects,
	"backdrop-filter":            weightEffects,
	"cursor":                     weightEffects,
	"user-select":                weightEffects,
	"pointer-events":             weightEffects,
	"appearance":                 weightEffects,
}

// propertyWeight determines the weight band of a CSS property
func propertyWeight(name string) int {
	// Check exact match
	if w, exists := propertyWeights[name]; exists {
		return w
	}

	// Vendor-prefixed properties sort with typography smoothing
	if strings.HasPrefix(name, "-webkit-") || strings.HasPrefix(name, "-moz-") {
		return weightTypography
	}

	// Check for flex-* and grid-* properties (catch-all for flex/grid)
	if strings.HasPrefix(name, "flex-") || strings.HasPrefix(name, "grid-") {
		return weightLayout
	}

	// Check for border-* properties
	if strings.HasPrefix(name, "border-") {
		return weightVisual
	}

	// Check for padding-* and margin-* properties
	if strings.HasPrefix(name, "padding-") || strings.HasPrefix(name, "margin-") {
		return weightSpacing
	}

	// Default to Layout for unknown properties
	return weightLayout
}

// ruleWeight is the weight of a rule's first declaration. Utilities emit
// related properties together, so the first one is representative.
func ruleWeight(decls []decl) int {
	if len(decls) == 0 {
		return weightLayout
	}
	return propertyWeight(decls[0].prop)
}
