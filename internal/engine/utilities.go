package engine

import (
	"strconv"
	"strings"
)

// compileUtility resolves a variant-free utility name to declarations.
// Static names win over functional forms so font-bold is a weight even
// though font-sans resolves through the theme.
func (e *Engine) compileUtility(name string) ([]decl, bool) {
	if decls, ok := staticUtilities[name]; ok {
		return decls, true
	}
	if decls, ok := e.arbitraryUtility(name); ok {
		return decls, true
	}
	return e.functionalUtility(name)
}

func d(prop, value string) decl {
	return decl{prop: prop, value: value}
}

var staticUtilities = map[string][]decl{
	// Display
	"block":        {d("display", "block")},
	"inline-block": {d("display", "inline-block")},
	"inline":       {d("display", "inline")},
	"flex":         {d("display", "flex")},
	"inline-flex":  {d("display", "inline-flex")},
	"grid":         {d("display", "grid")},
	"inline-grid":  {d("display", "inline-grid")},
	"contents":     {d("display", "contents")},
	"hidden":       {d("display", "none")},

	// Position
	"static":   {d("position", "static")},
	"fixed":    {d("position", "fixed")},
	"absolute": {d("position", "absolute")},
	"relative": {d("position", "relative")},
	"sticky":   {d("position", "sticky")},

	// Flexbox
	"flex-row":         {d("flex-direction", "row")},
	"flex-row-reverse": {d("flex-direction", "row-reverse")},
	"flex-col":         {d("flex-direction", "column")},
	"flex-col-reverse": {d("flex-direction", "column-reverse")},
	"flex-wrap":        {d("flex-wrap", "wrap")},
	"flex-nowrap":      {d("flex-wrap", "nowrap")},
	"flex-1":           {d("flex", "1 1 0%")},
	"flex-auto":        {d("flex", "1 1 auto")},
	"flex-initial":     {d("flex", "0 1 auto")},
	"flex-none":        {d("flex", "none")},
	"grow":             {d("flex-grow", "1")},
	"grow-0":           {d("flex-grow", "0")},
	"shrink":           {d("flex-shrink", "1")},
	"shrink-0":         {d("flex-shrink", "0")},

	// Alignment
	"items-start":     {d("align-items", "flex-start")},
	"items-end":       {d("align-items", "flex-end")},
	"items-center":    {d("align-items", "center")},
	"items-baseline":  {d("align-items", "baseline")},
	"items-stretch":   {d("align-items", "stretch")},
	"justify-start":   {d("justify-content", "flex-start")},
	"justify-end":     {d("justify-content", "flex-end")},
	"justify-center":  {d("justify-content", "center")},
	"justify-between": {d("justify-content", "space-between")},
	"justify-around":  {d("justify-content", "space-around")},
	"justify-evenly":  {d("justify-content", "space-evenly")},
	"self-auto":       {d("align-self", "auto")},
	"self-start":      {d("align-self", "flex-start")},
	"self-end":        {d("align-self", "flex-end")},
	"self-center":     {d("align-self", "center")},
	"self-stretch":    {d("align-self", "stretch")},

	// Grid flow
	"grid-flow-row": {d("grid-auto-flow", "row")},
	"grid-flow-col": {d("grid-auto-flow", "column")},

	// Sizing keywords
	"w-full":        {d("width", "100%")},
	"w-screen":      {d("width", "100vw")},
	"w-auto":        {d("width", "auto")},
	"w-fit":         {d("width", "fit-content")},
	"w-min":         {d("width", "min-content")},
	"w-max":         {d("width", "max-content")},
	"h-full":        {d("height", "100%")},
	"h-screen":      {d("height", "100vh")},
	"h-auto":        {d("height", "auto")},
	"size-full":     {d("width", "100%"), d("height", "100%")},
	"min-w-full":    {d("min-width", "100%")},
	"min-h-full":    {d("min-height", "100%")},
	"min-h-screen":  {d("min-height", "100vh")},
	"max-w-full":    {d("max-width", "100%")},
	"max-w-none":    {d("max-width", "none")},
	"max-h-full":    {d("max-height", "100%")},
	"max-h-screen":  {d("max-height", "100vh")},

	// Typography
	"text-left":       {d("text-align", "left")},
	"text-center":     {d("text-align", "center")},
	"text-right":      {d("text-align", "right")},
	"text-justify":    {d("text-align", "justify")},
	"font-thin":       {d("font-weight", "100")},
	"font-extralight": {d("font-weight", "200")},
	"font-light":      {d("font-weight", "300")},
	"font-normal":     {d("font-weight", "400")},
	"font-medium":     {d("font-weight", "500")},
	"font-semibold":   {d("font-weight", "600")},
	"font-bold":       {d("font-weight", "700")},
	"font-extrabold":  {d("font-weight", "800")},
	"font-black":      {d("font-weight", "900")},
	"italic":          {d("font-style", "italic")},
	"not-italic":      {d("font-style", "normal")},
	"underline":       {d("text-decoration-line", "underline")},
	"overline":        {d("text-decoration-line", "overline")},
	"line-through":    {d("text-decoration-line", "line-through")},
	"no-underline":    {d("text-decoration-line", "none")},
	"uppercase":       {d("text-transform", "uppercase")},
	"lowercase":       {d("text-transform", "lowercase")},
	"capitalize":      {d("text-transform", "capitalize")},
	"normal-case":     {d("text-transform", "none")},
	"leading-none":    {d("line-height", "1")},
	"leading-tight":   {d("line-height", "1.25")},
	"leading-snug":    {d("line-height", "1.375")},
	"leading-normal":  {d("line-height", "1.5")},
	"leading-relaxed": {d("line-height", "1.625")},
	"leading-loose":   {d("line-height", "2")},
	"tracking-tight":  {d("letter-spacing", "-0.025em")},
	"tracking-normal": {d("letter-spacing", "0em")},
	"tracking-wide":   {d("letter-spacing", "0.025em")},
	"antialiased": {
		d("-webkit-font-smoothing", "antialiased"),
		d("-moz-osx-font-smoothing", "grayscale"),
	},
	"truncate": {
		d("overflow", "hidden"),
		d("text-overflow", "ellipsis"),
		d("white-space", "nowrap"),
	},
	"whitespace-normal":   {d("white-space", "normal")},
	"whitespace-nowrap":   {d("white-space", "nowrap")},
	"whitespace-pre":      {d("white-space", "pre")},
	"whitespace-pre-wrap": {d("white-space", "pre-wrap")},
	"break-words":         {d("overflow-wrap", "break-word")},
	"break-all":           {d("word-break", "break-all")},
	"list-none":           {d("list-style-type", "none")},
	"list-disc":           {d("list-style-type", "disc")},
	"list-decimal":        {d("list-style-type", "decimal")},

	// Overflow
	"overflow-auto":     {d("overflow", "auto")},
	"overflow-hidden":   {d("overflow", "hidden")},
	"overflow-visible":  {d("overflow", "visible")},
	"overflow-scroll":   {d("overflow", "scroll")},
	"overflow-x-auto":   {d("overflow-x", "auto")},
	"overflow-y-auto":   {d("overflow-y", "auto")},
	"overflow-x-hidden": {d("overflow-x", "hidden")},
	"overflow-y-hidden": {d("overflow-y", "hidden")},

	// Borders
	"border":       {d("border-width", "1px")},
	"border-0":     {d("border-width", "0px")},
	"border-2":     {d("border-width", "2px")},
	"border-4":     {d("border-width", "4px")},
	"border-8":     {d("border-width", "8px")},
	"border-t":     {d("border-top-width", "1px")},
	"border-r":     {d("border-right-width", "1px")},
	"border-b":     {d("border-bottom-width", "1px")},
	"border-l":     {d("border-left-width", "1px")},
	"border-solid":  {d("border-style", "solid")},
	"border-dashed": {d("border-style", "dashed")},
	"border-dotted": {d("border-style", "dotted")},
	"border-none":   {d("border-style", "none")},
	"rounded-none":  {d("border-radius", "0px")},
	"rounded-full":  {d("border-radius", "9999px")},

	// Effects
	"shadow-none": {d("box-shadow", "none")},
	"outline-none": {
		d("outline", "2px solid transparent"),
		d("outline-offset", "2px"),
	},
	"transition": {
		d("transition-property", "color, background-color, border-color, opacity, box-shadow, transform"),
		d("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		d("transition-duration", "150ms"),
	},
	"transition-none": {d("transition-property", "none")},
	"transition-all": {
		d("transition-property", "all"),
		d("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		d("transition-duration", "150ms"),
	},
	"transition-colors": {
		d("transition-property", "color, background-color, border-color"),
		d("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		d("transition-duration", "150ms"),
	},
	"transition-opacity": {
		d("transition-property", "opacity"),
		d("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		d("transition-duration", "150ms"),
	},
	"transition-transform": {
		d("transition-property", "transform"),
		d("transition-timing-function", "cubic-bezier(0.4, 0, 0.2, 1)"),
		d("transition-duration", "150ms"),
	},

	// Interactivity
	"cursor-pointer":      {d("cursor", "pointer")},
	"cursor-default":      {d("cursor", "default")},
	"cursor-wait":         {d("cursor", "wait")},
	"cursor-text":         {d("cursor", "text")},
	"cursor-move":         {d("cursor", "move")},
	"cursor-not-allowed":  {d("cursor", "not-allowed")},
	"select-none":         {d("user-select", "none")},
	"select-text":         {d("user-select", "text")},
	"select-all":          {d("user-select", "all")},
	"select-auto":         {d("user-select", "auto")},
	"pointer-events-none": {d("pointer-events", "none")},
	"pointer-events-auto": {d("pointer-events", "auto")},

	// Misc
	"object-cover":   {d("object-fit", "cover")},
	"object-contain": {d("object-fit", "contain")},
	"object-fill":    {d("object-fit", "fill")},
	"object-center":  {d("object-position", "center")},
	"visible":        {d("visibility", "visible")},
	"invisible":      {d("visibility", "hidden")},
	"isolate":        {d("isolation", "isolate")},
	"z-auto":         {d("z-index", "auto")},
	"appearance-none": {d("appearance", "none")},
}

// functionalHandler resolves utilities of the form prefix-value. Handlers
// with longer prefixes come first so min-w-4 never hits the w handler.
type functionalHandler struct {
	prefix string
	apply  func(e *Engine, rest string, neg bool) ([]decl, bool)
}

var functionalHandlers = []functionalHandler{
	{"grid-cols", applyGridCols},
	{"col-span", applyColSpan},
	{"row-span", applyRowSpan},
	{"duration", applyDuration},
	{"opacity", applyOpacity},
	{"rounded", applyRounded},
	{"shadow", applyShadow},
	{"stroke", colorHandler("stroke")},
	{"border", colorHandler("border-color")},
	{"min-w", spacingHandler(false, "min-width")},
	{"min-h", spacingHandler(false, "min-height")},
	{"max-w", spacingHandler(false, "max-width")},
	{"max-h", spacingHandler(false, "max-height")},
	{"gap-x", spacingHandler(false, "column-gap")},
	{"gap-y", spacingHandler(false, "row-gap")},
	{"basis", spacingHandler(false, "flex-basis")},
	{"inset", spacingHandler(true, "inset")},
	{"bottom", spacingHandler(true, "bottom")},
	{"right", spacingHandler(true, "right")},
	{"left", spacingHandler(true, "left")},
	{"size", spacingHandler(false, "width", "height")},
	{"fill", colorHandler("fill")},
	{"text", applyText},
	{"font", applyFontFamily},
	{"gap", spacingHandler(false, "gap")},
	{"top", spacingHandler(true, "top")},
	{"px", spacingHandler(false, "padding-left", "padding-right")},
	{"py", spacingHandler(false, "padding-top", "padding-bottom")},
	{"pt", spacingHandler(false, "padding-top")},
	{"pr", spacingHandler(false, "padding-right")},
	{"pb", spacingHandler(false, "padding-bottom")},
	{"pl", spacingHandler(false, "padding-left")},
	{"mx", spacingHandler(true, "margin-left", "margin-right")},
	{"my", spacingHandler(true, "margin-top", "margin-bottom")},
	{"mt", spacingHandler(true, "margin-top")},
	{"mr", spacingHandler(true, "margin-right")},
	{"mb", spacingHandler(true, "margin-bottom")},
	{"ml", spacingHandler(true, "margin-left")},
	{"bg", colorHandler("background-color")},
	{"p", spacingHandler(false, "padding")},
	{"m", spacingHandler(true, "margin")},
	{"w", spacingHandler(false, "width")},
	{"h", spacingHandler(false, "height")},
	{"z", applyZIndex},
}

func (e *Engine) functionalUtility(name string) ([]decl, bool) {
	neg := strings.HasPrefix(name, "-")
	if neg {
		name = name[1:]
	}

	for _, h := range functionalHandlers {
		rest, ok := strings.CutPrefix(name, h.prefix+"-")
		if !ok {
			if name != h.prefix {
				continue
			}
			rest = ""
		}
		if decls, ok := h.apply(e, rest, neg); ok {
			return decls, true
		}
	}

	return nil, false
}

func declsFor(props []string, value string) []decl {
	decls := make([]decl, len(props))
	for i, p := range props {
		decls[i] = d(p, value)
	}
	return decls
}

// spacingHandler resolves the rest through the theme's spacing scale.
// Signed utilities admit negative values and the "auto" keyword; margins
// and offsets are signed, padding and sizing are not.
func spacingHandler(signed bool, props ...string) func(*Engine, string, bool) ([]decl, bool) {
	return func(e *Engine, rest string, neg bool) ([]decl, bool) {
		if rest == "" || (neg && !signed) {
			return nil, false
		}
		if rest == "auto" {
			if !signed || neg {
				return nil, false
			}
			return declsFor(props, "auto"), true
		}
		value, ok := e.theme.Spacing(rest, neg)
		if !ok {
			return nil, false
		}
		return declsFor(props, value), true
	}
}

func colorHandler(prop string) func(*Engine, string, bool) ([]decl, bool) {
	return func(e *Engine, rest string, neg bool) ([]decl, bool) {
		if neg || rest == "" {
			return nil, false
		}
		value, ok := e.theme.Color(rest)
		if !ok {
			return nil, false
		}
		return []decl{d(prop, value)}, true
	}
}

// applyText resolves text-* against font sizes first, then colors, so
// text-sm and text-red-500 both work.
func applyText(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg || rest == "" {
		return nil, false
	}
	if value, ok := e.theme.FontSize(rest); ok {
		return []decl{d("font-size", value)}, true
	}
	if value, ok := e.theme.Color(rest); ok {
		return []decl{d("color", value)}, true
	}
	return nil, false
}

func applyFontFamily(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg || rest == "" {
		return nil, false
	}
	value, ok := e.theme.FontFamily(rest)
	if !ok {
		return nil, false
	}
	return []decl{d("font-family", value)}, true
}

func applyRounded(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	value, ok := e.theme.Radius(rest)
	if !ok {
		return nil, false
	}
	return []decl{d("border-radius", value)}, true
}

func applyShadow(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	value, ok := e.theme.Shadow(rest)
	if !ok {
		return nil, false
	}
	return []decl{d("box-shadow", value)}, true
}

func applyOpacity(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 || n > 100 {
		return nil, false
	}
	value := strconv.FormatFloat(float64(n)/100, 'g', -1, 64)
	return []decl{d("opacity", value)}, true
}

func applyZIndex(e *Engine, rest string, neg bool) ([]decl, bool) {
	n, err := strconv.Atoi(rest)
	if err != nil {
		return nil, false
	}
	if neg {
		n = -n
	}
	return []decl{d("z-index", strconv.Itoa(n))}, true
}

func applyDuration(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	if _, err := strconv.Atoi(rest); err != nil {
		return nil, false
	}
	return []decl{d("transition-duration", rest + "ms")}, true
}

func applyGridCols(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	if rest == "none" {
		return []decl{d("grid-template-columns", "none")}, true
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 12 {
		return nil, false
	}
	return []decl{d("grid-template-columns", "repeat("+rest+", minmax(0, 1fr))")}, true
}

func applyColSpan(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	if rest == "full" {
		return []decl{d("grid-column", "1 / -1")}, true
	}
	if n, err := strconv.Atoi(rest); err != nil || n < 1 {
		return nil, false
	}
	return []decl{d("grid-column", "span "+rest+" / span "+rest)}, true
}

func applyRowSpan(e *Engine, rest string, neg bool) ([]decl, bool) {
	if neg {
		return nil, false
	}
	if rest == "full" {
		return []decl{d("grid-row", "1 / -1")}, true
	}
	if n, err := strconv.Atoi(rest); err != nil || n < 1 {
		return nil, false
	}
	return []decl{d("grid-row", "span "+rest+" / span "+rest)}, true
}

// arbitraryUtility handles the prefix-[value] escape hatch. Underscores in
// the value stand in for spaces.
func (e *Engine) arbitraryUtility(name string) ([]decl, bool) {
	open := strings.Index(name, "-[")
	if open <= 0 || !strings.HasSuffix(name, "]") {
		return nil, false
	}

	prefix := name[:open]
	value := strings.ReplaceAll(name[open+2:len(name)-1], "_", " ")
	if value == "" {
		return nil, false
	}

	if prefix == "text" {
		if isColorValue(value) {
			return []decl{d("color", value)}, true
		}
		return []decl{d("font-size", value)}, true
	}

	props, ok := arbitraryProps[prefix]
	if !ok {
		return nil, false
	}
	return declsFor(props, value), true
}

var arbitraryProps = map[string][]string{
	"w":         {"width"},
	"h":         {"height"},
	"size":      {"width", "height"},
	"min-w":     {"min-width"},
	"max-w":     {"max-width"},
	"min-h":     {"min-height"},
	"max-h":     {"max-height"},
	"p":         {"padding"},
	"px":        {"padding-left", "padding-right"},
	"py":        {"padding-top", "padding-bottom"},
	"pt":        {"padding-top"},
	"pr":        {"padding-right"},
	"pb":        {"padding-bottom"},
	"pl":        {"padding-left"},
	"m":         {"margin"},
	"mx":        {"margin-left", "margin-right"},
	"my":        {"margin-top", "margin-bottom"},
	"mt":        {"margin-top"},
	"mr":        {"margin-right"},
	"mb":        {"margin-bottom"},
	"ml":        {"margin-left"},
	"gap":       {"gap"},
	"bg":        {"background-color"},
	"border":    {"border-color"},
	"rounded":   {"border-radius"},
	"shadow":    {"box-shadow"},
	"top":       {"top"},
	"right":     {"right"},
	"bottom":    {"bottom"},
	"left":      {"left"},
	"inset":     {"inset"},
	"z":         {"z-index"},
	"leading":   {"line-height"},
	"tracking":  {"letter-spacing"},
	"basis":     {"flex-basis"},
	"grid-cols": {"grid-template-columns"},
}

func isColorValue(v string) bool {
	return strings.HasPrefix(v, "#") ||
		strings.HasPrefix(v, "rgb") ||
		strings.HasPrefix(v, "hsl") ||
		strings.HasPrefix(v, "oklch") ||
		strings.HasPrefix(v, "var(")
}
