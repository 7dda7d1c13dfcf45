package engine

// variant is a resolved class prefix. Pseudo variants contribute a
// selector suffix, responsive and dark variants wrap the rule in a media
// query. Order places variant rules after their bare counterparts.
type variant struct {
	pseudo string
	media  string
	order  int
}

var pseudoVariants = map[string]variant{
	"hover":        {pseudo: ":hover", order: 1},
	"focus":        {pseudo: ":focus", order: 2},
	"focus-within": {pseudo: ":focus-within", order: 3},
	"active":       {pseudo: ":active", order: 4},
	"visited":      {pseudo: ":visited", order: 5},
	"disabled":     {pseudo: ":disabled", order: 6},
	"first":        {pseudo: ":first-child", order: 7},
	"last":         {pseudo: ":last-child", order: 8},
	"odd":          {pseudo: ":nth-child(odd)", order: 9},
	"even":         {pseudo: ":nth-child(even)", order: 10},
}

const (
	darkOrder       = 100
	breakpointOrder = 1000
)

func (e *Engine) lookupVariant(name string) (variant, bool) {
	if v, ok := pseudoVariants[name]; ok {
		return v, true
	}
	if name == "dark" {
		return variant{media: "(prefers-color-scheme: dark)", order: darkOrder}, true
	}
	if width, ok := e.theme.Breakpoint(name); ok {
		idx := e.theme.breakpointIndex(name)
		return variant{
			media: "(min-width: " + width + ")",
			order: breakpointOrder * (idx + 1),
		}, true
	}
	return variant{}, false
}
