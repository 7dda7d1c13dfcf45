package livecss

import (
	"sort"
	"strings"
)

// Item is one input to Classes. The set of implementations is closed:
// Cls, KV and Toggles cover every accepted shape, and a nil Item is
// ignored. Class strings are split on runs of whitespace, so one Item may
// carry several class names.
type Item interface {
	collect(active, candidates *[]string)
}

type clsItem string

// Cls names classes that are always active.
func Cls(classes string) Item {
	return clsItem(classes)
}

func (c clsItem) collect(active, candidates *[]string) {
	for _, tok := range strings.Fields(string(c)) {
		*active = append(*active, tok)
		*candidates = append(*candidates, tok)
	}
}

type kvItem struct {
	classes string
	on      bool
}

// KV names classes that are active only when on is true. The classes are
// compiled either way, so flipping the condition at render time needs no
// rebuild.
func KV(classes string, on bool) Item {
	return kvItem{classes: classes, on: on}
}

func (k kvItem) collect(active, candidates *[]string) {
	for _, tok := range strings.Fields(k.classes) {
		if k.on {
			*active = append(*active, tok)
		}
		*candidates = append(*candidates, tok)
	}
}

type togglesItem map[string]bool

// Toggles treats each map entry as a KV. Keys are visited in sorted order
// so the returned attribute string is deterministic.
func Toggles(m map[string]bool) Item {
	return togglesItem(m)
}

func (t togglesItem) collect(active, candidates *[]string) {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		kvItem{classes: k, on: t[k]}.collect(active, candidates)
	}
}
