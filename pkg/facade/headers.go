package facade

import (
	"sort"
	"strings"
)

// Headers maps header names to values. Keys are compared case-sensitively.
type Headers map[string]string

// Merge copies every entry of other into h, overwriting existing keys.
func (h Headers) Merge(other Headers) {
	for k, v := range other {
		h[k] = v
	}
}

// Clone returns an independent copy of h. A nil receiver yields an empty set.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for k, v := range h {
		out[k] = v
	}
	return out
}

func (h Headers) sortedKeys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (h Headers) has(name string) bool {
	for k := range h {
		if strings.EqualFold(k, name) {
			return true
		}
	}
	return false
}
