package facade

import (
	"fmt"
	"strings"
)

// parseQuery splits "k1=v1&k2=v2" into its pairs. Every entry must contain
// exactly one '='. An empty query has no pairs. Repeated keys keep the last value.
func parseQuery(query string) (map[string]string, error) {
	params := make(map[string]string)
	if query == "" {
		return params, nil
	}
	for _, entry := range strings.Split(query, "&") {
		if strings.Count(entry, "=") != 1 {
			return nil, fmt.Errorf("%w: entry %q", ErrMalformedQuery, entry)
		}
		k, v, _ := strings.Cut(entry, "=")
		params[k] = v
	}
	return params, nil
}
