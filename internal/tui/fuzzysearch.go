package tui

import (
	"github.com/sahilm/fuzzy"
)

// FilterItems keeps the items whose text fuzzily matches query, best match
// first. An empty query keeps everything in order.
func FilterItems[S any](query string, items []S, text func(S) string) []S {
	if query == "" {
		return items
	}

	texts := make([]string, 0, len(items))
	for _, item := range items {
		texts = append(texts, text(item))
	}

	matches := fuzzy.FindFrom(query, stringSource(texts))
	filtered := make([]S, 0, len(matches))
	for _, match := range matches {
		filtered = append(filtered, items[match.Index])
	}

	return filtered
}

type stringSource []string

func (s stringSource) Len() int {
	return len(s)
}

func (s stringSource) String(i int) string {
	return s[i]
}
