package listdetail

// store is the ordered collection of summaries rendered by the list view.
// Identifiers are unique.
type store[S any] struct {
	id    func(S) string
	items []S
	index map[string]int
}

func newStore[S any](id func(S) string) *store[S] {
	return &store[S]{id: id, index: map[string]int{}}
}

// replace swaps in a fetched collection wholesale. Later duplicates of an
// identifier are dropped and returned.
func (s *store[S]) replace(items []S) (dropped []string) {
	next := make([]S, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		key := s.id(item)
		if _, exists := index[key]; exists {
			dropped = append(dropped, key)
			continue
		}
		index[key] = len(next)
		next = append(next, item)
	}
	s.items = next
	s.index = index
	return dropped
}

func (s *store[S]) find(id string) (S, bool) {
	i, ok := s.index[id]
	if !ok {
		var zero S
		return zero, false
	}
	return s.items[i], true
}

func (s *store[S]) snapshot() []S {
	return append([]S(nil), s.items...)
}
