package listdetail

// DetailState is the phase of the detail view.
type DetailState int

const (
	DetailClosed DetailState = iota
	DetailLoading
	DetailOpen
)

func (s DetailState) String() string {
	switch s {
	case DetailClosed:
		return "closed"
	case DetailLoading:
		return "loading"
	case DetailOpen:
		return "open"
	default:
		return "unknown"
	}
}

// detailSession holds the one record shown in the detail view and a cursor
// per image gallery.
//
// Closed -> Loading -> Open -> Closed. Loading only becomes Open when the
// response for the newest request arrives; any failure drops back to Closed.
type detailSession[D any] struct {
	state     DetailState
	gen       uint64
	id        string
	record    D
	galleries []Gallery
	cursors   map[string]int
}

// begin starts loading id, discarding whatever was shown, and returns the
// generation the response must match.
func (s *detailSession[D]) begin(id string) uint64 {
	s.reset()
	s.state = DetailLoading
	s.id = id
	return s.gen
}

// finish installs a loaded record. It reports false when gen was superseded.
func (s *detailSession[D]) finish(gen uint64, record D, galleries []Gallery) bool {
	if gen != s.gen {
		return false
	}
	s.state = DetailOpen
	s.record = record
	s.galleries = galleries
	s.cursors = make(map[string]int, len(galleries))
	for _, g := range galleries {
		s.cursors[g.Key] = 0
	}
	return true
}

// fail reverts a load to Closed. It reports false when gen was superseded.
func (s *detailSession[D]) fail(gen uint64) bool {
	if gen != s.gen {
		return false
	}
	s.reset()
	return true
}

func (s *detailSession[D]) close() {
	s.reset()
}

func (s *detailSession[D]) reset() {
	var zero D
	s.gen++
	s.state = DetailClosed
	s.id = ""
	s.record = zero
	s.galleries = nil
	s.cursors = nil
}

func (s *detailSession[D]) gallery(key string) (Gallery, bool) {
	for _, g := range s.galleries {
		if g.Key == key {
			return g, true
		}
	}
	return Gallery{}, false
}

func (s *detailSession[D]) selectImage(key string, index int) error {
	if s.state != DetailOpen {
		return ErrDetailClosed
	}
	g, ok := s.gallery(key)
	if !ok {
		return ErrUnknownGallery
	}
	if index < 0 || index >= len(g.Images) {
		return ErrCursorOutOfRange
	}
	s.cursors[key] = index
	return nil
}

// step moves a gallery cursor by delta, wrapping at both ends.
func (s *detailSession[D]) step(key string, delta int) error {
	if s.state != DetailOpen {
		return ErrDetailClosed
	}
	g, ok := s.gallery(key)
	if !ok {
		return ErrUnknownGallery
	}
	n := len(g.Images)
	if n == 0 {
		return nil
	}
	s.cursors[key] = ((s.cursors[key]+delta)%n + n) % n
	return nil
}
