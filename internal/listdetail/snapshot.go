package listdetail

import "fmt"

// GalleryView is a gallery together with its cursor.
type GalleryView struct {
	Gallery
	Cursor int
}

// Current returns the image under the cursor, or "" for an empty gallery.
func (g GalleryView) Current() string {
	if g.Cursor < 0 || g.Cursor >= len(g.Images) {
		return ""
	}
	return g.Images[g.Cursor]
}

// Caption is the "Image i of n" line for the cursor position.
func (g GalleryView) Caption() string {
	if len(g.Images) == 0 {
		return g.Empty
	}
	label := g.Label
	if label == "" {
		label = "Image"
	}
	return fmt.Sprintf("%s %d of %d", label, g.Cursor+1, len(g.Images))
}

// DetailView is what the detail panel renders.
type DetailView[D any] struct {
	State     DetailState
	ID        string
	Record    D
	Galleries []GalleryView
}

// Visible reports whether the detail panel should be shown.
func (d DetailView[D]) Visible() bool {
	return d.State == DetailOpen
}

// Snapshot is a consistent copy of everything the views render.
type Snapshot[S, D any] struct {
	Items   []S
	Loading bool
	Busy    bool
	Detail  DetailView[D]
	// PendingDeletion is non-nil while the confirmation dialog is up.
	PendingDeletion *S
}

// Snapshot copies the controller state under one lock.
func (c *Controller[S, D]) Snapshot() Snapshot[S, D] {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot[S, D]{
		Items:   c.store.snapshot(),
		Loading: c.fetches > 0,
		Busy:    c.busyLocked(),
		Detail: DetailView[D]{
			State: c.detail.state,
			ID:    c.detail.id,
		},
	}
	if c.detail.state == DetailOpen {
		snap.Detail.Record = c.detail.record
		snap.Detail.Galleries = make([]GalleryView, 0, len(c.detail.galleries))
		for _, g := range c.detail.galleries {
			snap.Detail.Galleries = append(snap.Detail.Galleries, GalleryView{
				Gallery: g,
				Cursor:  c.detail.cursors[g.Key],
			})
		}
	}
	if c.deletion.pending != nil {
		pending := *c.deletion.pending
		snap.PendingDeletion = &pending
	}
	return snap
}
