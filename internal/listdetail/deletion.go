package listdetail

// deletionSession holds at most one record awaiting delete confirmation.
type deletionSession[S any] struct {
	pending *S
	id      string
	// gen changes on every request and cancel so a confirm that completes
	// after the dialog moved on does not clear the wrong candidate.
	gen uint64
}

func (d *deletionSession[S]) request(item S, id string) {
	d.gen++
	d.pending = &item
	d.id = id
}

func (d *deletionSession[S]) cancel() {
	d.gen++
	d.pending = nil
	d.id = ""
}

// clearIf drops the candidate only if it is still the one from gen.
func (d *deletionSession[S]) clearIf(gen uint64) {
	if d.gen == gen {
		d.cancel()
	}
}

func (d *deletionSession[S]) open() bool {
	return d.pending != nil
}
