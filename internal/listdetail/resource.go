// Package listdetail keeps an in-memory collection of remote records in step
// with the backend across list, detail, status-toggle and delete operations.
//
// One Controller serves one entity kind. The kind is described by a
// Resource: how to read a record's identifier and active flag, and which
// image galleries a detail record carries. Everything else about the record
// is opaque here.
package listdetail

import (
	"context"
	"encoding/json"

	"go.safehomi.dev/homeadmin/internal/gateway"
)

// Remote is the backend surface a Controller needs. *gateway.Resource
// implements it.
type Remote[S, D any] interface {
	List(ctx context.Context) (gateway.Envelope[[]S], error)
	Get(ctx context.Context, id string) (gateway.Envelope[D], error)
	SetStatus(ctx context.Context, id string, status bool) (gateway.Envelope[json.RawMessage], error)
	Delete(ctx context.Context, id string) (gateway.Envelope[json.RawMessage], error)
}

// Gallery is one image sequence of a detail record. Images are paths
// relative to the configured image base.
type Gallery struct {
	Key    string
	Title  string
	Images []string

	// Label names one image in captions ("Image 2 of 5"). Empty is shown
	// when there are no images. Both are display text only.
	Label string
	Empty string
}

// Resource describes an entity kind.
type Resource[S, D any] struct {
	// Name is the plural used in logs, e.g. "listings".
	Name string
	// Noun starts operator messages, e.g. "Property".
	Noun string

	ID     func(S) string
	Status func(S) bool

	// Galleries lists the image sequences of a detail record. Each gets its
	// own cursor. May be nil for kinds without images.
	Galleries func(D) []Gallery
}

func (r Resource[S, D]) galleries(d D) []Gallery {
	if r.Galleries == nil {
		return nil
	}
	return r.Galleries(d)
}
