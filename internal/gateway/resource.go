package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Paths locates one resource on the backend. List is the collection
// endpoint; Item is the prefix that individual records hang off as Item/{id}.
type Paths struct {
	List string
	Item string
}

// Resource is the four-operation REST surface of one entity kind.
type Resource[S, D any] struct {
	client *Client
	paths  Paths
}

func NewResource[S, D any](client *Client, paths Paths) *Resource[S, D] {
	return &Resource[S, D]{client: client, paths: paths}
}

func (r *Resource[S, D]) List(ctx context.Context) (Envelope[[]S], error) {
	var env Envelope[[]S]
	err := r.client.do(ctx, http.MethodGet, r.paths.List, nil, &env)
	return env, err
}

func (r *Resource[S, D]) Get(ctx context.Context, id string) (Envelope[D], error) {
	var env Envelope[D]
	err := r.client.do(ctx, http.MethodGet, r.itemPath(id), nil, &env)
	return env, err
}

type statusRequest struct {
	Status bool `json:"status"`
}

// SetStatus posts the new active flag. The returned data is not needed by
// callers and is kept raw.
func (r *Resource[S, D]) SetStatus(ctx context.Context, id string, status bool) (Envelope[json.RawMessage], error) {
	var env Envelope[json.RawMessage]
	err := r.client.do(ctx, http.MethodPost, r.itemPath(id), statusRequest{Status: status}, &env)
	return env, err
}

func (r *Resource[S, D]) Delete(ctx context.Context, id string) (Envelope[json.RawMessage], error) {
	var env Envelope[json.RawMessage]
	err := r.client.do(ctx, http.MethodDelete, r.itemPath(id), nil, &env)
	return env, err
}

func (r *Resource[S, D]) itemPath(id string) string {
	return r.paths.Item + "/" + url.PathEscape(id)
}
