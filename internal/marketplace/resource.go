package marketplace

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// Resource is one REST collection such as /orders.
type Resource struct {
	client *Client
	path   string
}

// Resource returns the collection rooted at path.
func (c *Client) Resource(path string) *Resource {
	return &Resource{client: c, path: "/" + strings.Trim(path, "/")}
}

// Path returns the collection path.
func (r *Resource) Path() string {
	return r.path
}

// List returns the records matching filter.
func (r *Resource) List(ctx context.Context, filter map[string]string) ([]Record, error) {
	query := url.Values{}
	for k, v := range filter {
		query.Set(k, v)
	}
	resp, err := r.client.call(ctx, http.MethodGet, r.path, query, nil)
	if err != nil {
		return nil, err
	}
	records, ok := parseList(resp.Body)
	if !ok {
		return nil, fmt.Errorf("unexpected list response from %s", r.path)
	}
	return records, nil
}

// GetByID returns one record.
func (r *Resource) GetByID(ctx context.Context, id string) (Record, error) {
	return r.record(ctx, http.MethodGet, r.itemPath(id), nil, nil)
}

// Get fetches a sub path of the collection, e.g. Analytics().Get(ctx, "sales", nil).
func (r *Resource) Get(ctx context.Context, sub string, query url.Values) (Record, error) {
	return r.record(ctx, http.MethodGet, r.itemPath(sub), query, nil)
}

// Create posts a new record.
func (r *Resource) Create(ctx context.Context, payload interface{}) (Record, error) {
	return r.record(ctx, http.MethodPost, r.path, nil, payload)
}

// Update patches an existing record.
func (r *Resource) Update(ctx context.Context, id string, patch interface{}) (Record, error) {
	return r.record(ctx, http.MethodPatch, r.itemPath(id), nil, patch)
}

// Delete removes a record.
func (r *Resource) Delete(ctx context.Context, id string) error {
	_, err := r.client.call(ctx, http.MethodDelete, r.itemPath(id), nil, nil)
	return err
}

// Action posts to a record's action endpoint, e.g. /orders/{id}/cancel.
func (r *Resource) Action(ctx context.Context, id, action string, payload interface{}) (Record, error) {
	return r.record(ctx, http.MethodPost, r.itemPath(id)+"/"+strings.Trim(action, "/"), nil, payload)
}

func (r *Resource) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

func (r *Resource) record(ctx context.Context, method, path string, query url.Values, body interface{}) (Record, error) {
	resp, err := r.client.call(ctx, method, path, query, body)
	if err != nil {
		return Record{}, err
	}
	return unwrap(resp.Record()), nil
}

// unwrap returns the "data" member of {"data": {...}} envelopes.
func unwrap(rec Record) Record {
	if v := rec.Get("data"); v.IsObject() {
		return NewRecord([]byte(v.Raw))
	}
	return rec
}
