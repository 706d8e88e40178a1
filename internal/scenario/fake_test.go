package scenario

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"wfbench/internal/marketplace"
)

// fakeAPI serves canned JSON keyed by "METHOD /path". Unknown routes are 404.
type fakeAPI struct {
	mu     sync.Mutex
	routes map[string]fakeResponse
	calls  []string
	bodies map[string]string
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeAPI(t *testing.T) (*fakeAPI, *marketplace.Client) {
	t.Helper()
	f := &fakeAPI{routes: make(map[string]fakeResponse), bodies: make(map[string]string)}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, marketplace.NewClient(srv.URL)
}

func (f *fakeAPI) on(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.routes[method+" "+path] = fakeResponse{status: status, body: body}
}

func (f *fakeAPI) serve(w http.ResponseWriter, r *http.Request) {
	key := r.Method + " " + r.URL.Path
	data, _ := io.ReadAll(r.Body)

	f.mu.Lock()
	f.calls = append(f.calls, key)
	f.bodies[key] = string(data)
	resp, ok := f.routes[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no route for ` + key + `"}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeAPI) called(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.calls {
		if c == key {
			return true
		}
	}
	return false
}

func (f *fakeAPI) body(key string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.bodies[key]
}
