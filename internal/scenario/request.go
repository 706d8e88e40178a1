package scenario

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"wfbench/internal/marketplace"
	"wfbench/internal/template"
)

// requestRunner executes the HTTP steps of one YAML workflow run and holds
// the variables they extract.
type requestRunner struct {
	client *marketplace.Client
	engine *template.Engine
	vars   map[string]interface{}
}

func newRequestRunner(client *marketplace.Client) *requestRunner {
	return &requestRunner{
		client: client,
		engine: template.New(),
		vars:   make(map[string]interface{}),
	}
}

// seed renders vars in key order so later keys may refer to earlier ones.
func (r *requestRunner) seed(vars map[string]string) error {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		value, err := r.engine.Render(vars[k], r.vars)
		if err != nil {
			return fmt.Errorf("variable %s: %w", k, err)
		}
		r.vars[k] = value
	}
	return nil
}

func (r *requestRunner) run(ctx context.Context, step StepDefinition) (interface{}, error) {
	if r.client == nil {
		return nil, errors.New("no marketplace API configured")
	}

	method := strings.ToUpper(step.Method)
	if method == "" {
		method = http.MethodGet
	}
	path, err := r.engine.Render(step.Path, r.vars)
	if err != nil {
		return nil, err
	}
	params, err := r.engine.RenderStrings(step.Query, r.vars)
	if err != nil {
		return nil, err
	}
	body, err := r.engine.Replace(step.Body, r.vars)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, v := range params {
		query.Set(k, v)
	}

	resp, err := r.client.Do(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	rec := resp.Record()
	if err := r.check(step.Expect, method, path, resp); err != nil {
		return rec, err
	}

	for name, p := range step.Extract {
		v := rec.Get(p)
		if !v.Exists() {
			return rec, fmt.Errorf("cannot extract %s: %q not found in response", name, p)
		}
		r.vars[name] = v.String()
	}
	return rec, nil
}

func (r *requestRunner) check(expect *Expectation, method, path string, resp *marketplace.Response) error {
	if expect == nil || expect.Status == 0 {
		if err := resp.Err(method, path); err != nil {
			return err
		}
	} else if resp.StatusCode != expect.Status {
		return fmt.Errorf("expected status %d, got %d", expect.Status, resp.StatusCode)
	}
	if expect == nil {
		return nil
	}

	if expect.Contains != "" {
		want, err := r.engine.Render(expect.Contains, r.vars)
		if err != nil {
			return err
		}
		if !strings.Contains(string(resp.Body), want) {
			return fmt.Errorf("response does not contain %q", want)
		}
	}

	paths := make([]string, 0, len(expect.JSONPath))
	for p := range expect.JSONPath {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	rec := resp.Record()
	for _, p := range paths {
		want, err := r.engine.Render(expect.JSONPath[p], r.vars)
		if err != nil {
			return err
		}
		if got := rec.String(p); got != want {
			return fmt.Errorf("expected %s to be %q, got %q", p, want, got)
		}
	}
	return nil
}
