package scenario

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wfbench/internal/api"
)

const browseYAML = `
name: browse-catalog
description: List products and open the first one
tags: [smoke, catalog]
timeout: 30s
vars:
  category: electronics
steps:
  - name: List products
    path: /products
    query:
      category: "{{ .category }}"
    extract:
      productId: "0.id"
  - name: View product
    path: /products/{{ .productId }}
    expect:
      status: 200
      contains: "{{ .category }}"
      jsonPath:
        id: "{{ .productId }}"
  - name: Add to wishlist
    method: POST
    path: /wishlist
    optional: true
    body:
      productId: "{{ .productId }}"
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestParseDefinition(t *testing.T) {
	def, err := ParseDefinition([]byte(browseYAML))
	require.NoError(t, err)

	assert.Equal(t, "browse-catalog", def.Name)
	assert.Equal(t, []string{"smoke", "catalog"}, def.Tags)
	assert.Equal(t, 30*time.Second, def.Timeout)
	require.Len(t, def.Steps, 3)
	assert.Equal(t, "0.id", def.Steps[0].Extract["productId"])
	require.NotNil(t, def.Steps[1].Expect)
	assert.Equal(t, 200, def.Steps[1].Expect.Status)
	assert.True(t, def.Steps[2].Optional)
}

func TestParseDefinition_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "missing name",
			yaml:    "steps:\n  - name: a\n    path: /a\n",
			wantErr: "Definition.Name",
		},
		{
			name:    "no steps",
			yaml:    "name: empty\n",
			wantErr: "Definition.Steps",
		},
		{
			name:    "bad method",
			yaml:    "name: x\nsteps:\n  - name: a\n    method: FETCH\n    path: /a\n",
			wantErr: "Method",
		},
		{
			name:    "missing path",
			yaml:    "name: x\nsteps:\n  - name: a\n",
			wantErr: "Path",
		},
		{
			name:    "bad status",
			yaml:    "name: x\nsteps:\n  - name: a\n    path: /a\n    expect:\n      status: 42\n",
			wantErr: "Status",
		},
		{
			name:    "not yaml",
			yaml:    "name: [unterminated",
			wantErr: "failed to parse YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDefinition([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadDefinitions_Directory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.yaml", "name: second\nsteps:\n  - name: a\n    path: /a\n")
	writeFile(t, dir, "nested/a.yml", "name: first\nsteps:\n  - name: a\n    path: /a\n")
	writeFile(t, dir, "README.md", "not a workflow")

	defs, err := LoadDefinitions(dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "second", defs[0].Name)
	assert.Equal(t, filepath.Join(dir, "b.yaml"), defs[0].Source)
	assert.Equal(t, "first", defs[1].Name)
}

func TestLoadDefinitions_Errors(t *testing.T) {
	_, err := LoadDefinitions(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")

	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "name: dup\nsteps:\n  - name: a\n    path: /a\n")
	writeFile(t, dir, "b.yaml", "name: dup\nsteps:\n  - name: a\n    path: /a\n")
	_, err = LoadDefinitions(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `workflow "dup" defined in both`)

	bad := writeFile(t, t.TempDir(), "bad.yaml", "name: bad\n")
	_, err = LoadDefinitions(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.yaml")
}

func TestDefinition_Run(t *testing.T) {
	fake, env := testEnv(t)
	fake.on(http.MethodGet, "/products", 200, `[{"id":"p7","category":"electronics"}]`)
	fake.on(http.MethodGet, "/products/p7", 200, `{"id":"p7","category":"electronics"}`)

	def, err := ParseDefinition([]byte(browseYAML))
	require.NoError(t, err)

	result, err := def.Runnable(env).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "browse-catalog", result.WorkflowName)
	assert.Equal(t, 2, result.Passed)
	assert.Equal(t, 0, result.Failed)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, api.FinalSuccess, result.FinalStatus)
	assert.Equal(t, `{"productId":"p7"}`, fake.body("POST /wishlist"))
}

func TestDefinition_RunExpectationFailures(t *testing.T) {
	fake, env := testEnv(t)
	fake.on(http.MethodGet, "/products", 200, `[{"id":"p7"}]`)
	fake.on(http.MethodGet, "/products/p7", 200, `{"id":"other","category":"electronics"}`)

	def, err := ParseDefinition([]byte(browseYAML))
	require.NoError(t, err)

	result, err := def.Runnable(env).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.FinalPartial, result.FinalStatus)
	assert.Equal(t, []string{`expected id to be "p7", got "other"`}, result.Errors)
}

func TestDefinition_RunMissingExtractFailsLaterSteps(t *testing.T) {
	fake, env := testEnv(t)
	fake.on(http.MethodGet, "/products", 200, `[]`)

	def, err := ParseDefinition([]byte(browseYAML))
	require.NoError(t, err)

	result, err := def.Runnable(env).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, result.Passed)
	assert.Equal(t, 2, result.Failed)
	assert.Contains(t, result.Steps[0].Error, `cannot extract productId`)
	assert.Contains(t, result.Steps[1].Error, "productId")
}

func TestDefinition_RunUnexpectedStatus(t *testing.T) {
	fake, env := testEnv(t)
	fake.on(http.MethodDelete, "/orders/o1", 409, `{"error":"order already shipped"}`)

	def := &Definition{
		Name: "cancel",
		Steps: []StepDefinition{
			{Name: "Cancel", Method: "delete", Path: "/orders/o1"},
			{Name: "Cancel again", Method: "DELETE", Path: "/orders/o1", Expect: &Expectation{Status: 409}},
		},
	}

	result, err := def.Runnable(env).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "order already shipped", result.Steps[0].Error)
	assert.Equal(t, api.StepSuccess, result.Steps[1].Status)
}

func TestDefinition_RunWithoutClient(t *testing.T) {
	def := &Definition{Name: "offline", Steps: []StepDefinition{{Name: "a", Path: "/a"}}}
	result, err := def.Runnable(Env{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"no marketplace API configured"}, result.Errors)
}

func TestDefinition_VarsMayReferenceEarlierVars(t *testing.T) {
	fake, env := testEnv(t)
	fake.on(http.MethodGet, "/shops/s1/products", 200, `[]`)

	def := &Definition{
		Name: "vars",
		Vars: map[string]string{"a_shop": "s1", "b_path": "/shops/{{ .a_shop }}/products"},
		Steps: []StepDefinition{{Name: "list", Path: "{{ .b_path }}"}},
	}
	result, err := def.Runnable(env).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, api.FinalSuccess, result.FinalStatus)
}

func TestDefinition_Entry(t *testing.T) {
	def := &Definition{Name: "x", Description: "d", Tags: []string{"t"}, Source: "x.yaml",
		Steps: []StepDefinition{{Name: "a", Path: "/a"}}}
	e := def.Entry()
	assert.Equal(t, "x", e.Name)
	assert.Equal(t, "x.yaml", e.Source)
	assert.True(t, e.HasTag("t"))
	assert.Equal(t, "x", e.Build(Env{}).WorkflowName())
}
