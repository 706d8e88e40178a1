package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(name string, tags ...string) Entry {
	return Entry{Name: name, Tags: tags, Source: SourceBuiltin}
}

func TestRegistry_RegisterKeepsOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(entry("a"))
	r.Register(entry("b"))
	r.Register(Entry{Name: "a", Description: "replaced"})

	assert.Equal(t, []string{"a", "b"}, r.Names())
	e, ok := r.Get("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", e.Description)

	_, ok = r.Get("c")
	assert.False(t, ok)
}

func TestRegistry_Filter(t *testing.T) {
	r := NewRegistry()
	r.Register(entry("a", "smoke"))
	r.Register(entry("b", "orders"))
	r.Register(entry("c", "smoke", "orders"))

	all, err := r.Filter(nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	byName, err := r.Filter([]string{"c", "a"}, nil)
	require.NoError(t, err)
	assert.Equal(t, "c", byName[0].Name)
	assert.Equal(t, "a", byName[1].Name)

	byTag, err := r.Filter(nil, []string{"orders"})
	require.NoError(t, err)
	require.Len(t, byTag, 2)
	assert.Equal(t, "b", byTag[0].Name)
	assert.Equal(t, "c", byTag[1].Name)

	both, err := r.Filter([]string{"a", "b"}, []string{"smoke"})
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "a", both[0].Name)

	_, err = r.Filter([]string{"a", "zzz", "yyy"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown workflows: [yyy zzz]")
}

func TestRegistry_LoadPathReplacesFileEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", "name: one\nsteps:\n  - name: a\n    path: /a\n")
	writeFile(t, dir, "two.yaml", "name: two\nsteps:\n  - name: a\n    path: /a\n")

	r := NewRegistry()
	r.Register(entry("builtin"))

	n, err := r.LoadPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"builtin", "one", "two"}, r.Names())

	writeFile(t, dir, "two.yaml", "name: three\nsteps:\n  - name: a\n    path: /a\n")
	n, err = r.LoadPath(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"builtin", "one", "three"}, r.Names())

	e, _ := r.Get("one")
	assert.Equal(t, dir+"/one.yaml", e.Source)
}

func TestRegistry_LoadPathErrorKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "one.yaml", "name: one\nsteps:\n  - name: a\n    path: /a\n")

	r := NewRegistry()
	_, err := r.LoadPath(dir)
	require.NoError(t, err)

	writeFile(t, dir, "one.yaml", "name: one\n")
	_, err = r.LoadPath(dir)
	require.Error(t, err)
	assert.Equal(t, []string{"one"}, r.Names())
}
