package resolver

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

func writeSchema(t *testing.T, dir, name, doc string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0750))
	require.NoError(t, os.WriteFile(path, []byte(doc), 0600))
	return path
}

func TestResolveFileReference(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common.schema.json", `{
		"definitions": {
			"id": {"type": "string", "pattern": "^[a-z0-9-]+$", "minLength": 1}
		}
	}`)
	root := writeSchema(t, dir, "app.schema.json", `{
		"type": "object",
		"properties": {
			"id": {"$ref": "./common.schema.json#/definitions/id"}
		}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err)

	id := resolved.Properties["id"]
	require.NotNil(t, id)
	assert.Empty(t, id.Ref, "spliced node keeps no $ref")
	assert.Equal(t, "string", id.Type)
	assert.Equal(t, "^[a-z0-9-]+$", id.Pattern)
	require.NotNil(t, id.MinLength)
	assert.Equal(t, 1, *id.MinLength)
}

func TestResolveSiblingFieldsWin(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common.schema.json", `{
		"definitions": {
			"name": {"type": "string", "title": "Generic Name", "minLength": 1}
		}
	}`)
	root := writeSchema(t, dir, "app.schema.json", `{
		"type": "object",
		"properties": {
			"name": {
				"$ref": "./common.schema.json#/definitions/name",
				"title": "Application Name",
				"x-user-stories": ["GIVEN a form WHEN the name is typed THEN it is saved"]
			}
		}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err)

	name := resolved.Properties["name"]
	assert.Equal(t, "Application Name", name.Title, "local title overrides the referenced one")
	assert.Equal(t, "string", name.Type, "referenced type survives the splice")
	assert.Len(t, name.UserStories, 1, "local behavior stories survive the splice")
}

func TestResolveCrossDirectory(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common/definitions.schema.json", `{
		"definitions": {"id": {"type": "string"}}
	}`)
	root := writeSchema(t, dir, "app/app.schema.json", `{
		"type": "object",
		"properties": {
			"id": {"$ref": "../common/definitions.schema.json#/definitions/id"}
		}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err)
	assert.Equal(t, "string", resolved.Properties["id"].Type)
}

func TestResolveCycleLeavesRef(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "a.schema.json", `{
		"type": "object",
		"properties": {"b": {"$ref": "./b.schema.json"}}
	}`)
	root := writeSchema(t, dir, "b.schema.json", `{
		"type": "object",
		"properties": {"a": {"$ref": "./a.schema.json"}}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err)

	// b -> a resolves; the a -> b edge closes the cycle and stays a $ref.
	a := resolved.Properties["a"]
	require.NotNil(t, a)
	assert.Empty(t, a.Ref)

	unresolved := Unresolved(resolved)
	require.Len(t, unresolved, 1)
	assert.Equal(t, "a.b", unresolved[0])
}

func TestResolveMissingFileLeavesRef(t *testing.T) {
	dir := t.TempDir()
	root := writeSchema(t, dir, "app.schema.json", `{
		"type": "object",
		"properties": {
			"broken": {"$ref": "./nowhere.schema.json#/definitions/id"},
			"fine": {"type": "string"}
		}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err, "a dead reference must not abort the run")

	assert.NotEmpty(t, resolved.Properties["broken"].Ref, "dead $ref stays in place")
	assert.Equal(t, "string", resolved.Properties["fine"].Type, "siblings still resolve")
	assert.Equal(t, []string{"broken"}, Unresolved(resolved))
}

func TestResolveMissingFragmentLeavesRef(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common.schema.json", `{"definitions": {"id": {"type": "string"}}}`)
	root := writeSchema(t, dir, "app.schema.json", `{
		"type": "object",
		"properties": {
			"x": {"$ref": "./common.schema.json#/definitions/missing"}
		}
	}`)

	resolved, err := NewContext().ResolveFile(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, Unresolved(resolved))
}

func TestResolveCachesFiles(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common.schema.json", `{"definitions": {"id": {"type": "string"}}}`)
	root := writeSchema(t, dir, "app.schema.json", `{
		"type": "object",
		"properties": {
			"a": {"$ref": "./common.schema.json#/definitions/id"},
			"b": {"$ref": "./common.schema.json#/definitions/id"}
		}
	}`)

	counting := &countingRepository{inner: schema.NewFileRepository()}
	resolved, err := NewContext(WithRepository(counting)).ResolveFile(root)
	require.NoError(t, err)

	assert.Equal(t, "string", resolved.Properties["a"].Type)
	assert.Equal(t, "string", resolved.Properties["b"].Type)
	assert.Equal(t, 2, counting.loads, "root + common loaded once each")
}

func TestResolveDoesNotMutateInput(t *testing.T) {
	dir := t.TempDir()
	writeSchema(t, dir, "common.schema.json", `{"definitions": {"id": {"type": "string"}}}`)

	root, err := schema.Parse([]byte(`{
		"type": "object",
		"properties": {"id": {"$ref": "./common.schema.json#/definitions/id"}}
	}`))
	require.NoError(t, err)

	out := NewContext().Resolve(root, dir)

	assert.NotEmpty(t, root.Properties["id"].Ref, "input tree stays untouched")
	assert.Empty(t, out.Properties["id"].Ref)
}

func TestSplitRef(t *testing.T) {
	tests := []struct {
		ref      string
		file     string
		fragment string
	}{
		{"common.json#/definitions/id", "common.json", "definitions/id"},
		{"../common/defs.json#/definitions/id", "../common/defs.json", "definitions/id"},
		{"other.json", "other.json", ""},
		{"#/definitions/local", "", "definitions/local"},
	}
	for _, tt := range tests {
		file, fragment := splitRef(tt.ref)
		assert.Equal(t, tt.file, file, tt.ref)
		assert.Equal(t, tt.fragment, fragment, tt.ref)
	}
}

func TestRunIDsAreUnique(t *testing.T) {
	a := NewContext()
	b := NewContext()
	assert.NotEqual(t, a.RunID(), b.RunID())
}

type countingRepository struct {
	inner schema.Repository
	loads int
}

func (r *countingRepository) Load(path string) (*schema.Node, error) {
	r.loads++
	return r.inner.Load(path)
}
