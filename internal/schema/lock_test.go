package schema

import (
	"path/filepath"
	"testing"
)

func buildTree(t *testing.T, doc string) *Node {
	t.Helper()
	node, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return node
}

func TestGenerateLock(t *testing.T) {
	tree := buildTree(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"tables": {"type": "array", "items": {"type": "object"}}
		},
		"definitions": {
			"id": {"type": "string", "pattern": "^[a-z]+$"}
		}
	}`)

	lock, err := GenerateLock(tree, "0.1.0")
	if err != nil {
		t.Fatalf("GenerateLock() error = %v", err)
	}

	if len(lock.Entries) != 3 {
		t.Errorf("len(Entries) = %d, want 3", len(lock.Entries))
	}
	for _, name := range []string{"name", "tables", "definitions.id"} {
		if _, ok := lock.Entries[name]; !ok {
			t.Errorf("Entries missing %q", name)
		}
	}
}

func TestLockChanged(t *testing.T) {
	tree := buildTree(t, `{"properties": {"name": {"type": "string"}, "pages": {"type": "array"}}}`)
	before, err := GenerateLock(tree, "0.1.0")
	if err != nil {
		t.Fatalf("GenerateLock() error = %v", err)
	}

	minLen := 1
	tree.Properties["name"].MinLength = &minLen
	tree.Properties["automations"] = &Node{Type: "array"}
	delete(tree.Properties, "pages")

	after, err := GenerateLock(tree, "0.1.0")
	if err != nil {
		t.Fatalf("GenerateLock() error = %v", err)
	}

	changed := after.Changed(before)
	want := []string{"automations", "name", "pages"}
	if len(changed) != len(want) {
		t.Fatalf("Changed() = %v, want %v", changed, want)
	}
	for i, name := range want {
		if changed[i] != name {
			t.Errorf("Changed()[%d] = %q, want %q", i, changed[i], name)
		}
	}
}

func TestLockChangedNilPrevious(t *testing.T) {
	tree := buildTree(t, `{"properties": {"name": {"type": "string"}}}`)
	lock, err := GenerateLock(tree, "0.1.0")
	if err != nil {
		t.Fatalf("GenerateLock() error = %v", err)
	}
	if changed := lock.Changed(nil); changed != nil {
		t.Errorf("Changed(nil) = %v, want nil", changed)
	}
}

func TestSaveLoadLock(t *testing.T) {
	tree := buildTree(t, `{"properties": {"name": {"type": "string"}}}`)
	lock, err := GenerateLock(tree, "0.2.0")
	if err != nil {
		t.Fatalf("GenerateLock() error = %v", err)
	}

	path := filepath.Join(t.TempDir(), "locks", "schema.lock.json")
	if err := SaveLock(lock, path); err != nil {
		t.Fatalf("SaveLock() error = %v", err)
	}

	loaded, err := LoadLock(path)
	if err != nil {
		t.Fatalf("LoadLock() error = %v", err)
	}
	if loaded.Version != "0.2.0" {
		t.Errorf("Version = %q, want %q", loaded.Version, "0.2.0")
	}
	if loaded.Entries["name"].Fingerprint != lock.Entries["name"].Fingerprint {
		t.Error("round-trip lost fingerprint")
	}
}
