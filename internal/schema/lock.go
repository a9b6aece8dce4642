package schema

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Lock is a snapshot of a resolved tree: the blake3 fingerprint of every
// top-level root property and named definition. Diff runs compare against it
// to notice when the vision tree changed since the snapshot.
type Lock struct {
	Version string                 `json:"version"`
	Entries map[string]LockedEntry `json:"entries"`
}

// LockedEntry records one fingerprinted subtree
type LockedEntry struct {
	Fingerprint string `json:"fingerprint"`
}

// GenerateLock creates a Lock from a resolved tree
func GenerateLock(tree *Node, version string) (*Lock, error) {
	lock := &Lock{
		Version: version,
		Entries: make(map[string]LockedEntry),
	}

	for name, prop := range tree.Properties {
		fingerprint, err := Fingerprint(prop)
		if err != nil {
			return nil, fmt.Errorf("fingerprint property %s: %w", name, err)
		}
		lock.Entries[name] = LockedEntry{Fingerprint: fingerprint}
	}

	for name, def := range tree.Definitions {
		fingerprint, err := Fingerprint(def)
		if err != nil {
			return nil, fmt.Errorf("fingerprint definition %s: %w", name, err)
		}
		lock.Entries["definitions."+name] = LockedEntry{Fingerprint: fingerprint}
	}

	return lock, nil
}

// Changed lists the lock entries whose fingerprints differ from an older
// snapshot, plus entries present on only one side. Sorted for stable output.
func (l *Lock) Changed(previous *Lock) []string {
	if previous == nil {
		return nil
	}
	changed := make(map[string]bool)
	for name, entry := range l.Entries {
		prev, ok := previous.Entries[name]
		if !ok || prev.Fingerprint != entry.Fingerprint {
			changed[name] = true
		}
	}
	for name := range previous.Entries {
		if _, ok := l.Entries[name]; !ok {
			changed[name] = true
		}
	}

	out := make([]string, 0, len(changed))
	for name := range changed {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// SaveLock writes a Lock to disk
func SaveLock(lock *Lock, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	data, err := json.MarshalIndent(lock, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal lock: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write lock: %w", err)
	}

	return nil
}

// LoadLock reads a Lock from disk
func LoadLock(path string) (*Lock, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lock: %w", err)
	}

	var lock Lock
	if err := json.Unmarshal(data, &lock); err != nil {
		return nil, fmt.Errorf("unmarshal lock: %w", err)
	}

	return &lock, nil
}
