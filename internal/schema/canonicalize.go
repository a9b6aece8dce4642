package schema

import (
	"encoding/json"
	"fmt"
	"sort"

	goccy "github.com/goccy/go-json"
	"github.com/zeebo/blake3"
)

// Canonicalize returns a canonical JSON representation of a node with stable
// key ordering for consistent hashing. Resolving the same inputs twice must
// produce byte-identical canonical forms.
func Canonicalize(node *Node) ([]byte, error) {
	raw, err := goccy.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("marshal node: %w", err)
	}

	// Round-trip through a generic map so every nesting level gets sorted keys.
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		return nil, fmt.Errorf("decode node for canonicalization: %w", err)
	}

	return json.Marshal(sortKeys(generic))
}

// Fingerprint computes the blake3 hash of a canonicalized node
func Fingerprint(node *Node) (string, error) {
	canonical, err := Canonicalize(node)
	if err != nil {
		return "", fmt.Errorf("canonicalize node: %w", err)
	}

	hasher := blake3.New()
	if _, err := hasher.Write(canonical); err != nil {
		return "", fmt.Errorf("hash node: %w", err)
	}

	return fmt.Sprintf("%x", hasher.Sum(nil)), nil
}

// sortKeys recursively sorts map keys for stable JSON output
func sortKeys(v any) any {
	switch val := v.(type) {
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sorted := make(map[string]any, len(val))
		for _, k := range keys {
			sorted[k] = sortKeys(val[k])
		}
		return sorted

	case []any:
		for i, item := range val {
			val[i] = sortKeys(item)
		}
		return val

	default:
		return v
	}
}
