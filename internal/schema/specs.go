package schema

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// SpecEntry is one authored acceptance criterion attached to a
// collection-defining node via the `specs` keyword.
type SpecEntry struct {
	ID    string `json:"id" validate:"required"`
	Title string `json:"title" validate:"required"`
	Given string `json:"given" validate:"required"`
	When  string `json:"when" validate:"required"`
	Then  string `json:"then" validate:"required"`
}

// specIDPattern is the PREFIX-ENTITY-NNN convention: an uppercase domain
// prefix, an uppercase entity token, and a zero-padded sequence number.
var specIDPattern = regexp.MustCompile(`^[A-Z][A-Z0-9]*-[A-Z][A-Z0-9]*-\d{3,}$`)

var specValidate = validator.New()

// Validate checks one entry for required fields and id convention.
func (e SpecEntry) Validate() error {
	if err := specValidate.Struct(e); err != nil {
		return fmt.Errorf("spec entry %q: %w", e.ID, err)
	}
	if !specIDPattern.MatchString(e.ID) {
		return fmt.Errorf("spec entry id %q does not match PREFIX-ENTITY-NNN", e.ID)
	}
	return nil
}

// ValidateSpecs checks every spec entry reachable from the node, including
// id uniqueness within the document.
func ValidateSpecs(node *Node) error {
	seen := make(map[string]bool)
	var walk func(*Node) error
	walk = func(n *Node) error {
		if n == nil {
			return nil
		}
		for _, entry := range n.Specs {
			if err := entry.Validate(); err != nil {
				return err
			}
			if seen[entry.ID] {
				return fmt.Errorf("duplicate spec entry id %q", entry.ID)
			}
			seen[entry.ID] = true
		}
		for _, child := range n.Properties {
			if err := walk(child); err != nil {
				return err
			}
		}
		if err := walk(n.Items); err != nil {
			return err
		}
		for _, child := range n.TupleItems {
			if err := walk(child); err != nil {
				return err
			}
		}
		for _, list := range [][]*Node{n.AnyOf, n.OneOf, n.AllOf} {
			for _, child := range list {
				if err := walk(child); err != nil {
					return err
				}
			}
		}
		for _, child := range n.Definitions {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(node)
}

// CollectSpecs gathers every spec entry reachable from the node in a stable
// order: depth-first, properties and definitions visited by sorted name.
func CollectSpecs(node *Node) []SpecEntry {
	var out []SpecEntry
	var walk func(*Node)
	walk = func(n *Node) {
		if n == nil {
			return
		}
		out = append(out, n.Specs...)
		for _, name := range sortedKeys(n.Properties) {
			walk(n.Properties[name])
		}
		walk(n.Items)
		for _, child := range n.TupleItems {
			walk(child)
		}
		for _, list := range [][]*Node{n.AnyOf, n.OneOf, n.AllOf} {
			for _, child := range list {
				walk(child)
			}
		}
		for _, name := range sortedKeys(n.Definitions) {
			walk(n.Definitions[name])
		}
	}
	walk(node)
	return out
}

func sortedKeys(m map[string]*Node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EntityToken extracts the entity segment of a spec id, e.g.
// "TBL-FIELD-001" yields "FIELD". Returns "" when the id is malformed.
func EntityToken(id string) string {
	parts := strings.Split(id, "-")
	if len(parts) < 3 {
		return ""
	}
	return parts[1]
}
