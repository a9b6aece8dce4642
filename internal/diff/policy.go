package diff

import (
	"sort"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

// knownCollections maps a foreign-reference property name to the root
// collection it points at. The recognition is deliberately name-based and
// domain-specific; it lives here so the convention can be swapped without
// touching the differ.
var knownCollections = map[string]string{
	"table":      "tables",
	"tableId":    "tables",
	"table_id":   "tables",
	"page":       "pages",
	"automation": "automations",
	"connection": "connections",
}

// DependencyEdges derives cross-collection dependency edges for a property
// path. Automations always build on tables; page-like collections depend on
// whichever collections their variants reference by property name.
func DependencyEdges(path string, vision *schema.Node) []string {
	root := path
	if idx := strings.Index(path, "."); idx >= 0 {
		root = path[:idx]
	}

	deps := make(map[string]bool)

	if root == "automations" || strings.HasPrefix(root, "automation") {
		deps["tables"] = true
	}

	if root == "pages" {
		collectForeignRefs(vision, deps)
	}

	delete(deps, root)
	if len(deps) == 0 {
		return nil
	}
	out := make([]string, 0, len(deps))
	for dep := range deps {
		out = append(out, dep)
	}
	sort.Strings(out)
	return out
}

// collectForeignRefs scans a subtree's variants and properties for property
// names that literally name a foreign collection reference.
func collectForeignRefs(node *schema.Node, deps map[string]bool) {
	if node == nil {
		return
	}
	for name, child := range node.Properties {
		if collection, ok := knownCollections[name]; ok {
			deps[collection] = true
		}
		collectForeignRefs(child, deps)
	}
	collectForeignRefs(node.Items, deps)
	for _, variant := range node.Variants() {
		collectForeignRefs(variant, deps)
	}
	for _, child := range node.AllOf {
		collectForeignRefs(child, deps)
	}
}
