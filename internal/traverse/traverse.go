package traverse

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/errors"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Get returns the schema node addressed by a dot-joined property path within
// a resolved tree.
//
// Three path shapes are understood:
//   - "name": a top-level root property. Array-valued collection properties
//     resolve to their singular element definition when one exists (e.g.
//     "tables" resolves to definitions["table"]).
//   - "prefix.a.b" where prefix names a definition with an anyOf/oneOf
//     variant list: navigates to the variant selected by the (a, b)
//     discriminant pair.
//   - any other dotted path: walked property by property, descending through
//     array items as needed.
func Get(tree *schema.Node, path string) (*schema.Node, error) {
	if tree == nil {
		return nil, errors.New(errors.ErrCodePropertyNotFound, "traverse: nil tree")
	}
	segments := strings.Split(path, ".")

	if len(segments) == 3 {
		if def := lookupDefinition(tree, segments[0]); def != nil && len(def.Variants()) > 0 {
			variant := FindVariant(def, segments[1], segments[2])
			if variant != nil {
				return variant, nil
			}
			return nil, errors.New(errors.ErrCodeVariantNotFound,
				fmt.Sprintf("no variant of %q matches discriminants (%s, %s)",
					segments[0], segments[1], segments[2]))
		}
	}

	cur := tree
	for i, seg := range segments {
		next := childByName(cur, seg)
		if next == nil && i == 0 {
			next = lookupDefinition(tree, seg)
		}
		if next == nil {
			return nil, errors.New(errors.ErrCodePropertyNotFound,
				fmt.Sprintf("property %q not found (at segment %q)", path, seg))
		}
		cur = next
	}

	// A root collection property stands for its element definition.
	if len(segments) == 1 && cur.Kind() == schema.KindArray {
		if def := singularDefinition(tree, segments[0]); def != nil {
			return def, nil
		}
	}

	return cur, nil
}

// childByName finds the named child of a node, descending through array
// items when the node itself has no matching property.
func childByName(n *schema.Node, name string) *schema.Node {
	if n == nil {
		return nil
	}
	if child, ok := n.Properties[name]; ok {
		return child
	}
	if n.Items != nil {
		if child, ok := n.Items.Properties[name]; ok {
			return child
		}
	}
	return nil
}

// Definition finds a named top-level definition, tolerating -/_ separator
// differences.
func Definition(tree *schema.Node, name string) *schema.Node {
	return lookupDefinition(tree, name)
}

// lookupDefinition finds a named definition, tolerating -/_ separator
// differences.
func lookupDefinition(tree *schema.Node, name string) *schema.Node {
	if def, ok := tree.Definitions[name]; ok {
		return def
	}
	want := normalizeToken(name)
	for defName, def := range tree.Definitions {
		if normalizeToken(defName) == want {
			return def
		}
	}
	return nil
}

// singularDefinition maps a root collection property to its element
// definition, e.g. "tables" to definitions["table"].
func singularDefinition(tree *schema.Node, collection string) *schema.Node {
	if !strings.HasSuffix(collection, "s") || len(collection) < 2 {
		return nil
	}
	return lookupDefinition(tree, strings.TrimSuffix(collection, "s"))
}

// FindVariant locates the variant of a definition selected by a discriminant
// pair. The definition's top-level variant list holds unlabeled groups; when
// a group carries its own nested anyOf/oneOf the nested list is scanned for a
// variant whose properties include two constant-valued fields matching the
// pair. The first structural match wins.
func FindVariant(def *schema.Node, a, b string) *schema.Node {
	for _, group := range def.Variants() {
		if group == nil {
			continue
		}
		if nested := group.Variants(); len(nested) > 0 {
			for _, variant := range nested {
				if MatchesDiscriminants(variant, a, b) {
					return variant
				}
			}
			continue
		}
		if MatchesDiscriminants(group, a, b) {
			return group
		}
	}
	return nil
}

// MatchesDiscriminants reports whether the variant's properties contain two
// distinct constant-valued fields equal to a and b. Comparison is
// case-insensitive and treats - and _ as the same separator.
func MatchesDiscriminants(variant *schema.Node, a, b string) bool {
	if variant == nil || len(variant.Properties) == 0 {
		return false
	}
	wantA, wantB := normalizeToken(a), normalizeToken(b)

	matchedA, matchedB := "", ""
	for name, prop := range variant.Properties {
		val, ok := constString(prop)
		if !ok {
			continue
		}
		got := normalizeToken(val)
		if got == wantA && matchedA == "" {
			matchedA = name
			continue
		}
		if got == wantB && matchedB == "" {
			matchedB = name
		}
	}
	return matchedA != "" && matchedB != "" && matchedA != matchedB
}

// DiscriminantPairs enumerates the (a, b) constant pairs of every leaf
// variant of a trigger/action style definition, in variant-list order. Leaf
// variants without a recognizable pair are skipped.
func DiscriminantPairs(def *schema.Node) [][2]string {
	var pairs [][2]string
	appendPair := func(variant *schema.Node) {
		if a, b, ok := discriminantPair(variant); ok {
			pairs = append(pairs, [2]string{a, b})
		}
	}
	for _, group := range def.Variants() {
		if group == nil {
			continue
		}
		if nested := group.Variants(); len(nested) > 0 {
			for _, variant := range nested {
				appendPair(variant)
			}
			continue
		}
		appendPair(group)
	}
	return pairs
}

// discriminantPair extracts a variant's (service, event) style constant pair.
// The first constant property in sorted-name order is the primary
// discriminant unless the conventional names are present.
func discriminantPair(variant *schema.Node) (string, string, bool) {
	if variant == nil {
		return "", "", false
	}

	if a, okA := constString(variant.Properties["service"]); okA {
		for _, secondary := range []string{"event", "action"} {
			if b, okB := constString(variant.Properties[secondary]); okB {
				return a, b, true
			}
		}
	}

	var consts []string
	byName := make(map[string]string)
	for name, prop := range variant.Properties {
		if val, ok := constString(prop); ok {
			consts = append(consts, name)
			byName[name] = val
		}
	}
	if len(consts) < 2 {
		return "", "", false
	}
	sort.Strings(consts)
	return byName[consts[0]], byName[consts[1]], true
}

// constString returns a property's constant value as a string.
func constString(n *schema.Node) (string, bool) {
	if n == nil || !n.HasConst {
		return "", false
	}
	s, ok := n.Const.(string)
	return s, ok
}

func normalizeToken(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), "-", "_")
}
