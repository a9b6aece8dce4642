package diff

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/traverse"
)

// CompareTrees walks every addressable property of the vision tree and
// classifies it against the current tree: top-level root properties, nested
// object properties, array items including titled variant items, and
// top-level named definitions. Trigger/action style definitions are expanded
// into one status per discriminant-pair variant instead of being treated as
// one opaque node.
func CompareTrees(current, vision *schema.Node) []PropertyStatus {
	var statuses []PropertyStatus

	for _, name := range sortedPropertyNames(vision) {
		visChild := vision.Properties[name]
		var curChild *schema.Node
		if current != nil {
			curChild = current.Properties[name]
		}
		statuses = append(statuses, compareSubtree(name, curChild, visChild)...)
	}

	for _, name := range sortedDefinitionNames(vision) {
		visDef := vision.Definitions[name]
		var curDef *schema.Node
		if current != nil {
			curDef = current.Definitions[name]
		}
		if isDiscriminated(visDef) {
			statuses = append(statuses, expandDiscriminated(name, curDef, visDef)...)
			continue
		}
		statuses = append(statuses, Compare(name, curDef, visDef))
	}

	return statuses
}

// compareSubtree emits the status for one path and recurses into its nested
// structure.
func compareSubtree(path string, current, vision *schema.Node) []PropertyStatus {
	statuses := []PropertyStatus{Compare(path, current, vision)}

	for _, name := range sortedPropertyNames(vision) {
		visChild := vision.Properties[name]
		var curChild *schema.Node
		if current != nil {
			curChild = current.Properties[name]
		}
		statuses = append(statuses, compareSubtree(path+"."+name, curChild, visChild)...)
	}

	if vision.Items != nil {
		var curItems *schema.Node
		if current != nil {
			curItems = current.Items
		}

		for _, name := range sortedPropertyNames(vision.Items) {
			visChild := vision.Items.Properties[name]
			var curChild *schema.Node
			if curItems != nil {
				curChild = curItems.Properties[name]
			}
			statuses = append(statuses, compareSubtree(path+"."+name, curChild, visChild)...)
		}

		// Titled variant items become their own kebab-cased paths.
		for i, visVariant := range vision.Items.Variants() {
			segment := variantSegment(visVariant, i)
			curVariant := matchVariant(curItems, visVariant, i)
			statuses = append(statuses, Compare(path+"."+segment, curVariant, visVariant))
		}
	}

	return statuses
}

// expandDiscriminated flattens each discriminant-pair variant of a
// trigger/action definition into its own path and status.
func expandDiscriminated(name string, current, vision *schema.Node) []PropertyStatus {
	var statuses []PropertyStatus
	for _, pair := range traverse.DiscriminantPairs(vision) {
		path := fmt.Sprintf("%s.%s.%s", name, pair[0], pair[1])
		visVariant := traverse.FindVariant(vision, pair[0], pair[1])
		var curVariant *schema.Node
		if current != nil {
			curVariant = traverse.FindVariant(current, pair[0], pair[1])
		}
		statuses = append(statuses, Compare(path, curVariant, visVariant))
	}
	return statuses
}

// isDiscriminated reports whether a definition's variants carry constant
// discriminant pairs.
func isDiscriminated(def *schema.Node) bool {
	if def == nil {
		return false
	}
	return len(traverse.DiscriminantPairs(def)) > 0
}

// matchVariant finds the current-tree counterpart of a vision variant,
// preferring a title match and falling back to list position.
func matchVariant(currentItems *schema.Node, visVariant *schema.Node, index int) *schema.Node {
	if currentItems == nil {
		return nil
	}
	variants := currentItems.Variants()
	if visVariant.Title != "" {
		for _, candidate := range variants {
			if candidate != nil && candidate.Title == visVariant.Title {
				return candidate
			}
		}
	}
	if index < len(variants) {
		return variants[index]
	}
	return nil
}

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// variantSegment names a variant item path segment from its title,
// kebab-cased; untitled variants fall back to their list position.
func variantSegment(variant *schema.Node, index int) string {
	if variant != nil && variant.Title != "" {
		segment := nonWord.ReplaceAllString(strings.ToLower(variant.Title), "-")
		segment = strings.Trim(segment, "-")
		if segment != "" {
			return segment
		}
	}
	return fmt.Sprintf("variant-%d", index)
}

func sortedDefinitionNames(n *schema.Node) []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Definitions))
	for name := range n.Definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildReport aggregates statuses into the per-schema diff report.
func BuildReport(statuses []PropertyStatus) Report {
	report := Report{
		TotalProperties:          len(statuses),
		MissingPropertyPaths:     []string{},
		ImplementedPropertyPaths: []string{},
	}

	var percentSum float64
	for _, status := range statuses {
		percentSum += status.CompletionPercent
		if status.Status == StatusMissing {
			report.MissingProperties++
			report.MissingPropertyPaths = append(report.MissingPropertyPaths, status.Path)
			continue
		}
		report.ImplementedProperties++
		report.ImplementedPropertyPaths = append(report.ImplementedPropertyPaths, status.Path)
	}

	if len(statuses) > 0 {
		report.CompletionPercent = percentSum / float64(len(statuses))
	}

	sort.Strings(report.MissingPropertyPaths)
	sort.Strings(report.ImplementedPropertyPaths)
	return report
}
