package diff

import (
	"fmt"
	"reflect"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Compare classifies how completely current implements vision at the given
// path. It is a total function: an absent current node yields a missing
// status with 0% completion, never an error.
func Compare(path string, current, vision *schema.Node) PropertyStatus {
	status := PropertyStatus{
		Path:         path,
		Complexity:   Complexity(vision),
		Dependencies: DependencyEdges(path, vision),
	}

	if current == nil {
		status.Status = StatusMissing
		status.CompletionPercent = 0
		status.MissingFeatures = missingFeatures(nil, vision)
		return status
	}

	matched, total := countChecks(current, vision)
	if total == 0 {
		// Nothing to validate: a trivial property counts as fully implemented.
		status.Status = StatusComplete
		status.CompletionPercent = 100
		return status
	}

	status.CompletionPercent = float64(matched) / float64(total) * 100
	status.MissingFeatures = missingFeatures(current, vision)
	status.Status = classify(current, vision)
	if status.Status == StatusMissing {
		status.CompletionPercent = 0
	}
	return status
}

// classify applies the status rule: complete when type, required set, and
// every vision property all match; partial when at least something matches
// and a type is declared; missing otherwise.
func classify(current, vision *schema.Node) Status {
	typeMatch := current.Type == vision.Type
	requiredMatch := len(vision.Required) == 0 || requiredEqual(current.Required, vision.Required)

	presentProps := 0
	for name := range vision.Properties {
		if _, ok := current.Properties[name]; ok {
			presentProps++
		}
	}
	allProps := len(vision.Properties) == 0 || presentProps == len(vision.Properties)

	if typeMatch && requiredMatch && allProps && itemsMatch(current, vision) {
		return StatusComplete
	}

	if len(vision.Properties) > 0 && presentProps == 0 {
		return StatusMissing
	}
	if current.Type != "" {
		return StatusPartial
	}
	return StatusMissing
}

// requiredEqual compares two required sets by their serialized form.
func requiredEqual(current, vision []string) bool {
	curJSON, err := json.Marshal(current)
	if err != nil {
		return false
	}
	visJSON, err := json.Marshal(vision)
	if err != nil {
		return false
	}
	return string(curJSON) == string(visJSON)
}

// itemsMatch reports whether array item schemas agree at the type level.
func itemsMatch(current, vision *schema.Node) bool {
	if vision.Items == nil {
		return true
	}
	if current.Items == nil {
		return false
	}
	return current.Items.Type == vision.Items.Type
}

// constraintField is one weighted validation check.
type constraintField struct {
	name    string
	present func(*schema.Node) bool
	matches func(current, vision *schema.Node) bool
}

var constraintFields = []constraintField{
	{"pattern",
		func(n *schema.Node) bool { return n.Pattern != "" },
		func(c, v *schema.Node) bool { return c.Pattern == v.Pattern }},
	{"minLength",
		func(n *schema.Node) bool { return n.MinLength != nil },
		func(c, v *schema.Node) bool { return c.MinLength != nil && *c.MinLength == *v.MinLength }},
	{"maxLength",
		func(n *schema.Node) bool { return n.MaxLength != nil },
		func(c, v *schema.Node) bool { return c.MaxLength != nil && *c.MaxLength == *v.MaxLength }},
	{"minimum",
		func(n *schema.Node) bool { return n.Minimum != nil },
		func(c, v *schema.Node) bool { return c.Minimum != nil && *c.Minimum == *v.Minimum }},
	{"maximum",
		func(n *schema.Node) bool { return n.Maximum != nil },
		func(c, v *schema.Node) bool { return c.Maximum != nil && *c.Maximum == *v.Maximum }},
	{"minItems",
		func(n *schema.Node) bool { return n.MinItems != nil },
		func(c, v *schema.Node) bool { return c.MinItems != nil && *c.MinItems == *v.MinItems }},
	{"maxItems",
		func(n *schema.Node) bool { return n.MaxItems != nil },
		func(c, v *schema.Node) bool { return c.MaxItems != nil && *c.MaxItems == *v.MaxItems }},
	{"enum",
		func(n *schema.Node) bool { return len(n.Enum) > 0 },
		func(c, v *schema.Node) bool { return reflect.DeepEqual(c.Enum, v.Enum) }},
}

// countChecks tallies the weighted completion checks: type match, each
// constraint field declared on vision, each vision property name, and each
// union variant up to the shorter variant list.
func countChecks(current, vision *schema.Node) (matched, total int) {
	if vision.Type != "" {
		total++
		if current.Type == vision.Type {
			matched++
		}
	}

	for _, field := range constraintFields {
		if !field.present(vision) {
			continue
		}
		total++
		if field.matches(current, vision) {
			matched++
		}
	}

	for name := range vision.Properties {
		total++
		if _, ok := current.Properties[name]; ok {
			matched++
		}
	}

	if visVariants := vision.Variants(); len(visVariants) > 0 {
		total += len(visVariants)
		curVariants := len(current.Variants())
		if curVariants > len(visVariants) {
			curVariants = len(visVariants)
		}
		matched += curVariants
	}

	return matched, total
}

// missingFeatures lists what the implemented node still lacks, in order:
// unmet validation fields, missing properties (with their title or
// description when authored), a missing-items marker, and the count of
// missing union variants.
func missingFeatures(current, vision *schema.Node) []string {
	var features []string

	for _, field := range constraintFields {
		if !field.present(vision) {
			continue
		}
		if current == nil || !field.matches(current, vision) {
			features = append(features, fmt.Sprintf("Validation: %s", field.name))
		}
	}

	for _, name := range sortedPropertyNames(vision) {
		if current != nil {
			if _, ok := current.Properties[name]; ok {
				continue
			}
		}
		features = append(features, propertyFeature(name, vision.Properties[name]))
	}

	if vision.Items != nil && (current == nil || current.Items == nil) {
		features = append(features, "Array items definition")
	}

	if visVariants := vision.Variants(); len(visVariants) > 0 {
		curCount := 0
		if current != nil {
			curCount = len(current.Variants())
		}
		if missing := len(visVariants) - curCount; missing > 0 {
			features = append(features, fmt.Sprintf("%d missing union variant(s)", missing))
		}
	}

	return features
}

func propertyFeature(name string, node *schema.Node) string {
	feature := fmt.Sprintf("Property: %s", name)
	if node == nil {
		return feature
	}
	switch {
	case node.Title != "":
		return fmt.Sprintf("%s (%s)", feature, node.Title)
	case node.Description != "":
		return fmt.Sprintf("%s (%s)", feature, node.Description)
	}
	return feature
}

func sortedPropertyNames(n *schema.Node) []string {
	if n == nil {
		return nil
	}
	names := make([]string, 0, len(n.Properties))
	for name := range n.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
