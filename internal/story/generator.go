package story

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

// criticalProperties is the fixed allow-list of property names that get an
// additional minimal happy-path scenario.
var criticalProperties = map[string]bool{
	"name":        true,
	"tables":      true,
	"pages":       true,
	"automations": true,
}

// Synthesize mechanically derives scenarios from a node's constraint
// metadata, independent of any authored stories: one scenario per required
// field, per declared constraint, per object sub-field, and per union
// variant, plus exactly one regression scenario narrating the full
// configuration workflow.
func Synthesize(path string, node *schema.Node) []Scenario {
	var scenarios []Scenario
	if node == nil {
		return scenarios
	}

	for _, field := range node.Required {
		scenarios = append(scenarios, Scenario{
			Given: fmt.Sprintf("a %s configuration without %s", path, field),
			When:  "the configuration is validated",
			Then:  fmt.Sprintf("validation fails with a missing %s error", field),
			Tag:   TagSpec,
		})
	}

	scenarios = append(scenarios, constraintScenarios(path, node)...)

	for _, name := range sortedPropertyNames(node) {
		scenarios = append(scenarios, Scenario{
			Given: fmt.Sprintf("a %s configuration with a valid %s value", path, name),
			When:  "the configuration is validated",
			Then:  fmt.Sprintf("the %s value is accepted", name),
			Tag:   TagSpec,
		})
	}

	for i, variant := range node.Variants() {
		label := variant.Title
		if label == "" {
			label = fmt.Sprintf("variant %d", i+1)
		}
		scenarios = append(scenarios, Scenario{
			Given: fmt.Sprintf("a %s configuration using the %s variant", path, label),
			When:  "the configuration is validated",
			Then:  fmt.Sprintf("the %s variant is matched and accepted", label),
			Tag:   TagSpec,
		})
	}

	scenarios = append(scenarios, Scenario{
		Given: fmt.Sprintf("a user configuring %s from scratch", path),
		When:  "they complete every field, save the configuration, and reload it",
		Then:  fmt.Sprintf("the %s configuration round-trips without loss and re-validates cleanly", path),
		Tag:   TagRegression,
	})

	if criticalProperties[lastSegment(path)] {
		scenarios = append(scenarios, Scenario{
			Given: fmt.Sprintf("a minimal valid %s configuration", path),
			When:  "the configuration is validated",
			Then:  "validation succeeds with no errors",
			Tag:   TagSpec,
		})
	}

	return scenarios
}

// constraintScenarios emits one scenario per declared validation keyword.
func constraintScenarios(path string, node *schema.Node) []Scenario {
	var scenarios []Scenario
	add := func(given, then string) {
		scenarios = append(scenarios, Scenario{
			Given: given,
			When:  "the configuration is validated",
			Then:  then,
			Tag:   TagSpec,
		})
	}

	if node.MinLength != nil {
		add(fmt.Sprintf("%s shorter than %d character(s)", path, *node.MinLength),
			"validation fails with a length error")
	}
	if node.MaxLength != nil {
		add(fmt.Sprintf("%s longer than %d character(s)", path, *node.MaxLength),
			"validation fails with a length error")
	}
	if node.Pattern != "" {
		add(fmt.Sprintf("%s not matching its required format", path),
			"validation fails with a format error")
	}
	if node.Minimum != nil {
		add(fmt.Sprintf("%s below %v", path, *node.Minimum),
			"validation fails with a range error")
	}
	if node.Maximum != nil {
		add(fmt.Sprintf("%s above %v", path, *node.Maximum),
			"validation fails with a range error")
	}
	if node.MinItems != nil {
		add(fmt.Sprintf("%s with fewer than %d item(s)", path, *node.MinItems),
			"validation fails with an item-count error")
	}
	if node.MaxItems != nil {
		add(fmt.Sprintf("%s with more than %d item(s)", path, *node.MaxItems),
			"validation fails with an item-count error")
	}
	if len(node.Enum) > 0 {
		add(fmt.Sprintf("%s set to a value outside its allowed set", path),
			"validation fails with an allowed-values error")
	}

	return scenarios
}

func sortedPropertyNames(node *schema.Node) []string {
	names := make([]string, 0, len(node.Properties))
	for name := range node.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lastSegment(path string) string {
	if idx := strings.LastIndex(path, "."); idx >= 0 {
		return path[idx+1:]
	}
	return path
}
