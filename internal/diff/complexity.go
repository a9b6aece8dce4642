package diff

import (
	"math"

	"github.com/omnera-dev/schemapipe/internal/schema"
)

// Complexity scores how much work a vision node represents. The score is
// recursive: nested properties contribute half of their own score and union
// variants contribute thirty percent of theirs, so deep structure raises the
// estimate without dominating it.
func Complexity(node *schema.Node) int {
	return int(math.Round(complexityScore(node)))
}

func complexityScore(node *schema.Node) float64 {
	if node == nil {
		return 0
	}

	var score float64

	switch node.Kind() {
	case schema.KindObject:
		score += 10
	case schema.KindArray:
		score += 5
	case schema.KindReference:
		// Unresolved reference marker: the subtree is opaque, assume work.
		score += 10
	}

	for _, prop := range node.Properties {
		score += 10 + 0.5*complexityScore(prop)
	}

	score += 5 * float64(countConstraints(node))

	for _, variant := range node.Variants() {
		score += 15 + 0.3*complexityScore(variant)
	}

	if node.Items != nil {
		score += 0.5 * complexityScore(node.Items)
	}

	return score
}

// countConstraints counts the validation keywords present on a node.
func countConstraints(node *schema.Node) int {
	count := 0
	if node.Pattern != "" {
		count++
	}
	if node.MinLength != nil {
		count++
	}
	if node.MaxLength != nil {
		count++
	}
	if node.Minimum != nil {
		count++
	}
	if node.Maximum != nil {
		count++
	}
	if node.ExclusiveMinimum != nil {
		count++
	}
	if node.ExclusiveMaximum != nil {
		count++
	}
	if node.MinItems != nil {
		count++
	}
	if node.MaxItems != nil {
		count++
	}
	if len(node.Enum) > 0 {
		count++
	}
	if node.HasConst {
		count++
	}
	return count
}
