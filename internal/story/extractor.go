package story

import (
	"strings"

	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/traverse"
)

// Extractor collects authored behavior stories from a resolved tree. It
// reads the tree only; authored story strings stay immutable once parsed.
type Extractor struct {
	tree   *schema.Node
	logger *log.Logger
}

// NewExtractor creates an Extractor over a resolved tree.
func NewExtractor(tree *schema.Node, logger *log.Logger) *Extractor {
	if logger == nil {
		logger = log.DefaultLogger()
	}
	return &Extractor{tree: tree, logger: logger}
}

// Extract gathers the authored scenarios for a property path. Stories are
// collected from every path prefix, full path first down to the first
// segment, concatenated in walk order and deduplicated preserving first
// occurrence. Strings that fail the Given/When/Then grammar are dropped with
// a warning. All surviving scenarios carry the spec tag; authored stories
// are never auto-classified as regression or critical here. Acceptance spec
// entries attached to the matched node are appended as further spec-tagged
// scenarios.
func (e *Extractor) Extract(path string) PropertyScenarios {
	var raw []string
	for _, prefix := range prefixes(path) {
		raw = append(raw, e.storiesAt(prefix)...)
	}

	seen := make(map[string]bool)
	var scenarios []Scenario
	for _, storyText := range raw {
		if seen[storyText] {
			continue
		}
		seen[storyText] = true

		scenario, err := Parse(storyText)
		if err != nil {
			e.logger.Warn("dropping malformed authored story", "path", path, "error", err)
			continue
		}
		scenarios = append(scenarios, scenario)
	}

	var node *schema.Node
	if found, err := traverse.Get(e.tree, path); err == nil {
		node = found
	}
	scenarios = append(scenarios, specScenarios(node)...)

	return PropertyScenarios{
		Path:       path,
		Scenarios:  scenarios,
		ElementIDs: ElementIDs(path, node),
	}
}

// specScenarios converts the acceptance spec entries attached to the matched
// node, including collection entries nested under items, into spec-tagged
// scenarios. Entries are already structured triples so they skip the grammar
// parser.
func specScenarios(node *schema.Node) []Scenario {
	if node == nil {
		return nil
	}
	entries := append([]schema.SpecEntry(nil), node.Specs...)
	if node.Items != nil {
		entries = append(entries, node.Items.Specs...)
	}
	scenarios := make([]Scenario, 0, len(entries))
	for _, entry := range entries {
		scenarios = append(scenarios, Scenario{
			Given: entry.Given,
			When:  entry.When,
			Then:  entry.Then,
			Tag:   TagSpec,
		})
	}
	return scenarios
}

// prefixes lists every dot-path prefix from the full path down to the first
// segment, in that order.
func prefixes(path string) []string {
	segments := strings.Split(path, ".")
	out := make([]string, 0, len(segments))
	for i := len(segments); i >= 1; i-- {
		out = append(out, strings.Join(segments[:i], "."))
	}
	return out
}

// storiesAt reads the authored story list at one prefix, including the list
// nested one level under items. Discriminant-pair definition paths descend
// into the matched variant, falling back to the owning variant group's own
// stories when the matched leaf has none.
func (e *Extractor) storiesAt(prefix string) []string {
	segments := strings.Split(prefix, ".")
	if len(segments) == 3 {
		if stories, ok := e.discriminantStories(segments[0], segments[1], segments[2]); ok {
			return stories
		}
	}

	node, err := traverse.Get(e.tree, prefix)
	if err != nil {
		return nil
	}

	stories := append([]string(nil), node.UserStories...)
	if node.Items != nil {
		stories = append(stories, node.Items.UserStories...)
	}
	return stories
}

// discriminantStories finds the stories of a trigger/action style variant.
func (e *Extractor) discriminantStories(defName, a, b string) ([]string, bool) {
	def := traverse.Definition(e.tree, defName)
	if def == nil || len(def.Variants()) == 0 {
		return nil, false
	}

	for _, group := range def.Variants() {
		if group == nil {
			continue
		}
		for _, variant := range group.Variants() {
			if !traverse.MatchesDiscriminants(variant, a, b) {
				continue
			}
			if len(variant.UserStories) > 0 {
				return variant.UserStories, true
			}
			return group.UserStories, true
		}
		if traverse.MatchesDiscriminants(group, a, b) {
			return group.UserStories, true
		}
	}
	return nil, false
}
