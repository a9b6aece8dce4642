package story

// Tag classifies a behavioral scenario
type Tag string

const (
	// TagSpec marks a scenario derived from authored or constraint behavior
	TagSpec Tag = "spec"
	// TagRegression marks a full-workflow scenario
	TagRegression Tag = "regression"
	// TagCritical is reserved for downstream consumers to promote scenarios
	// by hand; no pipeline step assigns it automatically
	TagCritical Tag = "critical"
)

// Scenario is one structured Given/When/Then triple.
type Scenario struct {
	Given string `json:"given"`
	When  string `json:"when"`
	Then  string `json:"then"`
	Tag   Tag    `json:"tag"`
}

// PropertyScenarios groups the scenarios of one property path together with
// the canonical element identifiers for downstream UI test hooks.
type PropertyScenarios struct {
	Path       string     `json:"path"`
	Scenarios  []Scenario `json:"scenarios"`
	ElementIDs []string   `json:"elementIds"`
}
