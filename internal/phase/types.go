package phase

import "github.com/omnera-dev/schemapipe/internal/diff"

// Phase is one ordered release increment of the target schema.
type Phase struct {
	Number            int                   `json:"number"`
	Version           string                `json:"version"`
	Name              string                `json:"name"`
	Status            string                `json:"status"` // done, planned
	Properties        []diff.PropertyStatus `json:"properties"`
	CompletionPercent float64               `json:"completionPercent"`
	DurationEstimate  string                `json:"durationEstimate"`
	Dependencies      []string              `json:"dependencies,omitempty"` // paths owned by earlier phases
	DependsOnPhases   []int                 `json:"dependsOnPhases,omitempty"`
}
