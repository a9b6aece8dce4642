package diff

// Status classifies how completely a vision property is implemented
type Status string

const (
	// StatusComplete means the implemented node covers every vision check
	StatusComplete Status = "complete"
	// StatusPartial means the implemented node covers some vision checks
	StatusPartial Status = "partial"
	// StatusMissing means the property is absent or effectively unimplemented
	StatusMissing Status = "missing"
)

// PropertyStatus is the classification result for one addressable property
// path. Computed fresh on every differ run; never mutated after creation.
type PropertyStatus struct {
	Path              string   `json:"path"`
	Status            Status   `json:"status"`
	CompletionPercent float64  `json:"completionPercent"`
	MissingFeatures   []string `json:"missingFeatures,omitempty"`
	Complexity        int      `json:"complexity"`
	Dependencies      []string `json:"dependencies,omitempty"`
}

// Report aggregates a whole-tree comparison into per-schema totals.
type Report struct {
	TotalProperties          int      `json:"totalProperties"`
	ImplementedProperties    int      `json:"implementedProperties"`
	MissingProperties        int      `json:"missingProperties"`
	CompletionPercent        float64  `json:"completionPercent"`
	MissingPropertyPaths     []string `json:"missingPropertyPaths"`
	ImplementedPropertyPaths []string `json:"implementedPropertyPaths"`
}
