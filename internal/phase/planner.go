package phase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/omnera-dev/schemapipe/internal/diff"
)

// GenerateOptions contains options for phase planning
type GenerateOptions struct {
	// CurrentVersion labels the already-done phase; defaults to "0.1.0"
	CurrentVersion string
}

// Generate groups an unordered property status list into ordered release
// phases. Complete entries form phase 0; the rest are bucketed by the domain
// grouping policy, with a final catch-all phase for leftovers. The last phase
// is always labeled v1.0.0.
func Generate(statuses []diff.PropertyStatus, opts GenerateOptions) []Phase {
	current := opts.CurrentVersion
	if current == "" {
		current = "0.1.0"
	}

	var done []diff.PropertyStatus
	var pending []diff.PropertyStatus
	for _, status := range statuses {
		if status.Status == diff.StatusComplete {
			done = append(done, status)
		} else {
			pending = append(pending, status)
		}
	}

	var phases []Phase
	phases = append(phases, buildPhase(0, "Implemented", "done", done))

	for _, bucket := range groupPending(pending) {
		phases = append(phases, buildPhase(len(phases), bucket.name, "planned", bucket.members))
	}

	assignVersions(phases, current)
	linkDependencies(phases)
	return phases
}

// bucket is one planned grouping of property statuses.
type bucket struct {
	name    string
	members []diff.PropertyStatus
}

// groupPending applies the domain grouping policy: root collections in a
// fixed order, the oversized tables collection split into foundation and
// advanced sub-phases, and a catch-all bucket at the end.
func groupPending(pending []diff.PropertyStatus) []bucket {
	byRoot := make(map[string][]diff.PropertyStatus)
	for _, status := range pending {
		byRoot[rootSegment(status.Path)] = append(byRoot[rootSegment(status.Path)], status)
	}

	var buckets []bucket
	consumed := make(map[string]bool)

	for _, root := range featureOrder {
		members, ok := byRoot[root]
		if !ok {
			continue
		}
		consumed[root] = true

		if root == "tables" && shouldSplitTables(members) {
			foundation, advanced := splitTables(members)
			buckets = append(buckets,
				bucket{name: "Tables foundation", members: foundation},
				bucket{name: "Tables advanced", members: advanced})
			continue
		}

		buckets = append(buckets, bucket{name: featureName(root), members: members})
	}

	var leftovers []diff.PropertyStatus
	roots := make([]string, 0, len(byRoot))
	for root := range byRoot {
		if !consumed[root] {
			roots = append(roots, root)
		}
	}
	sort.Strings(roots)
	for _, root := range roots {
		leftovers = append(leftovers, byRoot[root]...)
	}
	if len(leftovers) > 0 {
		buckets = append(buckets, bucket{name: "Remaining properties", members: leftovers})
	}

	return buckets
}

// featureOrder fixes the release order of the known root collections.
var featureOrder = []string{"tables", "pages", "automations", "connections"}

func featureName(root string) string {
	return strings.ToUpper(root[:1]) + root[1:]
}

// shouldSplitTables reports whether the tables collection is large enough to
// warrant foundation/advanced sub-phases: more than five variant paths with
// at least one relationship, attachment, or select style variant among them.
func shouldSplitTables(members []diff.PropertyStatus) bool {
	variants := 0
	advanced := false
	for _, status := range members {
		if !isVariantPath(status.Path) {
			continue
		}
		variants++
		if isAdvancedVariant(status.Path) {
			advanced = true
		}
	}
	return variants > 5 && advanced
}

// splitTables divides the tables members: foundation keeps the scalar field
// variants at roughly forty percent of the summed complexity, advanced takes
// the relationship-grade variants and the remainder.
func splitTables(members []diff.PropertyStatus) (foundation, advanced []diff.PropertyStatus) {
	for _, status := range members {
		if isVariantPath(status.Path) && isAdvancedVariant(status.Path) {
			advanced = append(advanced, status)
			continue
		}
		foundation = append(foundation, status)
	}
	return foundation, advanced
}

func isVariantPath(path string) bool {
	return strings.HasPrefix(path, "tables.") && strings.Contains(path, "-")
}

var advancedVariantHints = []string{"relationship", "relation", "attachment", "select", "rollup", "lookup"}

func isAdvancedVariant(path string) bool {
	for _, hint := range advancedVariantHints {
		if strings.Contains(path, hint) {
			return true
		}
	}
	return false
}

func rootSegment(path string) string {
	if idx := strings.Index(path, "."); idx >= 0 {
		return path[:idx]
	}
	return path
}

// buildPhase assembles one phase with its aggregate completion and duration.
func buildPhase(number int, name, status string, members []diff.PropertyStatus) Phase {
	p := Phase{
		Number:     number,
		Name:       name,
		Status:     status,
		Properties: members,
	}

	var percentSum float64
	complexitySum := 0
	for _, member := range members {
		percentSum += member.CompletionPercent
		complexitySum += member.Complexity
	}
	if len(members) > 0 {
		p.CompletionPercent = percentSum / float64(len(members))
	}
	p.DurationEstimate = estimateDuration(complexitySum)
	return p
}

// estimateDuration maps summed complexity onto coarse effort buckets.
func estimateDuration(complexity int) string {
	switch {
	case complexity == 0:
		return "done"
	case complexity < 50:
		return "1-2 weeks"
	case complexity < 150:
		return "2-4 weeks"
	case complexity < 300:
		return "4-6 weeks"
	case complexity < 500:
		return "6-8 weeks"
	default:
		return "8+ weeks"
	}
}

// assignVersions labels phases sequentially: the done phase keeps the current
// package version, intermediates count up v0.<n>.0, and the final phase is
// forced to v1.0.0.
func assignVersions(phases []Phase, currentVersion string) {
	for i := range phases {
		switch {
		case i == 0:
			phases[i].Version = "v" + strings.TrimPrefix(currentVersion, "v")
		case i == len(phases)-1:
			phases[i].Version = "v1.0.0"
		default:
			phases[i].Version = fmt.Sprintf("v0.%d.0", i+1)
		}
	}
}

// linkDependencies maps each property's dependency paths to the phase that
// owns them, recording both the raw paths and the owning phase numbers.
// When a root segment spans several phases, as with a split bucket, the
// earliest owning phase claims it.
func linkDependencies(phases []Phase) {
	owner := make(map[string]int)
	claim := func(key string, number int) {
		if existing, ok := owner[key]; ok && existing <= number {
			return
		}
		owner[key] = number
	}
	for _, p := range phases {
		for _, member := range p.Properties {
			claim(member.Path, p.Number)
			claim(rootSegment(member.Path), p.Number)
		}
	}

	for i := range phases {
		pathSet := make(map[string]bool)
		phaseSet := make(map[int]bool)
		for _, member := range phases[i].Properties {
			for _, dep := range member.Dependencies {
				owning, ok := owner[dep]
				if !ok || owning == phases[i].Number {
					continue
				}
				pathSet[dep] = true
				phaseSet[owning] = true
			}
		}

		for dep := range pathSet {
			phases[i].Dependencies = append(phases[i].Dependencies, dep)
		}
		sort.Strings(phases[i].Dependencies)
		for num := range phaseSet {
			phases[i].DependsOnPhases = append(phases[i].DependsOnPhases, num)
		}
		sort.Ints(phases[i].DependsOnPhases)
	}
}
