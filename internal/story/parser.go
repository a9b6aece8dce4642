package story

import (
	"fmt"
	"regexp"
	"strings"
)

// storyPattern is the authored story grammar: GIVEN … WHEN … THEN …,
// case-insensitive, each clause non-empty.
var storyPattern = regexp.MustCompile(`(?is)^\s*given\s+(.+?)\s+when\s+(.+?)\s+then\s+(.+?)\s*$`)

// Parse parses one authored story string into a scenario. Strings that do
// not match the three-keyword shape return an error; callers drop them with
// a warning rather than aborting extraction.
func Parse(raw string) (Scenario, error) {
	match := storyPattern.FindStringSubmatch(raw)
	if match == nil {
		return Scenario{}, fmt.Errorf("story %q does not match GIVEN … WHEN … THEN …", truncate(raw))
	}
	return Scenario{
		Given: strings.TrimSpace(match[1]),
		When:  strings.TrimSpace(match[2]),
		Then:  strings.TrimSpace(match[3]),
		Tag:   TagSpec,
	}, nil
}

func truncate(s string) string {
	const max = 60
	if len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
