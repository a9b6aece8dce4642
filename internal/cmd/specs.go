package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/story"
	"github.com/omnera-dev/schemapipe/internal/traverse"
)

var (
	specsFormat     string
	specsSynthesize bool
)

var specsCmd = &cobra.Command{
	Use:   "specs [property-path...]",
	Short: "Extract behavioral scenarios for property paths",
	Long: `Collect the authored Given/When/Then stories for each property path,
inherited up the path hierarchy and deduplicated, and report them together
with the canonical element identifiers for UI test hooks. With --synthesize,
mechanical scenarios derived from constraint metadata are added.

Acceptance spec entries attached via the specs keyword are checked for id
convention and uniqueness, and the entries on each requested path are
reported as spec-tagged scenarios alongside the authored stories.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSpecs,
}

func runSpecs(cmd *cobra.Command, args []string) error {
	vision, err := resolveSchema(cfg.VisionSchema)
	if err != nil {
		return err
	}

	if err := schema.ValidateSpecs(vision); err != nil {
		return fmt.Errorf("spec entries: %w", err)
	}

	extractor := story.NewExtractor(vision, log.DefaultLogger())

	var results []story.PropertyScenarios
	for _, path := range args {
		scenarios := extractor.Extract(path)
		if specsSynthesize {
			node, err := traverse.Get(vision, path)
			if err != nil {
				return fmt.Errorf("locate %s: %w", path, err)
			}
			scenarios.Scenarios = append(scenarios.Scenarios, story.Synthesize(path, node)...)
		}
		results = append(results, scenarios)
	}

	if specsFormat == "text" {
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d scenario(s))\n", r.Path, len(r.Scenarios))
			for _, s := range r.Scenarios {
				fmt.Fprintf(cmd.OutOrStdout(), "  [%s] GIVEN %s WHEN %s THEN %s\n",
					s.Tag, s.Given, s.When, s.Then)
			}
			for _, id := range r.ElementIDs {
				fmt.Fprintf(cmd.OutOrStdout(), "  id: %s\n", id)
			}
		}
		return nil
	}
	return writeFormatted(cmd, results, specsFormat)
}

func init() {
	specsCmd.Flags().StringVar(&specsFormat, "format", "text", "output format (text, json, yaml)")
	specsCmd.Flags().BoolVar(&specsSynthesize, "synthesize", false, "add mechanical scenarios derived from constraints")
	rootCmd.AddCommand(specsCmd)
}
