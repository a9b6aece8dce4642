package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/diff"
	"github.com/omnera-dev/schemapipe/internal/phase"
	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/ux"
)

var roadmapFormat string

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Plan release phases from the schema diff",
	Long: `Run the schema diff and bucket the resulting property statuses into ordered
release phases, with version labels, duration estimates, and phase-level
dependency edges.`,
	RunE: runRoadmap,
}

func runRoadmap(cmd *cobra.Command, args []string) error {
	vision, err := resolveSchema(cfg.VisionSchema)
	if err != nil {
		return err
	}

	var current *schema.Node
	if cfg.CurrentSchema != "" {
		if _, statErr := os.Stat(cfg.CurrentSchema); statErr == nil {
			current, err = resolveSchema(cfg.CurrentSchema)
			if err != nil {
				return err
			}
		}
	}

	statuses := diff.CompareTrees(current, vision)
	phases := phase.Generate(statuses, phase.GenerateOptions{CurrentVersion: cfg.Version})

	switch roadmapFormat {
	case "json", "yaml":
		return writeFormatted(cmd, phases, roadmapFormat)
	default:
		fmt.Fprint(cmd.OutOrStdout(), ux.RenderRoadmap(phases))
		return nil
	}
}

func init() {
	roadmapCmd.Flags().StringVar(&roadmapFormat, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(roadmapCmd)
}
