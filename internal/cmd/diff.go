package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/diff"
	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/ux"
)

var diffFormat string

var diffCmd = &cobra.Command{
	Use:   "diff",
	Short: "Compare the implemented schema against the vision schema",
	Long: `Resolve both the vision schema and the currently implemented schema, walk
every addressable property of the vision tree, and classify each one as
complete, partial, or missing with a weighted completion score.`,
	RunE: runDiff,
}

func runDiff(cmd *cobra.Command, args []string) error {
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
		} else {
			log.DefaultLogger().Warn("current schema not found, diffing against nothing",
				"path", cfg.CurrentSchema)
		}
	}

	warnLockDrift(vision)

	statuses := diff.CompareTrees(current, vision)
	report := diff.BuildReport(statuses)

	switch diffFormat {
	case "json", "yaml":
		payload := struct {
			Report     diff.Report           `json:"report" yaml:"report"`
			Properties []diff.PropertyStatus `json:"properties" yaml:"properties"`
		}{report, statuses}
		return writeFormatted(cmd, payload, diffFormat)
	default:
		fmt.Fprint(cmd.OutOrStdout(), ux.RenderReport(report, statuses))
		return nil
	}
}

// warnLockDrift compares the vision tree against the recorded lock snapshot.
func warnLockDrift(vision *schema.Node) {
	previous, err := schema.LoadLock(cfg.LockPath)
	if err != nil {
		return
	}
	lock, err := schema.GenerateLock(vision, cfg.Version)
	if err != nil {
		return
	}
	for _, name := range lock.Changed(previous) {
		log.DefaultLogger().Warn("vision schema changed since last snapshot", "entry", name)
	}
}

func init() {
	diffCmd.Flags().StringVar(&diffFormat, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(diffCmd)
}
