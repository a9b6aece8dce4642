package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/blueprint"
	"github.com/omnera-dev/schemapipe/internal/codegen"
	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/progress"
	"github.com/omnera-dev/schemapipe/internal/schema"
	"github.com/omnera-dev/schemapipe/internal/traverse"
)

var generatePaths []string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate runtime-validation modules",
	Long: `Generate one runtime-validation module per property path from the resolved
vision schema, re-check each module against its source node, and write the
accepted modules to the output directory. Any blueprint error fails the run
before anything is consumed downstream.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	vision, err := resolveSchema(cfg.VisionSchema)
	if err != nil {
		return err
	}

	paths := generatePaths
	if len(paths) == 0 {
		paths = rootPropertyPaths(vision)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	generator := codegen.New(vision.Definitions)
	logger := log.DefaultLogger()
	tracker := progress.NewTracker(progress.Config{
		Writer: cmd.ErrOrStderr(),
		Total:  len(paths),
	})

	for _, path := range paths {
		node, err := traverse.Get(vision, path)
		if err != nil {
			return fmt.Errorf("locate %s: %w", path, err)
		}

		module, err := generator.Generate(path, node)
		if err != nil {
			return fmt.Errorf("generate %s: %w", path, err)
		}

		result := blueprint.Validate(module, node)
		for _, warning := range result.Warnings {
			logger.Warn("blueprint warning", "path", path, "message", warning.Message)
		}
		if !result.Valid {
			for _, issue := range result.Errors {
				logger.Error("blueprint error", "path", path,
					"message", issue.Message, "expected", issue.Expected, "actual", issue.Actual)
			}
			tracker.Failed(path, fmt.Sprintf("%d validation error(s)", len(result.Errors)))
			continue
		}

		outPath := filepath.Join(cfg.OutputDir, module.FileName)
		if err := os.WriteFile(outPath, []byte(module.SourceText), 0644); err != nil {
			return fmt.Errorf("write module %s: %w", outPath, err)
		}
		logger.Debug("module written", "path", path, "file", outPath)
		tracker.Generated(path)
	}

	if failed := tracker.Finish(); failed > 0 {
		return fmt.Errorf("%d module(s) failed validation", failed)
	}
	return nil
}

// rootPropertyPaths lists the generation targets when none are given: every
// top-level root property, sorted.
func rootPropertyPaths(tree *schema.Node) []string {
	paths := make([]string, 0, len(tree.Properties))
	for name := range tree.Properties {
		paths = append(paths, name)
	}
	sort.Strings(paths)
	return paths
}

func init() {
	generateCmd.Flags().StringSliceVar(&generatePaths, "path", nil, "property path(s) to generate (default: all root properties)")
	rootCmd.AddCommand(generateCmd)
}
