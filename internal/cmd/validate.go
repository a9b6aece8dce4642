package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/blueprint"
	"github.com/omnera-dev/schemapipe/internal/codegen"
	"github.com/omnera-dev/schemapipe/internal/traverse"
)

var validateFormat string

var validateCmd = &cobra.Command{
	Use:   "validate [property-path...]",
	Short: "Validate generated modules without writing them",
	Long: `Regenerate the validation module for each property path and structurally
re-check it against its source node. Errors block downstream consumption;
warnings are advisory.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	vision, err := resolveSchema(cfg.VisionSchema)
	if err != nil {
		return err
	}

	paths := args
	if len(paths) == 0 {
		paths = rootPropertyPaths(vision)
	}

	generator := codegen.New(vision.Definitions)

	type pathResult struct {
		Path   string           `json:"path" yaml:"path"`
		Result blueprint.Result `json:"result" yaml:"result"`
	}
	var results []pathResult
	failed := 0

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
		if !result.Valid {
			failed++
		}
		results = append(results, pathResult{Path: path, Result: result})
	}

	if validateFormat == "json" || validateFormat == "yaml" {
		if err := writeFormatted(cmd, results, validateFormat); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid=%v errors=%d warnings=%d\n",
				r.Path, r.Result.Valid, len(r.Result.Errors), len(r.Result.Warnings))
			for _, issue := range r.Result.Errors {
				fmt.Fprintf(cmd.OutOrStdout(), "  error: %s\n", issue.Message)
			}
			for _, issue := range r.Result.Warnings {
				fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s\n", issue.Message)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d module(s) failed validation", failed)
	}
	return nil
}

func init() {
	validateCmd.Flags().StringVar(&validateFormat, "format", "text", "output format (text, json, yaml)")
	rootCmd.AddCommand(validateCmd)
}
