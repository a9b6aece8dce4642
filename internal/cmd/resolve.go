package cmd

import (
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/omnera-dev/schemapipe/internal/log"
	"github.com/omnera-dev/schemapipe/internal/resolver"
	"github.com/omnera-dev/schemapipe/internal/schema"
)

var (
	resolveOut    string
	resolveLock   bool
	resolveStrict bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve [schema-file]",
	Short: "Dereference a schema tree",
	Long: `Load a schema document and inline every cross-file reference reachable from
it. Resolution is best-effort: unreadable files, dead fragment pointers, and
reference cycles leave their $ref in place and are reported at the end.

With --lock, the resolved tree's per-property fingerprints are snapshotted to
the lock file for later change detection.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	schemaPath := cfg.VisionSchema
	if len(args) == 1 {
		schemaPath = args[0]
	}

	resolved, err := resolveSchema(schemaPath)
	if err != nil {
		return err
	}

	leftover := resolver.Unresolved(resolved)
	for _, path := range leftover {
		log.DefaultLogger().Warn("subtree incomplete after resolution", "path", path)
	}

	data, err := json.MarshalIndent(resolved, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal resolved tree: %w", err)
	}

	if resolveOut != "" {
		if err := os.WriteFile(resolveOut, data, 0644); err != nil {
			return fmt.Errorf("write resolved tree: %w", err)
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
	}

	if resolveLock {
		lock, err := schema.GenerateLock(resolved, cfg.Version)
		if err != nil {
			return fmt.Errorf("generate lock: %w", err)
		}
		if err := schema.SaveLock(lock, cfg.LockPath); err != nil {
			return fmt.Errorf("save lock: %w", err)
		}
		log.DefaultLogger().Info("lock written", "path", cfg.LockPath, "entries", len(lock.Entries))
	}

	if resolveStrict && len(leftover) > 0 {
		return fmt.Errorf("%d unresolved reference(s) remain", len(leftover))
	}
	return nil
}

// resolveSchema loads and dereferences one schema document with a fresh
// per-run resolution context.
func resolveSchema(path string) (*schema.Node, error) {
	ctx := resolver.NewContext(resolver.WithLogger(log.DefaultLogger()))
	resolved, err := ctx.ResolveFile(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	return resolved, nil
}

func init() {
	resolveCmd.Flags().StringVar(&resolveOut, "out", "", "write the resolved tree to a file instead of stdout")
	resolveCmd.Flags().BoolVar(&resolveLock, "lock", false, "snapshot resolved fingerprints to the lock file")
	resolveCmd.Flags().BoolVar(&resolveStrict, "strict", false, "fail when unresolved references remain")
	rootCmd.AddCommand(resolveCmd)
}
