package cli

import (
	"fmt"

	"github.com/samvad-hq/reqtrace/internal/storage"
	"github.com/spf13/cobra"
)

func (c *CLI) tracesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traces",
		Short: "List recorded traces from the local bbolt store, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if c.cfg.StorageType != "bbolt" {
				return configError{fmt.Errorf("trace storage is disabled (set REQTRACE_STORAGE_TYPE=bbolt)")}
			}
			store, err := storage.NewStore(c.cfg.StorageType, c.cfg.BBoltPath, storage.Options{
				TraceTTL:        c.cfg.StorageTTL,
				CleanupInterval: c.cfg.StorageCleanupInterval,
			})
			if err != nil {
				return configError{fmt.Errorf("open trace store: %w", err)}
			}
			defer store.Close()

			recs, err := store.List(c.opts.limit)
			if err != nil {
				return fmt.Errorf("list traces: %w", err)
			}
			printTraces(cmd.OutOrStdout(), recs)
			return nil
		},
	}
	cmd.Flags().IntVarP(&c.opts.limit, "limit", "n", 20, "Maximum number of traces to list (0 for all)")
	return cmd
}
