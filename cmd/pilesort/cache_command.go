package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pilesort/internal/hashcache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Fingerprint cache maintenance",
	}

	cacheCmd.AddCommand(&cobra.Command{
		Use:   "prune",
		Short: "Drop cached fingerprints for files that no longer exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			store, err := hashcache.Open(cfg.Paths.CacheDir)
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Prune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d stale fingerprints from %s\n", removed, store.Path())
			return nil
		},
	})

	return cacheCmd
}
