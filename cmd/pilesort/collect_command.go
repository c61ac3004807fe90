package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"pilesort/internal/collect"
	"pilesort/internal/imaging"
	"pilesort/internal/preflight"
)

func newCollectCommand(ctx *commandContext) *cobra.Command {
	var destFlag string
	var keepNames bool
	var noDelete bool

	cmd := &cobra.Command{
		Use:   "collect <sorted-dir>",
		Short: "Flatten a weeded sorted tree back into a single folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			source, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve sorted dir: %w", err)
			}
			if err := preflight.CheckSource(source); err != nil {
				return err
			}

			dest := strings.TrimSpace(destFlag)
			if dest == "" {
				dest = preflight.DefaultSibling(source, "final")
			} else if dest, err = filepath.Abs(dest); err != nil {
				return fmt.Errorf("resolve destination: %w", err)
			}
			if err := preflight.EnsureDestination(dest); err != nil {
				return err
			}

			algorithm, err := imaging.ParseAlgorithm(cfg.Matching.Algorithm)
			if err != nil {
				return err
			}

			collector := collect.New(imaging.NewLoader(algorithm), logger)
			err = collector.Collect(cmd.Context(), source, dest, collect.Options{
				KeepNames:    keepNames,
				DeleteSource: !noDelete,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Collected %s into %s\n", source, dest)
			return nil
		},
	}

	cmd.Flags().StringVarP(&destFlag, "destination", "d", "", "Destination directory (default: <sorted-dir>-final)")
	cmd.Flags().BoolVar(&keepNames, "keep-names", false, "Keep original file names instead of renaming by capture time")
	cmd.Flags().BoolVar(&noDelete, "no-delete", false, "Leave the sorted tree in place after collecting")
	return cmd
}
