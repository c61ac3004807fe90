package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"pilesort/internal/preflight"
	"pilesort/internal/review"
)

func newOpenCommand(ctx *commandContext) *cobra.Command {
	var openerFlag string
	var skipTo int
	var skipSingletons bool

	cmd := &cobra.Command{
		Use:   "open <sorted-dir>",
		Short: "Replay the pile directories of a previous sort run",
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

			root, err := filepath.Abs(args[0])
			if err != nil {
				return fmt.Errorf("resolve sorted dir: %w", err)
			}
			if err := preflight.CheckSource(root); err != nil {
				return err
			}

			opener, err := preflight.ResolveOpener(openerFlag)
			if err != nil {
				return err
			}
			session, err := review.NewSession(cfg.Cache.HandleCapacity, logger)
			if err != nil {
				return err
			}
			return session.Run(cmd.Context(), root, review.Options{
				Opener:         opener,
				SkipTo:         skipTo,
				SkipSingletons: skipSingletons,
			})
		},
	}

	cmd.Flags().StringVar(&openerFlag, "opener", "", "Program used to open pile directories (default: OS file opener)")
	cmd.Flags().IntVar(&skipTo, "skip-to", 0, "Start at the Nth pile")
	cmd.Flags().BoolVar(&skipSingletons, "skip-singletons", false, "Do not open piles holding a single image")
	return cmd
}
