package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"pilesort/internal/hashcache"
	"pilesort/internal/imaging"
	"pilesort/internal/logging"
	"pilesort/internal/materialize"
	"pilesort/internal/piles"
	"pilesort/internal/preflight"
	"pilesort/internal/review"
	"pilesort/internal/scan"
)

func newSortCommand(ctx *commandContext) *cobra.Command {
	var destFlag string
	var noOpen bool
	var openerFlag string
	var skipTo int
	var skipSingletons bool

	cmd := &cobra.Command{
		Use:   "sort <source>",
		Short: "Group a photo dump into pile directories of near-duplicates",
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
				return fmt.Errorf("resolve source: %w", err)
			}
			if err := preflight.CheckSource(source); err != nil {
				return err
			}

			// A bad opener aborts here, before any scanning or linking work.
			var opener string
			if !noOpen {
				opener, err = preflight.ResolveOpener(openerFlag)
				if err != nil {
					return err
				}
			}

			dest := strings.TrimSpace(destFlag)
			if dest == "" {
				dest = preflight.DefaultSibling(source, "sorted")
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

			runID := uuid.NewString()
			runCtx := logging.WithRunID(cmd.Context(), runID)
			started := time.Now()

			var cache *hashcache.Store
			if cfg.Cache.Fingerprints {
				cache, err = hashcache.Open(cfg.Paths.CacheDir)
				if err != nil {
					if errors.Is(err, hashcache.ErrLocked) {
						return fmt.Errorf("another pilesort run holds the fingerprint cache: %w", err)
					}
					return err
				}
				defer cache.Close()
			}

			loader := imaging.NewLoader(algorithm)
			scanner := scan.New(loader, cache, cfg.Scan.Workers, logger)
			result, err := scanner.Scan(runCtx, source)
			if err != nil {
				return err
			}

			matcher := piles.Matcher{
				HashThreshold: cfg.Matching.HashThreshold,
				TimeWindow:    cfg.TimeWindow(),
			}
			engine := piles.NewEngine(matcher, cfg.Scan.Workers, logger)
			pileList, err := engine.Cluster(runCtx, result.Images)
			if err != nil {
				return err
			}

			materializer := materialize.New(logger)
			if err := materializer.Materialize(runCtx, pileList, dest); err != nil {
				return err
			}

			stats := piles.ComputeStats(pileList)
			report := materialize.Report{
				RunID:     runID,
				StartedAt: started,
				Duration:  time.Since(started),
				Source:    source,
				Stats:     stats,
				Skipped:   result.Skipped,
			}
			if err := materialize.WriteReport(dest, report); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Sorted %s into %s\n", source, dest)
			fmt.Fprintln(out, renderStats(report))

			if noOpen {
				return nil
			}

			session, err := review.NewSession(cfg.Cache.HandleCapacity, logger)
			if err != nil {
				return err
			}
			return session.Run(runCtx, dest, review.Options{
				Opener:         opener,
				SkipTo:         skipTo,
				SkipSingletons: skipSingletons,
			})
		},
	}

	cmd.Flags().StringVarP(&destFlag, "destination", "d", "", "Destination directory (default: <source>-sorted)")
	cmd.Flags().BoolVar(&noOpen, "no-open", false, "Skip the pile review pass after sorting")
	cmd.Flags().StringVar(&openerFlag, "opener", "", "Program used to open pile directories (default: OS file opener)")
	cmd.Flags().IntVar(&skipTo, "skip-to", 0, "Start the review pass at the Nth pile")
	cmd.Flags().BoolVar(&skipSingletons, "skip-singletons", false, "Do not open piles holding a single image")
	return cmd
}
