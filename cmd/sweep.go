package cmd

import (
	"context"
	"fmt"
	"runtime"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/ppusim/ppu/driver"
	"github.com/sarchlab/ppusim/sim"
	"github.com/sarchlab/ppusim/stimulus"
)

type sweepOptions struct {
	unit unitFlags
	jobs int
}

func newSweepCommand(root *rootOptions) *cobra.Command {
	opts := &sweepOptions{}

	cmd := &cobra.Command{
		Use:   "sweep <stimulus.yaml>...",
		Short: "Replay many stimulus files, each on its own unit.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.unit.apply(cmd, root.cfg)
			if err != nil {
				return err
			}

			jobs := opts.jobs
			if jobs <= 0 {
				jobs = runtime.GOMAXPROCS(0)
			}

			if cfg.Parallel {
				sim.UseParallelIDGenerator()
			}

			reports, err := sweep(cmd.Context(), args, jobs,
				func(i int, file *stimulus.File) driver.Report {
					name := sim.BuildNameWithIndex("Sweep", "PU", i)
					unit := unitBuilder(cfg, file).Build(name)

					return driver.Replay(unit, file)
				})
			if err != nil {
				return err
			}

			failed := 0
			for _, r := range reports {
				status := "ok"
				if r.Err() != nil {
					status = "FAIL"
					failed++
				}

				fmt.Fprintf(cmd.OutOrStdout(),
					"%-4s %s: %d cycles, %d back-pressured, %d mismatches\n",
					status, r.Name, len(r.Results), r.Collisions(),
					len(r.Failures()))

				root.logger.Debug("stimulus swept",
					"stimulus", r.Name, "err", r.Err())
			}

			if failed > 0 {
				return errors.Wrapf(driver.ErrExpectationMismatch,
					"%d of %d stimulus files failed", failed, len(reports))
			}

			return nil
		},
	}

	addUnitFlags(cmd, &opts.unit)
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0,
		"Number of files replayed concurrently. Defaults to GOMAXPROCS.")

	return cmd
}

// sweep loads every file and replays it with at most jobs files in flight.
// Reports keep the order of paths.
func sweep(
	ctx context.Context,
	paths []string,
	jobs int,
	replay func(int, *stimulus.File) driver.Report,
) ([]driver.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	reports := make([]driver.Report, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			file, err := stimulus.Load(path)
			if err != nil {
				return err
			}

			reports[i] = replay(i, file)

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return reports, nil
}
