package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/village-blogger/internal/observability"
	"github.com/jonathan/village-blogger/internal/scheduler"
)

var runOnce bool

func init() {
	rootCmd.Flags().BoolVar(&runOnce, "once", false, "Run a single posting cycle immediately and exit")
}

func runScheduler(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	cycle := a.cycle()

	if runOnce {
		report := cycle.Run(ctx)
		observability.NewPrinter(cmd.OutOrStdout()).PrintReport(&report)
		if report.Failed() {
			return errors.New(report.Error)
		}
		return nil
	}

	if a.cfg.MetricsAddr != "" {
		status := observability.NewStatusServer(a.cfg.MetricsAddr, a.metrics, cycle, a.logger)
		go func() {
			if err := status.Run(ctx); err != nil {
				a.logger.WithError(err).Error("Status server stopped")
			}
		}()
	}

	sched := scheduler.New(scheduler.Options{Location: a.cfg.Location()}, a.logger)
	a.logger.WithField("timezone", a.cfg.Timezone).Info("Village blogger scheduler started")

	err = sched.Run(ctx, func(ctx context.Context) {
		cycle.Run(ctx)
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
