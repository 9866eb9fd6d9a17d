package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	"github.com/spf13/cobra"

	"MacroPrelude/internal/scheduler"
)

var watchNow bool

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-render every chart on the configured schedule",
	Long: `Run in the foreground, re-rendering every configured chart on
schedule.render_cron and purging expired cache entries on schedule.purge_cron.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().BoolVar(&watchNow, "now", os.Getenv("RUN_ON_START") == "true", "render once immediately on start")
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, a.renderer(), a.cfg.Charts, a.transport, a.store)
	if err := sched.RegisterAll(a.cfg.Schedule.RenderCron, a.cfg.Schedule.PurgeCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if watchNow {
		log.Info("rendering once on start")
		sched.RenderAsync()
	}

	log.Info("watching, press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info("shutdown signal received, stopping")
	case <-ctx.Done():
	}
	cancel()
	return nil
}
