package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"

	"creatortrack/lib/platform"
	"creatortrack/lib/telemetry"
	"creatortrack/lib/timezone"
	"creatortrack/lib/util/serviceutil"
	"creatortrack/services/collector"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var scheduleSpec *string
var scheduleOut *string

func init() {
	scheduleSpec = scheduleCmd.Flags().String(
		"cron", "30 7 * * *",
		"Cron expression for the daily collection run.")
	scheduleOut = scheduleCmd.Flags().String(
		"out", "export.json",
		"Path to rewrite the export artifact after each run.")
	rootCmd.AddCommand(scheduleCmd)
}

type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	slog.Info("cron: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"err", err}, keysAndValues...)
	slog.Error("cron: "+msg, args...)
}

var scheduleCmd = &cobra.Command{
	Use:   "schedule [--cron <spec>] [--out <path/to/export.json>]",
	Short: "Runs collection on a cron schedule and rewrites the export artifact after each pass.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		run := func(ctx context.Context) {
			// scheduled runs are unattended, nobody is there to scan a
			// QR code
			results, err := svc.collector.Run(ctx, collector.RunOptions{})
			if err != nil {
				slog.ErrorContext(ctx, "scheduled collection failed", "err", err)
				return
			}
			pending := 0
			for _, res := range results {
				if res.Status == platform.StatusPendingLogin {
					pending++
				}
			}
			if pending > 0 {
				slog.WarnContext(ctx, "platforms waiting for login", "count", pending)
			}

			if _, err := svc.snapshots.Cleanup(ctx); err != nil {
				slog.ErrorContext(ctx, "retention cleanup failed", "err", err)
			}

			export, err := svc.snapshots.Export(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "failed to build export read model", "err", err)
				return
			}
			data, err := json.MarshalIndent(export, "", "    ")
			if err != nil {
				slog.ErrorContext(ctx, "failed to marshal export", "err", err)
				return
			}
			if err := os.WriteFile(*scheduleOut, data, 0o644); err != nil {
				slog.ErrorContext(ctx, "failed to write export file", "err", err)
				return
			}
			slog.InfoContext(ctx, "scheduled run complete", "export", *scheduleOut)
		}

		ctx := serviceutil.SignalContext()
		telemetry.InstrumentPerfStats(ctx)
		cronner := cron.New(
			cron.WithLogger(cronLogger{}),
			cron.WithLocation(timezone.Location),
		)
		_, err := cronner.AddFunc(*scheduleSpec, func() { run(ctx) })
		if err != nil {
			serviceutil.Fatal("invalid cron expression", err)
		}
		cronner.Start()
		slog.Info("collection scheduled", "cron", *scheduleSpec)

		<-ctx.Done()
		<-cronner.Stop().Done()
	},
}
