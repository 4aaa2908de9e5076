package commands

import (
	"fmt"
	"log/slog"
	"time"

	"creatortrack/lib/platform"
	"creatortrack/lib/util/serviceutil"
	"creatortrack/services/collector"

	"github.com/spf13/cobra"
)

var collectPlatforms *[]string
var collectInteractive *bool

func init() {
	collectPlatforms = collectCmd.Flags().StringSlice(
		"platform", nil,
		"Restrict collection to the given platforms (default: all).")
	collectInteractive = collectCmd.Flags().Bool(
		"interactive-login", false,
		"Open a visible login window when a stored cookie is rejected.")
	rootCmd.AddCommand(collectCmd)
}

var collectCmd = &cobra.Command{
	Use:   "collect [--platform <name>]... [--interactive-login]",
	Short: "Runs one collection pass over the enabled platforms and persists the results.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		var targets []platform.Platform
		for _, name := range *collectPlatforms {
			if !platform.Valid(name) {
				serviceutil.Fatal("unknown platform", fmt.Errorf("%q", name))
			}
			targets = append(targets, platform.Platform(name))
		}

		ctx := cmd.Context()
		t1 := time.Now()
		results, err := svc.collector.Run(ctx, collector.RunOptions{
			Platforms:             targets,
			AllowInteractiveLogin: *collectInteractive,
		})
		if err != nil {
			serviceutil.Fatal("collection run failed", err)
		}
		t2 := time.Now()

		removed, err := svc.snapshots.Cleanup(ctx)
		if err != nil {
			serviceutil.Fatal("retention cleanup failed", err)
		}

		for _, res := range results {
			slog.Info("result",
				"platform", res.Account.Platform,
				"status", res.Status,
				"works", len(res.Works),
				"message", res.Message)
		}
		slog.Info("collection time",
			"seconds", t2.Sub(t1).Seconds(),
			"expired_rows", removed)
	},
}
