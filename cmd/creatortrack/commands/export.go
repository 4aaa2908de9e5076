package commands

import (
	"encoding/json"
	"log/slog"
	"os"

	"creatortrack/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var exportOut *string

func init() {
	exportOut = exportCmd.Flags().String(
		"out", "export.json",
		"Path to write the export artifact to.")
	rootCmd.AddCommand(exportCmd)
}

var exportCmd = &cobra.Command{
	Use:   "export [--out <path/to/export.json>]",
	Short: "Writes the daily snapshot read model as a JSON artifact for downstream publishing.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		export, err := svc.snapshots.Export(cmd.Context())
		if err != nil {
			serviceutil.Fatal("failed to build export read model", err)
		}

		data, err := json.MarshalIndent(export, "", "    ")
		if err != nil {
			serviceutil.Fatal("failed to marshal export", err)
		}
		err = os.WriteFile(*exportOut, data, 0o644)
		if err != nil {
			serviceutil.Fatal("failed to write export file", err)
		}

		slog.Info("export written",
			"path", *exportOut,
			"snapshot_rows", len(export.DailySnapshots),
			"platforms", len(export.Platforms))
	},
}
