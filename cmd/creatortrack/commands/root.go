package commands

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"creatortrack/lib/util/serviceutil"
	"creatortrack/lib/util/sqliteutil"
	"creatortrack/services/collector"
	"creatortrack/services/credentials"
	"creatortrack/services/snapshots"
	snapshotsdb "creatortrack/services/snapshots/db"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "creatortrack",
	Short: "creatortrack collects creator account metrics from content platform dashboards.",
}

var credentialsPath *string
var dbPath *string

func init() {
	credentialsPath = rootCmd.PersistentFlags().String(
		"credentials", "credentials.json",
		"Path to the per-platform credentials file.")
	dbPath = rootCmd.PersistentFlags().String(
		"db", "creatortrack.db",
		"Path to the snapshot database.")
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type services struct {
	db          *sql.DB
	credentials credentials.Service
	snapshots   snapshots.Service
	collector   collector.Service
}

func openServices() services {
	db, err := sqliteutil.OpenDB(snapshotsdb.Schema, *dbPath)
	if err != nil {
		serviceutil.Fatal("failed to open snapshot db", err)
	}
	creds := credentials.NewService(*credentialsPath)
	snaps := snapshots.NewService(db)
	return services{
		db:          db,
		credentials: creds,
		snapshots:   snaps,
		collector:   collector.NewService(creds, snaps, collector.DefaultCollectors()),
	}
}
