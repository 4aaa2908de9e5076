package commands

import (
	"os"

	"creatortrack/lib/platform"
	"creatortrack/lib/util/serviceutil"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var statusDays *int

func init() {
	statusDays = statusCmd.Flags().Int(
		"days", 7,
		"How many recent snapshot days to show.")
	rootCmd.AddCommand(statusCmd)
}

func newTable() table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(os.Stdout)
	return t
}

func changeCell(v *int64) any {
	if v == nil {
		return "?"
	}
	return *v
}

var statusCmd = &cobra.Command{
	Use:   "status [--days <n>]",
	Short: "Prints the latest account state per platform and recent daily snapshots.",
	Run: func(cmd *cobra.Command, args []string) {
		svc := openServices()
		defer svc.db.Close()

		ctx := cmd.Context()

		accounts := newTable()
		accounts.AppendHeader(table.Row{
			"Platform", "Account", "Followers", "Works",
			"Views", "Likes", "Comments", "Shares", "Collects",
		})
		for _, p := range platform.All() {
			acct, ok, err := svc.snapshots.LatestAccount(ctx, p)
			if err != nil {
				serviceutil.Fatal("failed to read latest account", err)
			}
			if !ok {
				accounts.AppendRow(table.Row{p, "(no data)"})
				continue
			}
			accounts.AppendRow(table.Row{
				p, acct.AccountName, acct.Followers, acct.TotalWorks,
				acct.TotalViews, acct.TotalLikes, acct.TotalComments,
				acct.TotalShares, acct.TotalCollects,
			})
		}
		accounts.Render()

		export, err := svc.snapshots.Export(ctx)
		if err != nil {
			serviceutil.Fatal("failed to build snapshot read model", err)
		}

		days := newTable()
		days.AppendHeader(table.Row{
			"Date", "Platform", "Followers", "Followers Change",
			"Views", "Views Change", "Comments Change", "Shares Change",
		})
		shown := map[string]bool{}
		for _, snap := range export.DailySnapshots {
			if !shown[snap.Date] {
				if len(shown) >= *statusDays {
					break
				}
				shown[snap.Date] = true
			}
			days.AppendRow(table.Row{
				snap.Date, snap.Platform, snap.Followers, snap.FollowersChange,
				snap.TotalViews, snap.ViewsChange,
				changeCell(snap.CommentsChange), changeCell(snap.SharesChange),
			})
		}
		days.Render()

		totals := newTable()
		totals.AppendHeader(table.Row{
			"Date", "Followers", "Followers Change",
			"Views", "Views Change", "Comments Change", "Shares Change",
		})
		for i, total := range export.DailyTotals {
			if i >= *statusDays {
				break
			}
			totals.AppendRow(table.Row{
				total.Date, total.Followers, total.FollowersChange,
				total.TotalViews, total.ViewsChange,
				changeCell(total.CommentsChange), changeCell(total.SharesChange),
			})
		}
		totals.Render()
	},
}
