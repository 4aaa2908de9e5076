package commands

import (
	"fmt"
	"log/slog"

	"creatortrack/lib/platform"
	"creatortrack/lib/probe"
	"creatortrack/lib/restyutil"
	"creatortrack/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

var probeDump *string

func init() {
	probeDump = probeCmd.Flags().String(
		"dump", "",
		"Directory to dump raw response bodies to (default: no dump).")
	rootCmd.AddCommand(probeCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe <platform>",
	Short: "Replays a platform's internal API endpoints with the stored cookie, for debugging cookie or schema drift.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		if !platform.Valid(name) {
			serviceutil.Fatal("unknown platform", fmt.Errorf("%q", name))
		}
		p := platform.Platform(name)

		svc := openServices()
		defer svc.db.Close()

		ctx := cmd.Context()
		entry, err := svc.credentials.Get(ctx, p)
		if err != nil {
			serviceutil.Fatal("failed to read credentials", err)
		}
		if entry.Cookie == "" {
			serviceutil.Fatal("no cookie stored", fmt.Errorf("platform %q", name))
		}

		var output restyutil.InstrumentOutput
		if *probeDump != "" {
			output = restyutil.NewFilesystemOutput(*probeDump)
		}
		client := probe.NewClient(entry.Cookie, output)

		for _, ep := range probe.Endpoints(p) {
			res, err := client.Probe(ctx, ep)
			if err != nil {
				slog.Error("probe failed", "endpoint", ep.Name, "err", err)
				continue
			}
			fmt.Printf("== %s (%d)\n%s\n\n", res.Endpoint.Name, res.StatusCode, res.Body)
		}
	},
}
