package commands

import (
	"context"
	"fmt"
	"log/slog"

	"creatortrack/lib/platform"
	"creatortrack/lib/scrapers/douyin"
	"creatortrack/lib/scrapers/shipinhao"
	"creatortrack/lib/scrapers/xiaohongshu"
	"creatortrack/lib/util/serviceutil"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(loginCmd)
}

var loginFuncs = map[platform.Platform]func(context.Context) (string, error){
	platform.Xiaohongshu: xiaohongshu.Login,
	platform.Douyin:      douyin.Login,
	platform.Shipinhao:   shipinhao.Login,
}

var loginCmd = &cobra.Command{
	Use:   "login <platform>",
	Short: "Opens a visible browser for a QR login and stores the refreshed cookie.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		fn, ok := loginFuncs[platform.Platform(name)]
		if !ok {
			serviceutil.Fatal("unknown platform", fmt.Errorf("%q", name))
		}

		svc := openServices()
		defer svc.db.Close()

		ctx := cmd.Context()
		cookie, err := fn(ctx)
		if err != nil {
			serviceutil.Fatal("interactive login failed", err)
		}
		err = svc.credentials.SetCookie(ctx, platform.Platform(name), cookie, "interactive_login")
		if err != nil {
			serviceutil.Fatal("failed to persist cookie", err)
		}
		slog.Info("cookie refreshed", "platform", name)
	},
}
