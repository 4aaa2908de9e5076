package main

import (
	"context"

	"creatortrack/cmd/creatortrack/commands"
	"creatortrack/lib/telemetry"
)

func main() {
	telemetry.SetupFromEnv(context.Background(), "creatortrack")
	telemetry.InitSlog(true)
	commands.ExecuteContext(context.Background())
}
