package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Serve    ServeCmd         `cmd:"" help:"Run the game API server"`
	Play     PlayCmd          `cmd:"" help:"Play a game in the terminal"`
	Simulate SimulateCmd      `cmd:"" help:"Simulate games between computer opponents"`
	Stats    StatsCmd         `cmd:"" help:"Show recorded game statistics"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("cribbage"),
		kong.Description("Two-player cribbage engine with a resumable round API"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
