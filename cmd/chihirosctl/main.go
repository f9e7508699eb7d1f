package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/vitaminmoo/chihirosctl/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var c cli.CLI
	kctx := kong.Parse(&c,
		kong.Name("chihirosctl"),
		kong.Description("Control Chihiros aquarium LED fixtures over Bluetooth LE."),
		kong.UsageOnError(),
	)
	c.SetContext(ctx)

	err := kctx.Run(&c)
	kctx.FatalIfErrorf(err)
}
