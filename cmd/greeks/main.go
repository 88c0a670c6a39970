package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/golang/glog"
	"github.com/rustyeddy/greeks/cmd/greeks/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := cmd.Execute(ctx)
	stop()
	glog.Flush()
	if err != nil {
		os.Exit(1)
	}
}
