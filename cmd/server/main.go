package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/workcredits/internal/server"
	"github.com/dmitrijs2005/workcredits/internal/server/config"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("%v", err)
	}
}

// run serves until ctx is cancelled or a signal arrives. A non-nil error
// makes the process exit non-zero.
func run(ctx context.Context, args []string) error {
	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	return app.Run(ctx)
}
