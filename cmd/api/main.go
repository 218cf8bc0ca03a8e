package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"
)

func newApp() *cli.App {
	var envFiles cli.StringSlice
	return &cli.App{
		Name:  "animal",
		Usage: "Account registration, bearer token login and animal profiles",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:        "env-file",
				Usage:       "dotenv file loaded before reading the environment (default .env)",
				Destination: &envFiles,
			},
		},
		Commands: []*cli.Command{
			serveCmd(&envFiles),
			migrateCmd(&envFiles),
		},
		Action: func(c *cli.Context) error {
			return serve(c.Context, envFiles.Value())
		},
	}
}

func main() {
	// graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "animal: %v\n", err)
		os.Exit(1)
	}
}
