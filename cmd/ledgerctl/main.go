package main

import (
	"fmt"
	"log"
	"os"

	"github.com/urfave/cli/v2"
)

var (
	// Version information (set via ldflags during build)
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "ledgerctl",
		Usage:   "Command-line client for the transaction ledger",
		Version: fmt.Sprintf("%s (commit: %s)", version, commit),
		Commands: []*cli.Command{
			txCommands(),
			prefsCommands(),
			auditCommands(),
			tokenCommands(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "server",
				Aliases: []string{"s"},
				Usage:   "Ledger server URL",
				EnvVars: []string{"LEDGER_SERVER_URL"},
				Value:   "http://localhost:9446",
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "Bearer token identifying the caller",
				EnvVars: []string{"LEDGER_TOKEN"},
			},
			&cli.BoolFlag{
				Name:    "json",
				Aliases: []string{"j"},
				Usage:   "Output in JSON format",
			},
			&cli.BoolFlag{
				Name:  "dump",
				Usage: "Dump decoded responses with their Go types",
			},
		},
	}
}
