package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/carson-networks/tx-ledger/internal/auth"
	"github.com/carson-networks/tx-ledger/internal/ledger"
)

func txCommands() *cli.Command {
	return &cli.Command{
		Name:  "tx",
		Usage: "Record and inspect transactions",
		Subcommands: []*cli.Command{
			{
				Name:  "record",
				Usage: "Record a new pending transaction owned by the caller",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "id", Usage: "Transaction id", Required: true},
					&cli.StringFlag{Name: "type", Usage: "deposit, withdrawal, swap, transfer or other", Value: "deposit"},
					&cli.StringFlag{Name: "amount", Usage: "Positive decimal amount", Required: true},
					&cli.StringFlag{Name: "description", Aliases: []string{"d"}, Usage: "Short annotation"},
				},
				Action: func(c *cli.Context) error {
					err := newClient(c).RecordTransaction(c.Context, c.String("id"), c.String("type"), c.String("amount"), c.String("description"))
					if err != nil {
						return fmt.Errorf("failed to record transaction: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "Recorded transaction %s\n", c.String("id"))
					return nil
				},
			},
			{
				Name:      "status",
				Usage:     "Change the status of a transaction",
				ArgsUsage: "ID STATUS",
				Action: func(c *cli.Context) error {
					if c.NArg() < 2 {
						return fmt.Errorf("transaction id and status are required")
					}
					id, status := c.Args().Get(0), c.Args().Get(1)
					if err := newClient(c).UpdateStatus(c.Context, id, status); err != nil {
						return fmt.Errorf("failed to update status: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "Transaction %s is now %s\n", id, status)
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "Show one transaction",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("transaction id is required")
					}
					tx, err := newClient(c).GetTransaction(c.Context, c.Args().Get(0))
					if err != nil {
						return fmt.Errorf("failed to get transaction: %w", err)
					}
					return render(c, tx, func() { printTransaction(c, tx) })
				},
			},
			{
				Name:      "history",
				Usage:     "List one page of a user's transactions",
				ArgsUsage: "USER",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "page", Value: 0, Usage: "0-based page"},
					&cli.IntFlag{Name: "page-size", Value: 10, Usage: "Items per page"},
					&cli.StringFlag{Name: "type", Usage: "Only this transaction type"},
					&cli.StringFlag{Name: "status", Usage: "Only this status"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("user is required")
					}
					history, err := newClient(c).History(c.Context, c.Args().Get(0), c.Int("page"), c.Int("page-size"), c.String("type"), c.String("status"))
					if err != nil {
						return fmt.Errorf("failed to list transactions: %w", err)
					}
					return render(c, history, func() {
						fmt.Fprintf(c.App.Writer, "Page %d (size %d): %d transactions\n", history.Page, history.PageSize, len(history.Transactions))
						for _, tx := range history.Transactions {
							fmt.Fprintf(c.App.Writer, "  %-20s %-10s %14s  %s\n", tx.ID, tx.Type, tx.Amount, tx.Status)
						}
					})
				},
			},
		},
	}
}

func prefsCommands() *cli.Command {
	return &cli.Command{
		Name:  "prefs",
		Usage: "Notification preferences",
		Subcommands: []*cli.Command{
			{
				Name:      "set",
				Usage:     "Enable or disable categories for the caller",
				ArgsUsage: "CATEGORY [CATEGORY...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "disable", Usage: "Disable instead of enable"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("at least one category is required")
					}
					prefs, err := newClient(c).SetPreferences(c.Context, c.Args().Slice(), !c.Bool("disable"))
					if err != nil {
						return fmt.Errorf("failed to set preferences: %w", err)
					}
					return render(c, prefs, func() { printPreferences(c, prefs) })
				},
			},
			{
				Name:      "get",
				Usage:     "Show the enabled categories of a user",
				ArgsUsage: "USER",
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("user is required")
					}
					prefs, err := newClient(c).GetPreferences(c.Context, c.Args().Get(0))
					if err != nil {
						return fmt.Errorf("failed to get preferences: %w", err)
					}
					return render(c, prefs, func() { printPreferences(c, prefs) })
				},
			},
		},
	}
}

func printPreferences(c *cli.Context, prefs *Preferences) {
	if len(prefs.Categories) == 0 {
		fmt.Fprintf(c.App.Writer, "%s: no categories enabled\n", prefs.User)
		return
	}
	fmt.Fprintf(c.App.Writer, "%s: %s\n", prefs.User, strings.Join(prefs.Categories, ", "))
}

func auditCommands() *cli.Command {
	return &cli.Command{
		Name:  "audit",
		Usage: "Audit event log",
		Subcommands: []*cli.Command{
			{
				Name:  "tail",
				Usage: "Print audit events after a sequence number",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "after", Value: 0, Usage: "Start after this sequence number"},
					&cli.IntFlag{Name: "limit", Value: 100, Usage: "Maximum number of events"},
				},
				Action: func(c *cli.Context) error {
					page, err := newClient(c).AuditEvents(c.Context, c.Int64("after"), c.Int("limit"))
					if err != nil {
						return fmt.Errorf("failed to list audit events: %w", err)
					}
					return render(c, page, func() {
						for _, e := range page.Events {
							fmt.Fprintf(c.App.Writer, "%6d  %s  %-30s %s\n", e.Seq, e.CreatedAt, e.Kind, string(e.Payload))
						}
						fmt.Fprintf(c.App.Writer, "next: %d\n", page.Next)
					})
				},
			},
		},
	}
}

func tokenCommands() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Bearer token utilities",
		Subcommands: []*cli.Command{
			{
				Name:      "mint",
				Usage:     "Mint a bearer token for an identity",
				ArgsUsage: "IDENTITY",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "secret", Usage: "HMAC secret shared with the server", EnvVars: []string{"JWT_SECRET"}},
					&cli.DurationFlag{Name: "ttl", Value: 24 * time.Hour, Usage: "Token lifetime"},
				},
				Action: func(c *cli.Context) error {
					if c.NArg() < 1 {
						return fmt.Errorf("identity is required")
					}
					identity, err := ledger.ParseIdentity(c.Args().Get(0))
					if err != nil {
						return err
					}
					authority, err := auth.NewTokenAuthority(c.String("secret"), c.Duration("ttl"))
					if err != nil {
						return err
					}
					token, err := authority.Mint(identity)
					if err != nil {
						return fmt.Errorf("failed to mint token: %w", err)
					}
					fmt.Fprintln(c.App.Writer, token)
					return nil
				},
			},
		},
	}
}
