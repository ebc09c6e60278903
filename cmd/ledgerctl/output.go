package main

import (
	"encoding/json"
	"fmt"

	"github.com/davecgh/go-spew/spew"
	"github.com/urfave/cli/v2"
)

// render writes v in the format selected by the global flags. text is used
// when neither --json nor --dump is set.
func render(c *cli.Context, v any, text func()) error {
	out := c.App.Writer

	switch {
	case c.Bool("dump"):
		spew.Fdump(out, v)
	case c.Bool("json"):
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal output: %w", err)
		}
		fmt.Fprintln(out, string(data))
	default:
		text()
	}
	return nil
}

func printTransaction(c *cli.Context, tx *Transaction) {
	out := c.App.Writer
	fmt.Fprintf(out, "ID:          %s\n", tx.ID)
	fmt.Fprintf(out, "Owner:       %s\n", tx.Owner)
	fmt.Fprintf(out, "Type:        %s\n", tx.Type)
	fmt.Fprintf(out, "Amount:      %s\n", tx.Amount)
	fmt.Fprintf(out, "Status:      %s\n", tx.Status)
	fmt.Fprintf(out, "Timestamp:   %s\n", tx.Timestamp)
	if tx.Description != "" {
		fmt.Fprintf(out, "Description: %s\n", tx.Description)
	}
}

func newClient(c *cli.Context) *Client {
	return NewClient(c.String("server"), c.String("token"), nil)
}
