package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/version"
	"github.com/FairyFox5700/MarkdownTableMaster/pkg/client"
)

type saveOptions struct {
	server string
	name   string
	userID int64
	public bool
	render renderOptions
}

func newSaveCmd() *cobra.Command {
	o := &saveOptions{}
	cmd := &cobra.Command{
		Use:   "save [file]",
		Short: "Store a table with its styles on a running server",
		Example: `  tablesmith save report.md --name "Q3 report" --user 7 --preset corporate
  tablesmith save report.md --name "Shared" --public --server https://tables.example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	server := os.Getenv("TABLESMITH_SERVER_URL")
	if server == "" {
		server = "http://localhost:5000"
	}
	f := cmd.Flags()
	f.StringVar(&o.server, "server", server, "Server base URL")
	f.StringVar(&o.name, "name", "", "Table name (required)")
	f.Int64Var(&o.userID, "user", 0, "Owner user id; omit for an anonymous table")
	f.BoolVar(&o.public, "public", false, "List the table publicly")
	f.StringVar(&o.render.preset, "preset", "", "Start from a preset theme")
	f.StringVar(&o.render.styles, "styles", "", "Style overrides as JSON")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func (o *saveOptions) run(cmd *cobra.Command, args []string) error {
	if !o.public && o.userID == 0 {
		return fmt.Errorf("private tables need --user")
	}
	_, md, err := readTable(cmd, args)
	if err != nil {
		return err
	}
	s, err := o.render.resolveStyles()
	if err != nil {
		return err
	}
	blob, err := json.Marshal(s)
	if err != nil {
		return err
	}

	req := client.CreateTableRequest{
		Name:            o.name,
		MarkdownContent: md,
		Styles:          blob,
		IsPublic:        o.public,
	}
	if o.userID != 0 {
		req.UserID = &o.userID
	}

	c := client.New(client.Config{
		BaseURL:    o.server,
		UserAgent:  version.UserAgent(),
		Timeout:    30 * time.Second,
		RetryCount: 2,
	})
	table, err := c.Tables.Create(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved table %d (%s)\n", table.ID, table.Name)
	return nil
}
