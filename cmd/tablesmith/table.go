package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/editor"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/styles"
)

func newReorderCmd() *cobra.Command {
	var (
		axis     string
		from, to int
	)
	cmd := &cobra.Command{
		Use:   "reorder [file]",
		Short: "Move a row or column and print the resulting markdown",
		Long: `Reorder moves the row or column at --from to --to (zero-based, rows
counted below the header) and prints the table as markdown.`,
		Example: `  tablesmith reorder prices.md --axis column --from 2 --to 0`,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ax, err := editor.ParseAxis(axis)
			if err != nil {
				return err
			}
			data, _, err := readTable(cmd, args)
			if err != nil {
				return err
			}
			_, md, err := editor.Reorder(data, ax, from, to)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().StringVar(&axis, "axis", string(editor.AxisRow), "row or column")
	cmd.Flags().IntVar(&from, "from", 0, "Index to move")
	cmd.Flags().IntVar(&to, "to", 0, "Destination index")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newPresetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "presets [key]",
		Short: "List preset themes, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				preset, ok := styles.Preset(args[0])
				if !ok {
					return fmt.Errorf("%w: %s", styles.ErrUnknownPreset, args[0])
				}
				enc := yaml.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(preset.Styles)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tDESCRIPTION")
			for _, p := range styles.Presets() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", p.Key, p.Name, p.Description)
			}
			return w.Flush()
		},
	}
	return cmd
}
