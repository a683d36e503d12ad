package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/app"
)

func newSuggestCmd(global *globalOptions) *cobra.Command {
	var analyze bool
	cmd := &cobra.Command{
		Use:   "suggest [file]",
		Short: "Propose styles for a markdown table",
		Long: `Suggest asks the configured model for styling suggestions and prints
them as JSON. Without an API key the built-in heuristics answer.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, md, err := readTable(cmd, args)
			if err != nil {
				return err
			}
			cfg, logger, err := global.load()
			if err != nil {
				return err
			}
			defer logger.Sync()

			cache, err := app.NewCache(cmd.Context(), cfg, logger)
			if err != nil {
				return err
			}
			svc, err := app.NewAIService(cfg, cache, nil, logger)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if analyze {
				analysis, err := svc.AnalyzeTable(cmd.Context(), data)
				if err != nil {
					return err
				}
				return enc.Encode(analysis)
			}
			suggestions, err := svc.SuggestStyles(cmd.Context(), data, md)
			if err != nil {
				return err
			}
			return enc.Encode(suggestions)
		},
	}
	cmd.Flags().BoolVar(&analyze, "analyze", false, "Describe the table instead of proposing styles")
	return cmd
}
