package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/config"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/markdown"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/version"
)

// errNoTable is reported when the input holds no parsable markdown table.
var errNoTable = errors.New("no markdown table found in input")

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	info := version.GetInfo()

	root := &cobra.Command{
		Use:   "tablesmith",
		Short: "Turn markdown tables into styled, exportable tables",
		Long: `tablesmith parses markdown tables, styles them with presets or AI
suggestions, and exports them as HTML, embed code, CSV, XLSX or PNG.

Run "tablesmith serve" to start the REST API.`,
		Version:       info.String(),
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", os.Getenv("CONFIG_PATH"), "Config file or directory")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")

	root.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newReorderCmd(),
		newPresetsCmd(),
		newSuggestCmd(opts),
		newSaveCmd(),
		newUserCmd(opts),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.GetInfo().Full())
		},
	}
}

// load reads configuration and builds a logger for one command run.
func (o *globalOptions) load() (*config.Config, *zap.Logger, error) {
	mgr, err := config.Load(o.configPath, nil)
	if err != nil {
		return nil, nil, err
	}
	cfg := mgr.Get()
	conf := cfg.Logging
	if o.logLevel != "" {
		conf.Level = o.logLevel
	}
	logger, _, err := config.NewLogger(conf)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// readMarkdown reads the file named by args[0], or stdin when it is absent or "-".
func readMarkdown(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		b, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(b), nil
	}
	b, err := os.ReadFile(args[0])
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func readTable(cmd *cobra.Command, args []string) (*models.TableData, string, error) {
	md, err := readMarkdown(cmd, args)
	if err != nil {
		return nil, "", err
	}
	data := markdown.ParseTable(md)
	if data == nil {
		return nil, "", errNoTable
	}
	return data, strings.TrimSpace(md), nil
}
