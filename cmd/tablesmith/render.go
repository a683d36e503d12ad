package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/export"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
	"github.com/FairyFox5700/MarkdownTableMaster/internal/styles"
)

// imageRenderer is the part of the playwright rasterizer the CLI uses.
type imageRenderer interface {
	export.Rasterizer
	ClipboardImage(ctx context.Context, markup string, expanded bool) ([]byte, error)
}

// Replaced in tests.
var systemClipboard export.Clipboard = export.SystemClipboard{}

var newImageRenderer = func(opts export.PlaywrightOptions, logger *zap.Logger) imageRenderer {
	return export.NewPlaywrightRasterizer(opts, logger)
}

type renderOptions struct {
	format     string
	preset     string
	styles     string
	output     string
	copy       bool
	quality    string
	background string
	customBg   string
	expanded   bool
}

func newRenderCmd(global *globalOptions) *cobra.Command {
	o := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a markdown table as a styled table",
		Long: `Render reads a markdown table from a file or stdin and writes it in the
chosen format. "table" prints the styled HTML fragment; html, embed, csv,
xlsx and png produce the export artifacts.

With --copy the result goes to the system clipboard. When no clipboard is
available text is printed instead.`,
		Example: `  tablesmith render report.md --preset corporate --format html -o report.html
  cat report.md | tablesmith render --format png --quality medium -o table.png`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, global, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.format, "format", "f", "table", "Output format: table, html, embed, csv, xlsx or png")
	f.StringVar(&o.preset, "preset", "", "Start from a preset theme")
	f.StringVar(&o.styles, "styles", "", `Style overrides as JSON, e.g. '{"fontSize":16}'`)
	f.StringVarP(&o.output, "output", "o", "", "Write to this file instead of stdout")
	f.BoolVar(&o.copy, "copy", false, "Copy the result to the clipboard")
	f.StringVar(&o.quality, "quality", string(models.QualityHigh), "PNG quality: high, medium or low")
	f.StringVar(&o.background, "background", string(models.BackgroundWhite), "PNG background: white, transparent or custom")
	f.StringVar(&o.customBg, "custom-background", "", "PNG background colour when --background=custom")
	f.BoolVar(&o.expanded, "expanded", false, "Use the larger expanded-view scale for PNG")
	return cmd
}

func (o *renderOptions) resolveStyles() (models.TableStyles, error) {
	s := models.DefaultStyles()
	if o.preset != "" {
		var err error
		if s, err = styles.ApplyPreset(o.preset); err != nil {
			return s, err
		}
	}
	if o.styles != "" {
		var partial models.PartialStyles
		if err := json.Unmarshal([]byte(o.styles), &partial); err != nil {
			return s, fmt.Errorf("parse --styles: %w", err)
		}
		s = partial.Apply(s)
	}
	return s, s.Validate()
}

func (o *renderOptions) settings() (models.ExportSettings, error) {
	settings := models.ExportSettings{
		Quality:          models.ExportQuality(o.quality),
		Background:       models.ExportBackground(o.background),
		CustomBackground: o.customBg,
		Expanded:         o.expanded,
	}
	return settings, export.ValidateSettings(settings)
}

func (o *renderOptions) run(cmd *cobra.Command, global *globalOptions, args []string) error {
	data, _, err := readTable(cmd, args)
	if err != nil {
		return err
	}
	s, err := o.resolveStyles()
	if err != nil {
		return err
	}

	if o.format == "table" {
		return o.emitText(cmd, styles.RenderTable(data, s)+styles.HoverCSS(s))
	}
	format, err := export.ParseFormat(o.format)
	if err != nil {
		return err
	}
	settings, err := o.settings()
	if err != nil {
		return err
	}

	var renderer imageRenderer
	if format == export.FormatPNG {
		cfg, logger, err := global.load()
		if err != nil {
			return err
		}
		defer logger.Sync()
		renderer = newImageRenderer(export.PlaywrightOptions{
			Install: cfg.Export.InstallBrowser,
			Timeout: cfg.Export.RenderTimeout,
		}, logger)
		defer renderer.Close()

		if o.copy {
			return o.copyImage(cmd, renderer, styles.RenderTable(data, s))
		}
	}

	out, err := export.Build(cmd.Context(), export.Job{
		Format:   format,
		Data:     data,
		Styles:   s,
		Settings: settings,
	}, renderer)
	if err != nil {
		return err
	}
	if format == export.FormatXLSX || format == export.FormatPNG {
		return o.emitBinary(cmd, out)
	}
	return o.emitText(cmd, string(out))
}

// emitText writes to the clipboard, the output file or stdout.
func (o *renderOptions) emitText(cmd *cobra.Command, text string) error {
	if o.copy {
		err := systemClipboard.WriteText(text)
		if err == nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "Copied to clipboard")
			return nil
		}
		if !errors.Is(err, export.ErrClipboardUnsupported) {
			return err
		}
		fmt.Fprintln(cmd.ErrOrStderr(), "Clipboard unavailable, printing instead")
	}
	if o.output != "" {
		return os.WriteFile(o.output, []byte(text), 0o644)
	}
	_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}

func (o *renderOptions) emitBinary(cmd *cobra.Command, body []byte) error {
	if o.output == "" {
		return fmt.Errorf("%s output is binary; use --output", o.format)
	}
	if err := os.WriteFile(o.output, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s (%d bytes)\n", o.output, len(body))
	return nil
}

// copyImage renders at the clipboard scale. The system clipboard only takes
// text, so the image lands in --output when one is given.
func (o *renderOptions) copyImage(cmd *cobra.Command, r imageRenderer, markup string) error {
	png, err := r.ClipboardImage(cmd.Context(), markup, o.expanded)
	if err != nil {
		return err
	}
	err = systemClipboard.WriteImage(png)
	if err == nil {
		fmt.Fprintln(cmd.ErrOrStderr(), "Copied image to clipboard")
		return nil
	}
	if !errors.Is(err, export.ErrClipboardUnsupported) || o.output == "" {
		return err
	}
	fmt.Fprintln(cmd.ErrOrStderr(), "Clipboard cannot take images, writing file instead")
	return o.emitBinary(cmd, png)
}
