// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"pinsmith/internal/config"
	"pinsmith/internal/pin"
)

var renderFlags struct {
	template string
	preview  bool
	outDir   string
	backend  string
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a template file to a PNG",
	Long: `Render one template and write the pin to the asset store.

The template may be YAML or JSON. Asset storage, fonts and the backend come
from the same environment as "serve"; --out-dir and --backend override them.

Examples:
  pinsmith render -t template.yaml
  pinsmith render -t pin.json --preview --out-dir ./out`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRender(cmd.OutOrStdout())
	},
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.template, "template", "t", "", "template file (YAML or JSON)")
	f.BoolVar(&renderFlags.preview, "preview", false, "render in preview mode")
	f.StringVar(&renderFlags.outDir, "out-dir", "", "write to this local directory instead of the configured asset store")
	f.StringVar(&renderFlags.backend, "backend", "", fmt.Sprintf("renderer backend %v", pin.Backends))
	renderCmd.MarkFlagRequired("template")
}

func runRender(out io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	setupLogger(os.Stderr, cfg.Env, cfg.LogLevel)

	if renderFlags.outDir != "" {
		cfg.AssetDir = renderFlags.outDir
		cfg.S3Endpoint = ""
	}
	if renderFlags.backend != "" {
		cfg.RenderBackend = renderFlags.backend
	}

	tmpl, err := loadTemplateFile(renderFlags.template)
	if err != nil {
		return err
	}

	assets, _, err := newAssetStore(cfg)
	if err != nil {
		return err
	}
	comp, err := newCompositor(cfg, assets)
	if err != nil {
		return err
	}

	mode := pin.ModeFinal
	if renderFlags.preview {
		mode = pin.ModePreview
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := comp.Render(ctx, tmpl, mode)
	if err != nil {
		return err
	}
	printResult(out, res)
	return nil
}

func printResult(w io.Writer, res *pin.Result) {
	fmt.Fprintf(w, "%s (%dx%d, %s)\n", res.URL, res.Width, res.Height, res.Mode)
	if res.Path != "" {
		fmt.Fprintf(w, "  file: %s\n", res.Path)
	}
	if res.Font != "" {
		fmt.Fprintf(w, "  font: %s\n", res.Font)
	}
	for _, e := range res.Elements {
		line := fmt.Sprintf("  %s[%d]: %s", e.Kind, e.Index, e.Status)
		if e.Reason != "" {
			line += " (" + e.Reason + ")"
		}
		fmt.Fprintln(w, line)
	}
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
