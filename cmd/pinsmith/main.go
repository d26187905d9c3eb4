// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for pinsmith. It serves the template and
// render API, renders single templates from the command line, and writes
// starter template files.
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "pinsmith",
	Short: "Template-driven pin image compositor",
	Long: `pinsmith renders social images ("pins") from templates: a canvas with a
background, placed images, QR codes and wrapped text.

Examples:
  pinsmith serve
  pinsmith init template.yaml
  pinsmith render -t template.yaml --preview`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(initCmd)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

// setupLogger installs the default structured logger: JSON in production,
// text elsewhere.
func setupLogger(w io.Writer, env string, level slog.Level) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler = slog.NewTextHandler(w, opts)
	if env == "production" {
		h = slog.NewJSONHandler(w, opts)
	}
	slog.SetDefault(slog.New(h))
}
