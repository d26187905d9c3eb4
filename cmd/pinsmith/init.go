// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"pinsmith/internal/models"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init [file]",
	Short: "Write the default template as YAML",
	Long: `Write the starter template (1000x1500, one text element and one empty
image element) to a file, template.yaml by default.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "template.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := writeTemplateFile(path, models.DefaultTemplate(), initForce); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing file")
}
