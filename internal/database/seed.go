// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"pinsmith/internal/models"
)

// SeedTemplateName is the name of the starter template created by Seed.
const SeedTemplateName = "Default"

// Seed populates an empty database with the starter pin template.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM pin_templates").Scan(&count); err != nil {
		return fmt.Errorf("seed check templates: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	data, err := json.Marshal(models.DefaultTemplate())
	if err != nil {
		return fmt.Errorf("seed marshal template: %w", err)
	}

	if _, err := db.Exec(`
		INSERT INTO pin_templates (name, data) VALUES ($1, $2)
	`, SeedTemplateName, data); err != nil {
		return fmt.Errorf("seed insert template: %w", err)
	}

	slog.Info("database seeded with default template", "name", SeedTemplateName)
	return nil
}
