// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Mode selects between a throwaway preview and a final render. It only
// affects the output filename.
type Mode string

const (
	ModePreview Mode = "preview"
	ModeFinal   Mode = "final"
)

// ParseMode accepts "preview" and "final"; "" means final.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModePreview:
		return ModePreview, nil
	case ModeFinal, "":
		return ModeFinal, nil
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

// OutputFilename builds social-image-[preview-]<unix>-<12 hex>.png. The
// random suffix keeps renders finishing in the same second apart.
func OutputFilename(mode Mode, now time.Time) string {
	prefix := "social-image-"
	if mode == ModePreview {
		prefix += "preview-"
	}
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
	return fmt.Sprintf("%s%d-%s.png", prefix, now.Unix(), suffix)
}
