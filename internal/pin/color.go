// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package pin

import "image/color"

// ParseHexColor decodes a "#rrggbb" string into an opaque color.
//
// Each channel is read from the two characters at offsets 1, 3 and 5.
// Non-hex characters are ignored and characters past the end of the string
// contribute nothing, so a missing channel decodes as 0: "#ff" is red and ""
// is black. The boolean reports whether s was exactly '#' plus six hex digits.
func ParseHexColor(s string) (color.RGBA, bool) {
	c := color.RGBA{
		R: hexChannel(s, 1),
		G: hexChannel(s, 3),
		B: hexChannel(s, 5),
		A: 0xff,
	}
	return c, isWellFormedHex(s)
}

func hexChannel(s string, offset int) uint8 {
	var v uint8
	for i := offset; i < offset+2 && i < len(s); i++ {
		if d, ok := hexDigit(s[i]); ok {
			v = v<<4 | d
		}
	}
	return v
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

func isWellFormedHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for i := 1; i < 7; i++ {
		if _, ok := hexDigit(s[i]); !ok {
			return false
		}
	}
	return true
}
