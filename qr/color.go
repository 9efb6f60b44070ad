package qr

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// ParseColor parses a "#RRGGBB" string. The leading '#' is optional.
func ParseColor(s string) (color.RGBA, error) {
	raw := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(raw) != 6 {
		return color.RGBA{}, &InvalidColorError{Value: s, Reason: "expected 6 hex digits"}
	}
	b, err := hex.DecodeString(raw)
	if err != nil {
		return color.RGBA{}, &InvalidColorError{Value: s, Reason: "not a hex value"}
	}
	return color.RGBA{R: b[0], G: b[1], B: b[2], A: 0xff}, nil
}

// FormatColor returns c as a lower-case "#rrggbb" string.
func FormatColor(c color.Color) string {
	rgba := color.RGBAModel.Convert(c).(color.RGBA)
	return fmt.Sprintf("#%02x%02x%02x", rgba.R, rgba.G, rgba.B)
}
