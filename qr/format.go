package qr

import "strings"

// Format selects the output encoding of a rendered symbol.
type Format string

const (
	FormatPNG  Format = "PNG"
	FormatJPEG Format = "JPEG"
	FormatSVG  Format = "SVG"
)

// Formats lists the supported formats in display order.
var Formats = []Format{FormatPNG, FormatJPEG, FormatSVG}

// ParseFormat accepts a format name in any case. "JPG" is an alias for JPEG.
func ParseFormat(s string) (Format, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PNG":
		return FormatPNG, nil
	case "JPEG", "JPG":
		return FormatJPEG, nil
	case "SVG":
		return FormatSVG, nil
	}
	return "", invalidInput("unsupported format %q", s)
}

// MIMEType is the media type of data encoded in f.
func (f Format) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatSVG:
		return "image/svg+xml"
	default:
		return "image/png"
	}
}

// Extension is the file extension for f, without the dot.
func (f Format) Extension() string {
	return strings.ToLower(string(f))
}
