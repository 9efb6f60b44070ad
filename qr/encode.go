// Package qr turns text into QR symbols and paints them as PNG, JPEG or SVG.
//
// The QR bit layout (capacity tables, Reed-Solomon parity, masking) comes
// from github.com/skip2/go-qrcode. This package only adds the layout
// parameters and the rendering.
package qr

import (
	"github.com/skip2/go-qrcode"
)

// RecoveryLevel is the fixed error-correction level used for every symbol.
const RecoveryLevel = qrcode.Low

// Symbol is an encoded QR code. It is immutable once returned by Encode.
type Symbol struct {
	modules    [][]bool
	version    int
	moduleSize int
	border     int
}

// Encode builds the smallest symbol that holds text at RecoveryLevel.
// moduleSize is the side of one module in pixels and border the quiet zone
// width in modules; neither has an upper bound here.
func Encode(text string, moduleSize, border int) (*Symbol, error) {
	if text == "" {
		return nil, invalidInput("text is empty")
	}
	if moduleSize < 1 {
		return nil, invalidInput("module size must be at least 1, got %d", moduleSize)
	}
	if border < 0 {
		return nil, invalidInput("border must not be negative, got %d", border)
	}

	code, err := qrcode.New(text, RecoveryLevel)
	if err != nil {
		return nil, invalidInput("text cannot be encoded: %v", err)
	}
	code.DisableBorder = true

	return &Symbol{
		modules:    code.Bitmap(),
		version:    code.VersionNumber,
		moduleSize: moduleSize,
		border:     border,
	}, nil
}

// Dimension is the number of modules per side, quiet zone excluded.
func (s *Symbol) Dimension() int { return len(s.modules) }

// Version is the QR capacity tier, 1 through 40.
func (s *Symbol) Version() int { return s.version }

// ModuleSize is the side of one module in pixels.
func (s *Symbol) ModuleSize() int { return s.moduleSize }

// Border is the quiet zone width in modules.
func (s *Symbol) Border() int { return s.border }

// Dark reports whether the module at column x, row y is set. Coordinates
// outside the symbol, including the quiet zone, are light.
func (s *Symbol) Dark(x, y int) bool {
	if y < 0 || y >= len(s.modules) || x < 0 || x >= len(s.modules[y]) {
		return false
	}
	return s.modules[y][x]
}

// Span is the side length in modules including the quiet zone.
func (s *Symbol) Span() int { return s.Dimension() + 2*s.border }

// PixelSize is the side length of the rendered image in pixels.
func (s *Symbol) PixelSize() int { return s.Span() * s.moduleSize }
