package qr

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"time"
)

const jpegQuality = 95

// RenderedImage is an encoded image ready to display or download.
type RenderedImage struct {
	Data      []byte
	MIMEType  string
	Extension string
	Format    Format
	// Size is the side length in pixels.
	Size int

	Foreground color.RGBA
	Background color.RGBA
}

// Filename returns the download name for an image created at t,
// e.g. qrcode_20240102_150405.png.
func (r *RenderedImage) Filename(t time.Time) string {
	return fmt.Sprintf("qrcode_%s.%s", t.Format("20060102_150405"), r.Extension)
}

// DataURL returns the image as a data URL usable in an img src attribute.
func (r *RenderedImage) DataURL() string {
	return "data:" + r.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(r.Data)
}

// Render paints sym with the given hex colors and encodes it as format.
// Colors are validated before anything is drawn.
func Render(sym *Symbol, foreground, background string, format Format) (*RenderedImage, error) {
	fg, err := ParseColor(foreground)
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(background)
	if err != nil {
		return nil, err
	}
	return RenderColors(sym, fg, bg, format)
}

// RenderColors is Render for already parsed colors.
func RenderColors(sym *Symbol, fg, bg color.Color, format Format) (*RenderedImage, error) {
	var buf bytes.Buffer
	switch format {
	case FormatPNG:
		if err := png.Encode(&buf, sym.Image(fg, bg)); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
	case FormatJPEG:
		if err := jpeg.Encode(&buf, sym.Image(fg, bg), &jpeg.Options{Quality: jpegQuality}); err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
	case FormatSVG:
		if err := writeSVG(&buf, sym, fg, bg); err != nil {
			return nil, fmt.Errorf("encode svg: %w", err)
		}
	default:
		return nil, invalidInput("unsupported format %q", format)
	}

	return &RenderedImage{
		Data:       buf.Bytes(),
		MIMEType:   format.MIMEType(),
		Extension:  format.Extension(),
		Format:     format,
		Size:       sym.PixelSize(),
		Foreground: color.RGBAModel.Convert(fg).(color.RGBA),
		Background: color.RGBAModel.Convert(bg).(color.RGBA),
	}, nil
}

// Image rasterizes the symbol into a two-color paletted image, quiet zone
// included. Palette index 0 is the background.
func (s *Symbol) Image(fg, bg color.Color) *image.Paletted {
	side := s.PixelSize()
	img := image.NewPaletted(image.Rect(0, 0, side, side), color.Palette{bg, fg})

	for y := 0; y < s.Dimension(); y++ {
		for x := 0; x < s.Dimension(); x++ {
			if !s.modules[y][x] {
				continue
			}
			x0 := (x + s.border) * s.moduleSize
			y0 := (y + s.border) * s.moduleSize
			for py := y0; py < y0+s.moduleSize; py++ {
				row := img.Pix[py*img.Stride+x0 : py*img.Stride+x0+s.moduleSize]
				for i := range row {
					row[i] = 1
				}
			}
		}
	}
	return img
}

// Request carries everything needed to go from text to image bytes.
type Request struct {
	Text       string
	ModuleSize int
	Border     int
	Foreground string
	Background string
	Format     Format
}

// Generate validates the colors, encodes the text and renders the symbol.
func Generate(req Request) (*Symbol, *RenderedImage, error) {
	fg, err := ParseColor(req.Foreground)
	if err != nil {
		return nil, nil, err
	}
	bg, err := ParseColor(req.Background)
	if err != nil {
		return nil, nil, err
	}

	sym, err := Encode(req.Text, req.ModuleSize, req.Border)
	if err != nil {
		return nil, nil, err
	}

	img, err := RenderColors(sym, fg, bg, req.Format)
	if err != nil {
		return nil, nil, err
	}
	return sym, img, nil
}
