package qr

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
)

// writeSVG emits the symbol as a vector document. The viewBox is in module
// units so the drawing scales freely; width and height carry the pixel size
// the raster formats would have. Dark modules are merged into horizontal runs
// of a single path.
func writeSVG(w io.Writer, sym *Symbol, fg, bg color.Color) error {
	bw := bufio.NewWriter(w)
	span := sym.Span()
	side := sym.PixelSize()

	fmt.Fprintf(bw, `<?xml version="1.0" encoding="UTF-8"?>`+"\n")
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" version="1.1" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`+"\n",
		side, side, span, span)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="%s"/>`+"\n", span, span, FormatColor(bg))
	fmt.Fprintf(bw, `<path fill="%s" d="`, FormatColor(fg))

	dim := sym.Dimension()
	for y := 0; y < dim; y++ {
		for x := 0; x < dim; {
			if !sym.modules[y][x] {
				x++
				continue
			}
			start := x
			for x < dim && sym.modules[y][x] {
				x++
			}
			run := x - start
			fmt.Fprintf(bw, "M%d %dh%dv1h-%dz", start+sym.border, y+sym.border, run, run)
		}
	}

	fmt.Fprintf(bw, `"/>`+"\n")
	fmt.Fprintf(bw, "</svg>\n")
	return bw.Flush()
}
