// Package raster is the in-process bitmap export backend, rasterizing
// composed SVG with oksvg and rasterx. Importing the package registers it.
package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"svgc/render"
)

// maxRasterDim is the maximum pixel dimension (width or height) allowed for
// the output bitmap. Prevents OOM on absurd canvas sizes or scale factors -
// a composed canvas of 100000 user units would otherwise allocate tens of
// gigabytes for the RGBA buffer.
const maxRasterDim = 16384

// fallbackSize is used when the composed document declares no usable size.
// Cannot happen for canvases rendered by this module, only for foreign SVG
// fed to the backend directly.
const fallbackSize = 1024

func init() {
	render.RegisterRasterizer(Backend{})
}

// Backend rasterizes SVG entirely in Go, it has no environment dependencies.
type Backend struct{}

// Rasterize renders svg into an RGBA image sized to the document's intrinsic
// dimensions multiplied by scale, flooded white first. The aspect ratio is
// always preserved, even when clamping kicks in.
func (Backend) Rasterize(svg []byte, scale float64) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return nil, err
	}
	if scale <= 0 {
		scale = 1
	}

	intrW := icon.ViewBox.W
	intrH := icon.ViewBox.H
	if intrW <= 0 {
		intrW = fallbackSize
	}
	if intrH <= 0 {
		intrH = fallbackSize
	}

	w := max(int(math.Round(intrW*scale)), 1)
	h := max(int(math.Round(intrH*scale)), 1)
	if w > maxRasterDim || h > maxRasterDim {
		s := min(float64(maxRasterDim)/float64(w), float64(maxRasterDim)/float64(h))
		w = max(int(math.Round(float64(w)*s)), 1)
		h = max(int(math.Round(float64(h)*s)), 1)
	}

	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.RGBA{255, 255, 255, 255}}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)
	return dst, nil
}
