// Package render declares the export backends a composed canvas can be
// handed to. Backends are optional: a program that never exports bitmaps or
// PDF does not pay for the rendering stack. Enabling one is a blank import of
// its package, which registers itself here - requesting an export with no
// backend registered fails with an error naming the import to add.
package render

import (
	"errors"
	"image"
	"sync"
)

// Rasterizer converts serialized SVG markup into a bitmap. Scale multiplies
// the document's intrinsic pixel size.
type Rasterizer interface {
	Rasterize(svg []byte, scale float64) (image.Image, error)
}

// Paginator converts serialized SVG markup into a paginated document written
// directly to path.
type Paginator interface {
	WritePDF(svg []byte, path string) error
}

var (
	// ErrNoRasterizer is returned when bitmap export is requested without a
	// registered backend.
	ErrNoRasterizer = errors.New(`bitmap export requires a rasterizer backend: import _ "svgc/render/raster"`)
	// ErrNoPaginator is returned when paginated export is requested without a
	// registered backend.
	ErrNoPaginator = errors.New(`PDF export requires a paginator backend: import _ "svgc/render/pdfconv"`)
)

var (
	mu         sync.RWMutex
	rasterizer Rasterizer
	paginator  Paginator
)

// RegisterRasterizer installs r as the bitmap backend. Expected to be called
// from a backend package init, last registration wins.
func RegisterRasterizer(r Rasterizer) {
	mu.Lock()
	defer mu.Unlock()
	rasterizer = r
}

// RegisterPaginator installs p as the paginated document backend.
func RegisterPaginator(p Paginator) {
	mu.Lock()
	defer mu.Unlock()
	paginator = p
}

// CurrentRasterizer returns the registered bitmap backend or ErrNoRasterizer.
func CurrentRasterizer() (Rasterizer, error) {
	mu.RLock()
	defer mu.RUnlock()
	if rasterizer == nil {
		return nil, ErrNoRasterizer
	}
	return rasterizer, nil
}

// CurrentPaginator returns the registered paginated backend or ErrNoPaginator.
func CurrentPaginator() (Paginator, error) {
	mu.RLock()
	defer mu.RUnlock()
	if paginator == nil {
		return nil, ErrNoPaginator
	}
	return paginator, nil
}
