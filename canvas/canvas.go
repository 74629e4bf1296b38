// Package canvas composes multiple SVG documents onto a single fixed-size
// surface. Each added document is placed at a rectangle and its content nodes
// are spliced into the combined output under a scaling group, so vector data,
// text and nested definitions survive every downstream export unchanged.
package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/beevik/etree"
	"github.com/h2non/filetype"
	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
)

const svgNS = "http://www.w3.org/2000/svg"

var (
	// ErrInvalidSize reports non-positive canvas or placement dimensions.
	ErrInvalidSize = errors.New("width and height must be positive")
	// ErrInvalidSVG reports markup that could not be parsed as an SVG document.
	ErrInvalidSVG = errors.New("invalid SVG markup")
)

// Placement is the target rectangle of a fragment on the canvas, in canvas
// user units.
type Placement struct {
	X, Y          float64
	Width, Height float64
}

// fragment keeps the parsed source document root together with its placement.
// Parsed once at add time, never mutated afterwards - Render works on copies.
type fragment struct {
	name string // origin for error reporting, file path or "inline"
	root *etree.Element
	at   Placement
}

// Canvas accumulates placed SVG fragments and renders them as one document.
// Insertion order is paint order. A Canvas is not safe for concurrent
// mutation - use separate instances for concurrent composition.
type Canvas struct {
	width      float64
	height     float64
	background string

	items []fragment
	log   *zap.Logger
}

// New creates a canvas of the given size. Background is any SVG paint token,
// "transparent" (or empty) leaves the canvas unpainted. Pass nil log to
// disable logging.
func New(width, height float64, background string, log *zap.Logger) (*Canvas, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas %gx%g: %w", width, height, ErrInvalidSize)
	}
	return &Canvas{
		width:      width,
		height:     height,
		background: background,
		log:        log.Named("canvas"),
	}, nil
}

// Width returns canvas width in user units.
func (c *Canvas) Width() float64 { return c.width }

// Height returns canvas height in user units.
func (c *Canvas) Height() float64 { return c.height }

// Background returns the configured background paint token.
func (c *Canvas) Background() string { return c.background }

// Len returns the number of placed fragments.
func (c *Canvas) Len() int { return len(c.items) }

// AddFile reads an SVG document from path and places it at the given
// rectangle. The file may use any XML-declared character encoding.
func (c *Canvas) AddFile(path string, x, y, w, h float64) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read SVG from %q: %w", path, err)
	}

	// Reject obvious mistakes (raster images, archives and the like) before
	// the XML parser produces a cryptic error for them.
	if t, err := filetype.Match(data); err == nil && t != filetype.Unknown {
		return fmt.Errorf("%q looks like %s, not SVG: %w", path, t.MIME.Value, ErrInvalidSVG)
	}

	return c.add(path, bytes.NewReader(data), Placement{X: x, Y: y, Width: w, Height: h})
}

// AddContent places raw SVG markup at the given rectangle.
func (c *Canvas) AddContent(markup string, x, y, w, h float64) error {
	return c.add("inline", strings.NewReader(markup), Placement{X: x, Y: y, Width: w, Height: h})
}

func (c *Canvas) add(name string, r io.Reader, at Placement) error {
	if at.Width <= 0 || at.Height <= 0 {
		return fmt.Errorf("placement %gx%g for %q: %w", at.Width, at.Height, name, ErrInvalidSize)
	}

	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return fmt.Errorf("%w (%s): %v", ErrInvalidSVG, name, err)
	}

	root := doc.Root()
	if root == nil {
		return fmt.Errorf("%w (%s): no root element", ErrInvalidSVG, name)
	}
	if root.Tag != "svg" {
		// Permissive on purpose - some generators emit wrapper elements, and
		// the transform math works the same either way.
		c.log.Warn("Fragment root is not an svg element", zap.String("source", name), zap.String("tag", root.Tag))
	}

	c.items = append(c.items, fragment{name: name, root: root, at: at})
	c.log.Debug("Fragment added",
		zap.String("source", name), zap.Int("index", len(c.items)-1),
		zap.Float64("x", at.X), zap.Float64("y", at.Y),
		zap.Float64("w", at.Width), zap.Float64("h", at.Height))
	return nil
}
