package canvas

import (
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"svgc/render"
)

// SavePDF exports the composed document as PDF through the registered
// paginator backend. The backend check happens before anything is rendered
// or written - a missing backend never leaves a partial file.
func (c *Canvas) SavePDF(path string) error {
	p, err := render.CurrentPaginator()
	if err != nil {
		return err
	}

	out, err := c.Render()
	if err != nil {
		return err
	}
	if err := p.WritePDF([]byte(out), path); err != nil {
		return fmt.Errorf("unable to export PDF: %w", err)
	}
	c.log.Debug("PDF written", zap.String("file", path))
	return nil
}

// SavePNG exports the composed document as a bitmap scaled by scale
// (non-positive means 1) through the registered rasterizer backend.
func (c *Canvas) SavePNG(path string, scale float64) error {
	r, err := render.CurrentRasterizer()
	if err != nil {
		return err
	}

	out, err := c.Render()
	if err != nil {
		return err
	}
	img, err := r.Rasterize([]byte(out), scale)
	if err != nil {
		return fmt.Errorf("unable to rasterize composed SVG: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create bitmap file: %w", err)
	}
	defer f.Close()

	if err := imaging.Encode(f, img, imaging.PNG, imaging.PNGCompressionLevel(png.BestCompression)); err != nil {
		return fmt.Errorf("unable to encode PNG: %w", err)
	}
	c.log.Debug("Bitmap written", zap.String("file", path), zap.Float64("scale", scale))
	return nil
}

// BitmapName returns the file name used for a bitmap exported at the given
// scale: "{baseName}@{scale}x.png".
func BitmapName(baseName string, scale float64) string {
	return fmt.Sprintf("%s@%sx.png", baseName, fmtNum(scale))
}

// SavePNGResolutions exports one bitmap per scale factor into dir, named
// with BitmapName. Scales are processed independently, failures are
// collected and the successfully written paths returned.
func (c *Canvas) SavePNGResolutions(dir, baseName string, scales []float64) ([]string, error) {
	if _, err := render.CurrentRasterizer(); err != nil {
		return nil, err
	}
	if len(scales) == 0 {
		scales = []float64{1}
	}

	var (
		written []string
		errs    error
	)
	for _, scale := range scales {
		if scale <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("bitmap scale %g: %w", scale, ErrInvalidSize))
			continue
		}
		name := filepath.Join(dir, BitmapName(baseName, scale))
		if err := c.SavePNG(name, scale); err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		written = append(written, name)
	}
	return written, errs
}
