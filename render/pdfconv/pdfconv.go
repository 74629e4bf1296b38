// Package pdfconv is the paginated document export backend. It delegates the
// composed SVG to an external vector converter so text and vector data stay
// vector all the way into the PDF. Importing the package registers it; the
// converter itself is looked up at call time, so availability is a property
// of the environment, not the build.
package pdfconv

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"svgc/misc"
	"svgc/render"
)

// ErrNoConverter is returned when none of the supported converters is
// installed.
var ErrNoConverter = errors.New("PDF export requires an external SVG converter: install librsvg (rsvg-convert), cairosvg or inkscape")

// candidates in preference order. rsvg-convert is by far the fastest and the
// most widely packaged.
var candidates = []string{"rsvg-convert", "cairosvg", "inkscape"}

func init() {
	render.RegisterPaginator(Backend{})
}

// Backend shells out to the first available SVG to PDF converter.
type Backend struct{}

// WritePDF converts svg to a PDF at path. The converter lookup happens
// before anything is written, a missing converter leaves no file behind.
func (Backend) WritePDF(svg []byte, path string) error {
	tool, name, err := lookup()
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp("", misc.GetAppName()+"-*.svg")
	if err != nil {
		return fmt.Errorf("unable to create temporary SVG: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(svg); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write temporary SVG: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to write temporary SVG: %w", err)
	}

	cmd := exec.Command(tool, arguments(name, tmp.Name(), path)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s failed: %w (%s)", name, err, string(out))
	}
	return nil
}

// lookup finds the first installed converter on PATH.
func lookup() (path, name string, err error) {
	for _, name = range candidates {
		if path, err = exec.LookPath(name); err == nil {
			return path, name, nil
		}
	}
	return "", "", ErrNoConverter
}

func arguments(name, src, dst string) []string {
	switch name {
	case "rsvg-convert":
		return []string{"--format=pdf", "--output", dst, src}
	case "cairosvg":
		return []string{src, "-f", "pdf", "-o", dst}
	case "inkscape":
		return []string{src, "--export-type=pdf", "--export-filename=" + dst}
	default:
		// this should never happen
		panic("unsupported converter requested")
	}
}
