// Package compose implements the compose subcommand: it reads a layout
// description, builds a canvas from it and writes the requested artifacts.
package compose

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"svgc/canvas"
	"svgc/config"
)

// Item is a single placement in a layout. Exactly one of Path, Content or
// Dir must be set. A Dir item expands to every .svg file in the directory in
// natural order, advancing the rectangle by StepX/StepY per file.
type Item struct {
	Path    string `yaml:"path,omitempty"`
	Content string `yaml:"content,omitempty"`
	Dir     string `yaml:"dir,omitempty"`

	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	StepX float64 `yaml:"step_x,omitempty"`
	StepY float64 `yaml:"step_y,omitempty"`
}

// Layout describes one composition: optional canvas overrides plus ordered
// placements. Item order is paint order.
type Layout struct {
	Canvas *config.CanvasConfig `yaml:"canvas,omitempty"`
	Items  []Item               `yaml:"items"`

	dir string // directory of the layout file, base for relative item paths
}

// LoadLayout reads and validates a layout file. Relative item paths are
// resolved against the layout file location, not the working directory.
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read layout file: %w", err)
	}

	var l Layout
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&l); err != nil {
		return nil, fmt.Errorf("unable to decode layout file %q: %w", path, err)
	}

	if len(l.Items) == 0 {
		return nil, fmt.Errorf("layout %q has no items", path)
	}
	for i, item := range l.Items {
		set := 0
		for _, s := range []string{item.Path, item.Content, item.Dir} {
			if len(s) > 0 {
				set++
			}
		}
		if set != 1 {
			return nil, fmt.Errorf("layout item %d must set exactly one of path, content or dir", i)
		}
	}

	l.dir = filepath.Dir(path)
	return &l, nil
}

// Build creates the canvas and places every layout item on it.
func (l *Layout) Build(defaults config.CanvasConfig, log *zap.Logger) (*canvas.Canvas, error) {
	width, height, background := defaults.Width, defaults.Height, defaults.Background
	if l.Canvas != nil {
		if l.Canvas.Width > 0 {
			width = l.Canvas.Width
		}
		if l.Canvas.Height > 0 {
			height = l.Canvas.Height
		}
		if len(l.Canvas.Background) > 0 {
			background = l.Canvas.Background
		}
	}

	c, err := canvas.New(width, height, background, log)
	if err != nil {
		return nil, err
	}

	for i, item := range l.Items {
		switch {
		case len(item.Content) > 0:
			if err := c.AddContent(item.Content, item.X, item.Y, item.Width, item.Height); err != nil {
				return nil, fmt.Errorf("layout item %d: %w", i, err)
			}
		case len(item.Path) > 0:
			if err := c.AddFile(l.resolve(item.Path), item.X, item.Y, item.Width, item.Height); err != nil {
				return nil, fmt.Errorf("layout item %d: %w", i, err)
			}
		case len(item.Dir) > 0:
			if err := l.placeDir(c, i, item); err != nil {
				return nil, err
			}
		}
	}
	return c, nil
}

// placeDir adds every .svg file of a directory, naturally ordered so
// "icon2" sorts before "icon10", stepping the rectangle per file.
func (l *Layout) placeDir(c *canvas.Canvas, idx int, item Item) error {
	dir := l.resolve(item.Dir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("layout item %d: unable to read directory: %w", idx, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.EqualFold(filepath.Ext(e.Name()), ".svg") {
			names = append(names, e.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	x, y := item.X, item.Y
	for _, name := range names {
		if err := c.AddFile(filepath.Join(dir, name), x, y, item.Width, item.Height); err != nil {
			return fmt.Errorf("layout item %d (%s): %w", idx, name, err)
		}
		x += item.StepX
		y += item.StepY
	}
	return nil
}

func (l *Layout) resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(l.dir, path)
}
