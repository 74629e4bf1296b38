package compose

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"svgc/config"
	"svgc/state"
)

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	env := state.EnvFromContext(ctx)
	env.Cfg = &config.Config{
		Version: 1,
		Canvas:  config.CanvasConfig{Width: 200, Height: 100, Background: "white"},
		Export:  config.ExportConfig{Scales: []float64{1}},
	}
	env.Log = zap.NewNop()
	return ctx
}

func TestProcessSVG(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "poster.yaml")
	layout := `
items:
  - content: '<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><circle cx="5" cy="5" r="5"/></svg>'
    x: 0
    y: 0
    width: 50
    height: 50
`
	if err := os.WriteFile(src, []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}

	dst := filepath.Join(dir, "out")
	err := process(ctx, src, dst, "", []config.OutputFmt{config.OutputFmtSvg}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dst, "poster.svg"))
	if err != nil {
		t.Fatalf("output missing: %v", err)
	}
	if !strings.Contains(string(data), "<circle") {
		t.Fatalf("unexpected output: %s", data)
	}
}

func TestProcessOverwriteGuard(t *testing.T) {
	ctx := testContext(t)
	env := state.EnvFromContext(ctx)
	dir := t.TempDir()

	src := filepath.Join(dir, "poster.yaml")
	layout := `
items:
  - content: '<svg viewBox="0 0 10 10"/>'
    x: 0
    y: 0
    width: 50
    height: 50
`
	if err := os.WriteFile(src, []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}

	formats := []config.OutputFmt{config.OutputFmtSvg}
	if err := process(ctx, src, dir, "", formats, nil, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// second run must refuse to clobber
	if err := process(ctx, src, dir, "", formats, nil, zap.NewNop()); err == nil {
		t.Fatal("expected overwrite refusal")
	}

	env.Overwrite = true
	if err := process(ctx, src, dir, "", formats, nil, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error with overwrite enabled: %v", err)
	}
}

func TestProcessNameOverride(t *testing.T) {
	ctx := testContext(t)
	dir := t.TempDir()

	src := filepath.Join(dir, "poster.yaml")
	layout := `
items:
  - content: '<svg viewBox="0 0 10 10"/>'
    x: 0
    y: 0
    width: 50
    height: 50
`
	if err := os.WriteFile(src, []byte(layout), 0644); err != nil {
		t.Fatal(err)
	}

	err := process(ctx, src, dir, "banner", []config.OutputFmt{config.OutputFmtSvg}, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "banner.svg")); err != nil {
		t.Fatalf("named output missing: %v", err)
	}
}

func TestParseFormats(t *testing.T) {
	t.Run("default", func(t *testing.T) {
		formats, err := parseFormats("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(formats) != 1 || formats[0] != config.OutputFmtSvg {
			t.Fatalf("got %v, want [svg]", formats)
		}
	})

	t.Run("list", func(t *testing.T) {
		formats, err := parseFormats("svg, png,pdf")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []config.OutputFmt{config.OutputFmtSvg, config.OutputFmtPng, config.OutputFmtPdf}
		if len(formats) != len(want) {
			t.Fatalf("got %v, want %v", formats, want)
		}
		for i := range want {
			if formats[i] != want[i] {
				t.Errorf("formats[%d] = %v, want %v", i, formats[i], want[i])
			}
		}
	})

	t.Run("unknown", func(t *testing.T) {
		if _, err := parseFormats("bmp"); err == nil {
			t.Fatal("expected error for unknown format")
		}
	})

	t.Run("only_separators", func(t *testing.T) {
		if _, err := parseFormats(",,"); err == nil {
			t.Fatal("expected error for empty format list")
		}
	})
}

func TestParseScales(t *testing.T) {
	t.Run("list", func(t *testing.T) {
		scales, err := parseScales("1, 1.5,3")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := []float64{1, 1.5, 3}
		if len(scales) != len(want) {
			t.Fatalf("got %v, want %v", scales, want)
		}
		for i := range want {
			if scales[i] != want[i] {
				t.Errorf("scales[%d] = %g, want %g", i, scales[i], want[i])
			}
		}
	})

	t.Run("non_positive", func(t *testing.T) {
		if _, err := parseScales("1,0"); err == nil {
			t.Fatal("expected error for zero scale")
		}
		if _, err := parseScales("-2"); err == nil {
			t.Fatal("expected error for negative scale")
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := parseScales("abc"); err == nil {
			t.Fatal("expected error for non-numeric scale")
		}
	})
}
