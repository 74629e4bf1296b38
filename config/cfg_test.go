package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rupor-github/gencfg"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}

	if cfg.Canvas.Width <= 0 || cfg.Canvas.Height <= 0 {
		t.Errorf("Default canvas size %gx%g must be positive", cfg.Canvas.Width, cfg.Canvas.Height)
	}

	if len(cfg.Export.Scales) == 0 {
		t.Error("Default export scales should not be empty")
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
canvas:
  width: 640
  height: 480
  background: "#336699"
export:
  scales: [1, 2, 3]
  file_name_transliterate: true
logging:
  console:
    level: normal
  file:
    level: debug
    destination: svgc-test.log
    mode: append
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Canvas.Width != 640 || cfg.Canvas.Height != 480 {
		t.Errorf("Canvas size = %gx%g, want 640x480", cfg.Canvas.Width, cfg.Canvas.Height)
	}

	if cfg.Canvas.Background != "#336699" {
		t.Errorf("Background = %q, want #336699", cfg.Canvas.Background)
	}

	if len(cfg.Export.Scales) != 3 {
		t.Errorf("Scales length = %d, want 3", len(cfg.Export.Scales))
	}

	if !cfg.Export.FileNameTransliterate {
		t.Error("Expected FileNameTransliterate to be true")
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "unknown.yaml")

	configWithUnknown := `version: 1
unknown_field: value
canvas:
  width: 100
`

	if err := os.WriteFile(configPath, []byte(configWithUnknown), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Error("Expected error for unknown fields")
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"bad version", "version: 2\n"},
		{"non-positive width", "version: 1\ncanvas:\n  width: -10\n"},
		{"non-positive scale", "version: 1\nexport:\n  scales: [1, 0]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("Expected validation error")
			}
		})
	}
}

func TestLoadConfiguration_MergeWithDefaults(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "partial.yaml")

	// only overrides the background, everything else keeps defaults
	partialConfig := `version: 1
canvas:
  background: black
`

	if err := os.WriteFile(configPath, []byte(partialConfig), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Canvas.Background != "black" {
		t.Errorf("Background = %q, want black", cfg.Canvas.Background)
	}

	if cfg.Canvas.Width <= 0 {
		t.Error("Width should keep its default value")
	}
}

func TestLoadConfiguration_WithOptions(t *testing.T) {
	option := func(opts *gencfg.ProcessingOptions) {
		// Options are opaque, just test that we can pass them
	}

	cfg, err := LoadConfiguration("", option)
	if err != nil {
		t.Fatalf("LoadConfiguration() with options error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Prepare() returned empty data")
	}

	// Verify it's valid YAML by trying to unmarshal
	cfg := &Config{}
	_, err = unmarshalConfig(data, cfg, true)
	if err != nil {
		t.Errorf("Prepared config is not valid: %v", err)
	}
}

func TestDump(t *testing.T) {
	cfg := &Config{
		Version: 1,
		Canvas: CanvasConfig{
			Width:      1200,
			Height:     800,
			Background: "white",
		},
		Export: ExportConfig{
			Scales: []float64{1, 2},
		},
	}

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}

	if len(data) == 0 {
		t.Error("Dump() returned empty data")
	}

	// Verify we can load it back
	cfg2 := &Config{}
	_, err = unmarshalConfig(data, cfg2, false)
	if err != nil {
		t.Errorf("Dumped config cannot be loaded: %v", err)
	}

	if cfg2.Canvas.Width != cfg.Canvas.Width {
		t.Errorf("Width mismatch after dump/load: got %g, want %g", cfg2.Canvas.Width, cfg.Canvas.Width)
	}
}

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"poster", "poster"},
		{"a/b", "ab"},
		{`what?`, "what"},
		{"...hidden", "hidden"},
		{`<>:"/\|?*`, "_bad_file_name_"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
