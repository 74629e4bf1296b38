package compose

import (
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"svgc/canvas"
	"svgc/config"
	"svgc/state"
)

// buildBaseName returns the output base name (no directory, no extension)
// for one composition. Explicit override wins, then the configured name
// template, then the layout file name. Cleaned up and, if requested,
// transliterated.
func buildBaseName(layoutPath, override string, c *canvas.Canvas, format config.OutputFmt, env *state.LocalEnv) string {
	base := override
	if len(base) == 0 {
		base = strings.TrimSuffix(filepath.Base(layoutPath), filepath.Ext(layoutPath))
		if tmpl := env.Cfg.Export.OutputNameTemplate; len(tmpl) > 0 {
			expanded, err := expandTemplate(config.OutputNameTemplateFieldName, tmpl, Values{
				Context:    string(config.OutputNameTemplateFieldName),
				SourceFile: base,
				Width:      c.Width(),
				Height:     c.Height(),
				Background: c.Background(),
				Items:      c.Len(),
				Format:     format.String(),
			})
			if err != nil {
				env.Log.Warn("Unable to prepare output name", zap.Error(err))
			} else if len(expanded) > 0 {
				base = expanded
			}
		}
	}

	if env.Cfg.Export.FileNameTransliterate {
		base = slug.Make(base)
	}
	return config.CleanFileName(base)
}
