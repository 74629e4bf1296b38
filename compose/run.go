package compose

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"svgc/canvas"
	"svgc/config"
	"svgc/state"
)

func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compose")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no layout file has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	formats, err := parseFormats(cmd.String("to"))
	if err != nil {
		return err
	}

	scales := env.Cfg.Export.Scales
	if s := cmd.String("scales"); len(s) > 0 {
		if scales, err = parseScales(s); err != nil {
			return err
		}
	}

	env.Overwrite = cmd.Bool("overwrite")

	log.Info("Composition starting", zap.String("layout", src), zap.String("destination", dst), zap.Stringers("formats", formats))
	defer func(start time.Time) {
		log.Info("Composition completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, cmd.String("name"), formats, scales, log)
}

// process performs one composition independently of the CLI framework.
func process(ctx context.Context, src, dst, nameOverride string, formats []config.OutputFmt, scales []float64, log *zap.Logger) (rerr error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	defer func() {
		// NOTE: some of golang graphic processing libraries are not mature
		// enough, make sure renderer crashes surface as regular errors.
		if r := recover(); r != nil {
			log.Error("Composition ended with panic", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("composition panic: %v", r)
		}
	}()

	layout, err := LoadLayout(src)
	if err != nil {
		return err
	}

	c, err := layout.Build(env.Cfg.Canvas, log)
	if err != nil {
		return err
	}

	for _, format := range formats {
		base := buildBaseName(src, nameOverride, c, format, env)

		switch format {
		case config.OutputFmtSvg, config.OutputFmtPdf:
			name := filepath.Join(dst, base+format.Ext())
			if err := prepareOutput(name, env, log); err != nil {
				return err
			}
			if format == config.OutputFmtSvg {
				err = c.SaveSVG(name)
			} else {
				err = c.SavePDF(name)
			}
			if err != nil {
				return fmt.Errorf("unable to produce %s output: %w", format, err)
			}
			log.Info("Output written", zap.String("file", name))
		case config.OutputFmtPng:
			for _, scale := range scales {
				if err := prepareOutput(filepath.Join(dst, canvas.BitmapName(base, scale)), env, log); err != nil {
					return err
				}
			}
			written, err := c.SavePNGResolutions(dst, base, scales)
			if err != nil {
				return fmt.Errorf("unable to produce png output: %w", err)
			}
			log.Info("Output written", zap.Strings("files", written))
		}
	}
	return nil
}

// prepareOutput enforces the overwrite policy and makes sure the output
// directory exists.
func prepareOutput(path string, env *state.LocalEnv, log *zap.Logger) error {
	if _, err := os.Stat(path); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", path)
		}
		log.Warn("Overwriting existing file", zap.String("file", path))
		if err = os.Remove(path); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}
	return nil
}

func parseFormats(s string) ([]config.OutputFmt, error) {
	if len(s) == 0 {
		s = config.OutputFmtSvg.String()
	}
	var formats []config.OutputFmt
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		f, err := config.ParseOutputFmt(part)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	if len(formats) == 0 {
		return nil, errors.New("no output format has been specified")
	}
	return formats, nil
}

func parseScales(s string) ([]float64, error) {
	var scales []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if len(part) == 0 {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%q is not a valid bitmap scale", part)
		}
		scales = append(scales, v)
	}
	return scales, nil
}
