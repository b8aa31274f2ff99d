// Package shaderaux provides auxiliary functions to get started building shaders
// from build files quickly. Applications embedding a color transform compiler
// should drive [gpushader.ShaderDesc] directly.
package shaderaux

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/soypat/gpushader"
)

type RenderConfig struct {
	// ShaderOutput receives the assembled shader program.
	ShaderOutput io.Writer
	// IDOutput receives the cache ID followed by a newline.
	IDOutput io.Writer
	// Logger reports progress. Nil uses [slog.Default].
	Logger *slog.Logger
	Silent bool
}

// Render builds and finalizes the shader described by bf and writes the
// results to the outputs in cfg. The finalized descriptor is returned.
func Render(bf *BuildFile, cfg RenderConfig) (*gpushader.ShaderDesc, error) {
	if cfg.ShaderOutput == nil && cfg.IDOutput == nil {
		return nil, errors.New("Render requires output parameter in config")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	log := func(msg string, args ...any) {
		if !cfg.Silent {
			logger.Info(msg, args...)
		}
	}

	watch := stopwatch()
	d, err := bf.Descriptor()
	if err != nil {
		return nil, fmt.Errorf("configuring shader: %w", err)
	}
	d.SetLogger(logger)
	if err := d.Finalize(); err != nil {
		return nil, err
	}
	log("finalized shader", "language", d.Language(), "function", d.FunctionName(),
		"resources", d.NumResources(), "bytes", len(d.ShaderText()), "elapsed", watch())

	if cfg.ShaderOutput != nil {
		if _, err := io.WriteString(cfg.ShaderOutput, d.ShaderText()); err != nil {
			return d, fmt.Errorf("writing shader: %w", err)
		}
		filename := "shader program"
		if fp, ok := cfg.ShaderOutput.(*os.File); ok {
			filename = fp.Name()
		}
		log("wrote " + filename)
	}
	if cfg.IDOutput != nil {
		if _, err := io.WriteString(cfg.IDOutput, d.CacheID()+"\n"); err != nil {
			return d, fmt.Errorf("writing cache ID: %w", err)
		}
	}
	return d, nil
}

func stopwatch() func() time.Duration {
	start := time.Now()
	return func() time.Duration {
		return time.Since(start)
	}
}
