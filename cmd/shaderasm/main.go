// Command shaderasm assembles a shader program from a TOML or YAML build file.
//
//	shaderasm [-o out.metal] [-id] [-v] build.toml
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/soypat/gpushader/shaderaux"
)

var (
	flagOutput  string
	flagID      bool
	flagVerbose bool
	flagSilent  bool
)

func init() {
	flag.StringVar(&flagOutput, "o", "", "write shader program to file instead of stdout")
	flag.BoolVar(&flagID, "id", false, "print the shader cache ID to stdout")
	flag.BoolVar(&flagVerbose, "v", false, "enable debug logging")
	flag.BoolVar(&flagSilent, "silent", false, "suppress progress logging")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] buildfile\n", os.Args[0])
		flag.PrintDefaults()
	}
}

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	if err := run(flag.Arg(0), logger); err != nil {
		logger.Error("shaderasm failed", "err", err)
		os.Exit(1)
	}
}

func run(path string, logger *slog.Logger) error {
	bf, err := shaderaux.LoadBuildFile(path)
	if err != nil {
		return err
	}
	cfg := shaderaux.RenderConfig{
		Logger: logger,
		Silent: flagSilent,
	}
	var out io.Writer = os.Stdout
	if flagOutput != "" {
		fp, err := os.Create(flagOutput)
		if err != nil {
			return err
		}
		defer fp.Close()
		out = fp
	}
	if flagOutput != "" || !flagID {
		cfg.ShaderOutput = out
	}
	if flagID {
		cfg.IDOutput = os.Stdout
	}
	_, err = shaderaux.Render(bf, cfg)
	return err
}
