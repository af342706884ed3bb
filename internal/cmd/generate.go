package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/bnmkit/sdkgen/internal/codegen/generator"
	"github.com/bnmkit/sdkgen/internal/codegen/generator/cpp"
	"github.com/bnmkit/sdkgen/internal/config"
	"github.com/bnmkit/sdkgen/internal/log"
)

type Generate struct {
	Path                  string `arg:"" help:"Dump file (.cs/.txt), model document (.yaml/.json/.toml), module (.dll), or a directory of them" type:"path"`
	Output                string `help:"Output directory for generated headers" default:"SDK" env:"SDKGEN_OUTPUT" type:"path"`
	Clean                 bool   `help:"Remove the output directory before generating" default:"true" negatable:"" env:"SDKGEN_CLEAN"`
	ResetOverloadsPerFile bool   `help:"Restart overload numbering (Foo_1, Foo_2) for every input file" env:"SDKGEN_RESET_OVERLOADS_PER_FILE"`
	ModuleNamespace       bool   `help:"Wrap types in a namespace named after their module" env:"SDKGEN_MODULE_NAMESPACE"`
	Include               string `help:"Header included by every generated file" default:"BNMIncludes.hpp" env:"SDKGEN_INCLUDE"`
	TypeMap               string `help:"Extra primitive and base class mappings (yaml, json or toml)" env:"SDKGEN_TYPE_MAP" type:"path"`
}

// Run is called by Kong when the generate command is executed. Invalid
// input paths are reported and end the command without generating.
func (g *Generate) Run(logger *slog.Logger, diag log.DiagLogger) error {
	if g.Path == "" {
		logger.Error("No input path given")
		return nil
	}
	if _, err := os.Stat(g.Path); err != nil {
		logger.Error("Input path is not accessible", "path", g.Path, "error", err)
		return nil
	}

	opts, err := g.options()
	if err != nil {
		return err
	}

	logger.Info("Starting SDK generation", "input", g.Path, "output", g.Output)
	gen := generator.New(g.Output, logger, nil, opts)
	gen.SetDiagLogger(diag)
	if _, err := gen.Run(g.Path); err != nil {
		if errors.Is(err, generator.ErrNoInputs) {
			logger.Error("Nothing to generate", "error", err)
			return nil
		}
		if errors.Is(err, generator.ErrUnsafeClean) {
			logger.Error("Choose a separate output directory or pass --no-clean", "error", err)
			return nil
		}
		return err
	}
	return nil
}

func (g *Generate) options() (generator.Options, error) {
	cppOpts := cpp.DefaultOptions()
	cppOpts.ModuleNamespace = g.ModuleNamespace
	if g.Include != "" {
		cppOpts.Include = g.Include
	}
	if g.TypeMap != "" {
		tm, err := config.LoadTypeMap(g.TypeMap)
		if err != nil {
			return generator.Options{}, err
		}
		cppOpts = tm.Apply(cppOpts)
	}
	return generator.Options{
		Clean:                 g.Clean,
		ResetOverloadsPerFile: g.ResetOverloadsPerFile,
		Cpp:                   cppOpts,
	}, nil
}
