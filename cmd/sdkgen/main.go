package main

import (
	"os"
	"strings"

	"github.com/bnmkit/sdkgen/internal/cmd"
	"github.com/bnmkit/sdkgen/internal/configpaths"
	"github.com/bnmkit/sdkgen/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli cmd.CLI
	ctx := kong.Parse(&cli,
		kong.Name("sdkgen"),
		kong.Description("Generate ByNameModding C++ headers from IL2CPP metadata"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.SetupLogger(cli.Log.Level, cli.Log.File, cli.Log.Format)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var diagLogger log.DiagLogger
	if cli.Log.DiagFile != "" {
		f, err := os.OpenFile(cli.Log.DiagFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open diagnostics log file", "file", cli.Log.DiagFile, "error", err)
			diagLogger = log.NewDiag(nil)
		} else {
			diagLogger = log.NewDiag(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		diagLogger = log.NewDiag(os.Stdout)
	} else {
		diagLogger = log.NewDiag(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(diagLogger, (*log.DiagLogger)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("SDKGEN_CONFIG"); v != "" {
		return v
	}
	return ""
}
