// Package cmd holds the kong command tree of the sdkgen binary.
package cmd

// CLI is the root command line.
type CLI struct {
	ConfigFile string `name:"config" help:"Config file (json, yaml or toml); overrides the default search paths" env:"SDKGEN_CONFIG" type:"path"`

	Log LogConfig `embed:"" prefix:"log."`

	Generate Generate      `cmd:"" help:"Generate BNM headers from a dump, model document or module"`
	Config   ConfigCommand `cmd:"" help:"Manage configuration files"`
	Version  Version       `cmd:"" help:"Print the sdkgen version"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level    string `help:"Log level" default:"info" enum:"trace,debug,info,warn,error" env:"SDKGEN_LOG_LEVEL"`
	File     string `help:"Also write logs to this file" env:"SDKGEN_LOG_FILE" type:"path"`
	Format   string `help:"Console log format; auto picks json when stdout is not a terminal" default:"auto" enum:"auto,text,json" env:"SDKGEN_LOG_FORMAT"`
	DiagFile string `help:"Write skipped dump lines to this file" env:"SDKGEN_LOG_DIAG_FILE" type:"path"`
}
