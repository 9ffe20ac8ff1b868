package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/hyprstream/hyprstream/internal/config"
	"github.com/hyprstream/hyprstream/internal/logging"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  hyprstream config print [-c PATH]")
	fmt.Fprintln(w, "  hyprstream config path")
}

func runConfig(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printConfigUsage(stderr)
		return 2
	}

	switch args[0] {
	case "print":
		fs := pflag.NewFlagSet("print", pflag.ContinueOnError)
		fs.SetOutput(stderr)
		path := fs.StringP("config", "c", "", "Config file path (default: "+config.DefaultPath()+")")
		if err := fs.Parse(args[1:]); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				return 0
			}
			return 2
		}
		if *path == "" {
			*path = config.DefaultPath()
		}

		// Parse warnings go to stderr so stdout stays valid YAML.
		level := new(slog.LevelVar)
		level.Set(slog.LevelWarn)
		cfg, err := config.Load(*path, logging.New(stderr, level))
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		data, err := cfg.YAML()
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintf(stdout, "# source: %s\n", *path)
		stdout.Write(data)
		return 0

	case "path":
		fmt.Fprintln(stdout, config.DefaultPath())
		return 0

	case "help", "-h", "--help":
		printConfigUsage(stdout)
		return 0

	default:
		fmt.Fprintf(stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(stderr)
		return 2
	}
}
