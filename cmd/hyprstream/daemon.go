package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/hyprstream/hyprstream/internal/config"
	"github.com/hyprstream/hyprstream/internal/daemon"
	"github.com/hyprstream/hyprstream/internal/hypr"
	"github.com/hyprstream/hyprstream/internal/logging"
	"github.com/hyprstream/hyprstream/internal/runtimepath"
)

func runDaemon(args []string, stderr io.Writer) int {
	fs := pflag.NewFlagSet("daemon", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.StringP("config", "c", "", "Config file path (default: "+config.DefaultPath()+")")
	verbose := fs.BoolP("verbose", "v", false, "Enable debug logging (same as --log-level debug)")
	logLevel := fs.String("log-level", "info", "Log level: debug, info, warn or error")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hyprstream daemon [options]")
		fmt.Fprintln(stderr, "")
		fmt.Fprintln(stderr, "Run the streaming-mode daemon in the foreground.")
		fmt.Fprintln(stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	level := new(slog.LevelVar)
	parsed, err := logging.ParseLevel(*logLevel)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	level.Set(parsed)
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	logger := logging.New(stderr, level)

	path := *configPath
	if path == "" {
		path = config.DefaultPath()
	}
	cfg, err := config.Load(path, logger)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return 1
	}
	logger.Info("configuration loaded",
		"path", path,
		"workspace", cfg.StreamingWorkspace,
		"resolution", cfg.VirtualResolution,
		"auto_enable", cfg.AutoEnable,
	)

	requestPath, err := runtimepath.CompositorSocketPath()
	if err != nil {
		logger.Error("cannot locate Hyprland", "error", err)
		return 1
	}
	eventPath, err := runtimepath.EventSocketPath()
	if err != nil {
		logger.Error("cannot locate Hyprland", "error", err)
		return 1
	}

	client := hypr.NewClient(requestPath, logger)
	machine := daemon.NewMachine(cfg, client, daemon.NewShellHooks(logger), logger)
	loop := daemon.NewLoop(daemon.LoopConfig{
		EventSocket:   eventPath,
		ControlSocket: runtimepath.ControlSocketPath(),
		Logger:        logger,
	}, machine)

	release := loop.StopOnSignals()
	defer release()

	logger.Info("hyprstream daemon starting", "version", version)
	if err := loop.Run(); err != nil {
		logger.Error("daemon exited with error", "error", err)
		return 1
	}
	return 0
}
