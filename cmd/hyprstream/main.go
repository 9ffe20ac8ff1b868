package main

import (
	"fmt"
	"io"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printMainUsage(stdout)
		return 0
	}

	switch args[0] {
	case "daemon":
		return runDaemon(args[1:], stderr)
	case "enable", "disable", "toggle", "status", "quit":
		return runControl(args[0], args[1:], stdout, stderr)
	case "config":
		return runConfig(args[1:], stdout, stderr)
	case "mcp":
		return runMCP(args[1:], stdout, stderr)
	case "version", "--version":
		fmt.Fprintf(stdout, "hyprstream %s\n", version)
		return 0
	case "help", "-h", "--help":
		printMainUsage(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n\n", args[0])
		printMainUsage(stderr)
		return 2
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: hyprstream <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Run the streaming-mode daemon (foreground)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  enable              Enable streaming mode")
	fmt.Fprintln(w, "  disable             Disable streaming mode")
	fmt.Fprintln(w, "  toggle              Toggle streaming mode")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  quit                Stop the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config print        Print the effective configuration as YAML")
	fmt.Fprintln(w, "  config path         Print the configuration file path")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "  version             Print version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'hyprstream <command> --help' for command-specific options.")
}
