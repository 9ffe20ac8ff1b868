package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/hyprstream/hyprstream/internal/ipc"
)

// sender is the part of ipc.Client the control subcommands use.
type sender interface {
	Send(cmd ipc.Command) (string, error)
}

var newSender = func() sender { return ipc.NewClient() }

// isTerminal reports whether w is an interactive terminal.
var isTerminal = func(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func runControl(verb string, args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet(verb, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	raw := fs.Bool("raw", false, "Print the daemon reply verbatim")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: hyprstream %s [--raw]\n", verb)
		fmt.Fprintln(stderr, "")
		fmt.Fprintf(stderr, "Send %q to the running daemon and print its reply.\n", verb)
	}
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintf(stderr, "%s takes no arguments\n", verb)
		fs.Usage()
		return 2
	}

	cmd, err := ipc.ParseCommand(verb)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	reply, err := newSender().Send(cmd)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	if ipc.IsErrorReply(reply) {
		fmt.Fprintln(stderr, reply)
		return 1
	}

	if cmd == ipc.CommandStatus && !*raw && isTerminal(stdout) {
		if st, err := ipc.ParseStatus(reply); err == nil {
			printStatusTable(stdout, st)
			return 0
		}
	}
	fmt.Fprintln(stdout, reply)
	return 0
}

func printStatusTable(w io.Writer, st ipc.Status) {
	mode := "disabled"
	if st.Enabled {
		mode = "enabled"
	}
	mirroring := "off"
	if st.Mirroring {
		mirroring = "on"
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "mode:\t%s\n", mode)
	fmt.Fprintf(tw, "headless:\t%s\n", orDash(st.Headless))
	fmt.Fprintf(tw, "physical:\t%s\n", orDash(st.Physical))
	fmt.Fprintf(tw, "workspace:\t%s\n", orDash(st.Workspace))
	fmt.Fprintf(tw, "mirroring:\t%s\n", mirroring)
	tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
