// Package main is the entry point for figurine, a terminal workspace for
// placing images in a document.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/dshills/figurine/internal/app"
	"github.com/dshills/figurine/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type flags struct {
	opts app.Options
	dump bool
}

func run() int {
	f := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if !f.dump && !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: figurine needs a terminal (use -dump for a snapshot)")
		return 1
	}

	if f.dump {
		// Lay out for the current terminal, or a classic 80x24 when piped.
		cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil {
			cols, rows = 80, 24
		}
		f.opts.Backend = backend.NewNullBackend(cols, rows)
	}

	application, err := app.New(f.opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	if f.dump {
		return dump(ctx, application)
	}

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// dump prints the engine snapshot for the image directory.
func dump(ctx context.Context, application *app.Application) int {
	doc, err := application.Dump(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	out := pretty.Pretty([]byte(doc))
	if term.IsTerminal(int(os.Stdout.Fd())) {
		out = pretty.Color(out, nil)
	}
	_, _ = os.Stdout.Write(out)
	return 0
}

func parseFlags() flags {
	var f flags
	var showVersion bool
	var showHelp bool

	flag.StringVar(&f.opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&f.opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&f.opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.BoolVar(&f.dump, "dump", false, "Print the document snapshot as JSON and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "figurine - place images in a document\n\n")
		fmt.Fprintf(os.Stderr, "Usage: figurine [options] [dir]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys:\n")
		fmt.Fprintf(os.Stderr, "  click         select an image\n")
		fmt.Fprintf(os.Stderr, "  Alt+m Alt+r   move or resize mode, then drag or use the arrows\n")
		fmt.Fprintf(os.Stderr, "  Alt+o         toggle flow and overlay\n")
		fmt.Fprintf(os.Stderr, "  l r c o       wrap left, right, centre, overlay\n")
		fmt.Fprintf(os.Stderr, "  [ ]           opacity down, up\n")
		fmt.Fprintf(os.Stderr, "  Delete        remove the selected image\n")
		fmt.Fprintf(os.Stderr, "  q             quit\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  figurine ./images\n")
		fmt.Fprintf(os.Stderr, "  figurine -dump ./images\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("figurine %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	if flag.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "Error: at most one directory may be given")
		os.Exit(2)
	}
	f.opts.Dir = flag.Arg(0)
	return f
}
