package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"linea/internal/app"
	"linea/internal/config"
	"linea/internal/logs"
	"linea/internal/render"
	"linea/internal/store"
	"linea/internal/term"
)

var Version = "dev"

const usage = "usage: linea [--version] [--] [file]"

var errUsage = errors.New(usage)

type cliArgs struct {
	version bool
	path    string
}

func parseArgs(args []string) (cliArgs, error) {
	var out cliArgs
	var positional []string
	for i := 0; i < len(args); i++ {
		a := args[i]
		switch {
		case a == "--":
			positional = append(positional, args[i+1:]...)
			i = len(args)
		case a == "--version" || a == "-V":
			out.version = true
		case strings.HasPrefix(a, "-") && a != "-":
			return cliArgs{}, fmt.Errorf("unknown flag %q\n%s", a, usage)
		default:
			positional = append(positional, a)
		}
	}
	if len(positional) > 1 {
		return cliArgs{}, errUsage
	}
	if len(positional) == 1 {
		out.path = positional[0]
	}
	return out, nil
}

func versionString() string {
	return "linea " + Version
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(argv []string) (code int) {
	var raw *term.Raw
	defer func() {
		if r := recover(); r != nil {
			_ = raw.Restore()
			fmt.Fprintf(os.Stderr, "linea panic: %v\n", r)
			_, _ = os.Stderr.Write(debug.Stack())
			code = 2
		}
	}()

	args, err := parseArgs(argv)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if args.version {
		fmt.Println(versionString())
		return 0
	}

	cfg, err := config.Load(config.Path())
	if err != nil {
		fmt.Fprintf(os.Stderr, "linea: config: %v\n", err)
		return 1
	}
	keys, err := app.KeymapFromConfig(cfg.Keys)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linea: config: %v\n", err)
		return 1
	}
	log := logs.Open(cfg.Log.Enabled, cfg.Log.File)
	defer log.Close()

	path := args.path
	if path != "" {
		if path, err = store.Normalize(path); err != nil {
			fmt.Fprintf(os.Stderr, "linea: %v\n", err)
			return 1
		}
	}

	in, out := int(os.Stdin.Fd()), int(os.Stdout.Fd())
	if !term.IsTerminal(in) {
		fmt.Fprintln(os.Stderr, "linea requires a TTY on stdin")
		return 1
	}
	if !term.IsTerminal(out) {
		fmt.Fprintln(os.Stderr, "linea requires a TTY on stdout")
		return 1
	}

	resize, stop := term.NotifyResize()
	defer stop()
	screen := render.New(os.Stdout, func() (int, int) { return term.Size(out) })
	ed, err := app.New(path, term.NewInput(in, resize), screen, store.Disk{}, app.Options{
		Keys:   keys,
		Logger: log.Logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "linea: %v\n", err)
		return 1
	}

	raw, err = term.Enable(in, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "linea: %v\n", err)
		return 1
	}
	runErr := ed.Run()
	_ = raw.Restore()
	if runErr != nil && !errors.Is(runErr, io.EOF) {
		log.Error("run", "err", runErr)
		fmt.Fprintf(os.Stderr, "linea: %v\n", runErr)
		return 1
	}
	return 0
}
