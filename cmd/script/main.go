// Command script records an interactive terminal session to a typescript
// file, per spec.md §6: `script [-a] [-c <command>] [-e] [-f] [-q] [-t] [file]`.
package main

import (
	"fmt"
	"log"
	"os"

	"golang.org/x/sync/errgroup"

	"script-tty/internal/config"
	"script-tty/internal/liveview"
	"script-tty/internal/notify"
	"script-tty/internal/recorder"
	"script-tty/internal/rerr"
	"script-tty/internal/ttystate"
)

var version = "dev"

func usage() {
	fmt.Fprintln(os.Stderr, "usage: script [-a] [-c command] [-e] [-f] [-q] [-t] [file]")
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run scans args by hand, getopt-style, the way the teacher's main.go
// walks os.Args rather than reaching for a flags package.
func run(args []string) int {
	var (
		appendFlag bool
		command    string
		returnFlag bool
		flushFlag  bool
		quiet      bool
		timing     bool
		rest       []string
	)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch arg {
		case "-a":
			appendFlag = true
		case "-c":
			i++
			if i >= len(args) {
				usage()
				return rerr.ExitUsage
			}
			command = args[i]
		case "-e":
			returnFlag = true
		case "-f":
			flushFlag = true
		case "-q":
			quiet = true
		case "-t":
			timing = true
		case "-V", "--version":
			fmt.Printf("script-tty v%s\n", version)
			return rerr.ExitOK
		default:
			if len(arg) > 1 && arg[0] == '-' {
				fmt.Fprintf(os.Stderr, "unknown option %q\n", arg)
				usage()
				return rerr.ExitUsage
			}
			rest = append(rest, arg)
		}
	}

	if len(rest) > 1 {
		usage()
		return rerr.ExitUsage
	}
	filename := ""
	if len(rest) == 1 {
		filename = rest[0]
	}

	opts := recorder.Options{
		Filename: filename,
		Append:   appendFlag,
		Command:  command,
		Sync:     flushFlag,
		Quiet:    quiet,
		Return:   returnFlag,
		Timing:   timing,
	}

	cfg, cfgErr := config.Load()
	if cfgErr != nil {
		cfg = &config.Config{}
	}
	if opts.Command == "" && cfg.Shell != "" {
		os.Setenv("SHELL", cfg.Shell)
	}

	// The recording session itself runs on the calling goroutine; any
	// optional background services (currently just the live viewer) are
	// supervised through an errgroup so a crash in one surfaces through
	// a single logged Wait() rather than a silently dropped goroutine.
	var services errgroup.Group
	var viewer *liveview.Server
	if cfg.LiveViewAddr != "" {
		viewer = liveview.New(cfg)
		services.Go(func() error {
			return viewer.ListenAndServe(cfg.LiveViewAddr)
		})
		go func() {
			if err := services.Wait(); err != nil {
				log.Printf("live viewer stopped: %v\n", err)
			}
		}()
	}

	notifier, err := notify.New(cfg)
	if err != nil {
		log.Printf("notify: %v\n", err)
		notifier = nil
	}
	var screen *notify.ScreenReader
	if notifier != nil {
		rows, cols := 24, 80
		if r, c, err := ttystate.WinSize(0); err == nil {
			rows, cols = int(r), int(c)
		}
		screen = notify.NewScreenReader(cols, rows)
	}

	opts.Tap = func(data []byte) {
		if viewer != nil {
			viewer.Broadcast(data)
		}
		if screen != nil {
			screen.Write(data)
		}
	}
	opts.OnResize = func(rows, cols uint16) {
		if screen != nil {
			screen.Resize(int(cols), int(rows))
		}
	}

	sess, err := recorder.Start(opts)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rerr.ExitCode(err)
	}
	if !opts.Quiet {
		fmt.Printf("Script started, file is %s\n", sess.Filename())
	}
	code, err := sess.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	if !opts.Quiet {
		fmt.Printf("Script done, file is %s\n", sess.Filename())
	}

	if notifier != nil {
		cmdDesc := opts.Command
		if cmdDesc == "" {
			cmdDesc = "interactive shell"
		}
		if nerr := notifier.SessionEnded(cmdDesc, screen.Screen()); nerr != nil {
			log.Printf("notify: %v\n", nerr)
		}
	}

	return code
}
