package replayer

import (
	"bufio"
	"io"
	"os"
	"strconv"

	"script-tty/internal/rerr"
)

// skipHeaderLine discards the typescript's human-readable "Script started
// on ..." header line, the way scriptreplay.c's byte-at-a-time
// read-until-newline loop does, before any marker parsing begins.
func skipHeaderLine(r io.Reader) error {
	br, ok := r.(*bufio.Reader)
	if !ok {
		return nil
	}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil
		}
		if b == '\n' {
			return nil
		}
	}
}

// Run implements C8: the replayer's argument dispatch and file opening.
// It mirrors scriptreplay.c's probe: argv[0] is assumed to name a
// sidecar timing file, with argv[1] the typescript and argv[2] a
// divisor. If the typescript (argv[1], default "typescript") cannot be
// opened, argv[0] instead names a typescript with inline markers, and
// argv[1] is reinterpreted as the divisor. With no arguments, stdin is
// replayed as an inline-marker typescript.
func Run(args []string, stdin io.Reader, stdout io.Writer) error {
	if len(args) > 3 {
		return rerr.Usage("usage: scriptreplay <timingfile> [<typescript> [<divisor>]]")
	}

	if len(args) == 0 {
		return runInline(stdin, stdout, 1)
	}

	timingName := args[0]
	typescriptName := "typescript"
	if len(args) >= 2 {
		typescriptName = args[1]
	}

	sfile, openErr := os.Open(typescriptName)
	if openErr == nil {
		defer sfile.Close()
		tfile, err := os.Open(timingName)
		if err != nil {
			return rerr.Setup("cannot open timing file "+timingName, err)
		}
		defer tfile.Close()

		divisor := 1.0
		if len(args) == 3 {
			d, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				return rerr.Usage("expected a number, but got " + args[2])
			}
			divisor = d
		}

		br := bufio.NewReader(sfile)
		if err := skipHeaderLine(br); err != nil {
			return err
		}
		return replayLegacy(tfile, br, stdout, divisor, nil)
	}

	// No separate typescript could be opened: argv[0] itself is the
	// typescript, and argv[1] (if any) is the divisor.
	divisor := 1.0
	if len(args) >= 2 {
		d, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return rerr.Usage("expected a number, but got " + args[1])
		}
		divisor = d
	}
	f, err := os.Open(timingName)
	if err != nil {
		return rerr.Setup("cannot open typescript "+timingName, err)
	}
	defer f.Close()
	return runInline(f, stdout, divisor)
}

// runInline drives the single-file inline-marker mode against r (already
// positioned at, or needing, the header skip).
func runInline(r io.Reader, out io.Writer, divisor float64) error {
	br := bufio.NewReader(r)
	if err := skipHeaderLine(br); err != nil {
		return err
	}
	p := NewParser(out, divisor)
	buf := make([]byte, 8192)
	for {
		n, err := br.Read(buf)
		if n > 0 {
			if ferr := p.Feed(buf[:n]); ferr != nil {
				return rerr.RuntimeIO("failed to write to stdout", ferr)
			}
		}
		if err != nil {
			if err == io.EOF {
				if ferr := p.Finish(); ferr != nil {
					return rerr.RuntimeIO("typescript ended unexpectedly", ferr)
				}
				return nil
			}
			return rerr.RuntimeIO("failed to read typescript", err)
		}
	}
}
