// Command scriptreplay replays a typescript file produced by script, per
// spec.md §6: `scriptreplay <timingfile> [<typescript> [<divisor>]]`.
package main

import (
	"fmt"
	"os"

	"script-tty/internal/replayer"
	"script-tty/internal/rerr"
)

var version = "dev"

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 1 && (args[0] == "--version" || args[0] == "-V") {
		fmt.Printf("scriptreplay v%s\n", version)
		return rerr.ExitOK
	}

	err := replayer.Run(args, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return rerr.ExitCode(err)
	}
	return rerr.ExitOK
}
