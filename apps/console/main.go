package main

import (
	"fmt"
	"os"
)

func main() {
	c := newContainer()

	var code int
	must(c.Invoke(func(cli *commandLine) {
		if err := cli.run(os.Args); err != nil {
			if err != errHelp && err != errNotAllowed {
				_, _ = fmt.Fprintf(os.Stderr, "\nerror: %s\n", err)
			}
			code = 1
		}
	}))
	os.Exit(code)
}
