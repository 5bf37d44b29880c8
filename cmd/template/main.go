package main

import (
	"fmt"
	"os"

	"github.com/neurlang/mldeploy/scaffold"
)

func run() error {
	return scaffold.Generate(".", scaffold.Files(), scaffold.NewLogger(os.Stderr))
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
