package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/neurlang/mldeploy/config"
	"github.com/neurlang/mldeploy/inference"
)

func main() {
	def := config.Default()
	models := flag.String("models", def.Output.Dir, "directory holding the saved artifacts")
	input := flag.String("input", "", "CSV file with a header row, - or empty for stdin")
	flag.Parse()

	if err := run(*models, *input, def.Output); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(dir, input string, out config.OutputConfig) error {
	m, err := inference.Load(dir, out.ModelFile, out.FeaturesFile)
	if err != nil {
		return err
	}
	var r io.Reader = os.Stdin
	if input != "" && input != "-" {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	rows, err := m.ReadCSV(r)
	if err != nil {
		return err
	}
	pred, err := m.Predict(rows)
	if err != nil {
		return err
	}
	for _, p := range pred {
		fmt.Println(p)
	}
	return nil
}
