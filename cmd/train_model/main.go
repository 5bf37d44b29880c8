package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/neurlang/mldeploy/config"
	"github.com/neurlang/mldeploy/trainer"
)

func main() {
	cfgPath := flag.String("config", "", "optional YAML file overriding the defaults")
	verbose := flag.Bool("v", false, "log every fitted tree")
	flag.Bool("pgo", false, "enable pgo")
	flag.Parse()

	cfg := config.Default()
	if *cfgPath != "" {
		var err error
		if cfg, err = config.Load(*cfgPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	t := trainer.New(cfg)
	t.Verbose = *verbose
	accuracy, err := t.TrainModel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Printf("Training completed with accuracy: %.4f\n", accuracy)
}
