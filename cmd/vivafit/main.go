package main

import (
	"fmt"
	"os"
	"vivafit/internal/di"
	"vivafit/internal/structures"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "config.yaml", "path to the YAML configuration file")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "mirror logs to the console")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "vivafit: %s\n", err)
		os.Exit(1)
	}
}
