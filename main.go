package main

import (
	"fmt"
	"os"
	"steamdash/internal/di"
	"steamdash/internal/structures"

	flag "github.com/spf13/pflag"
)

func main() {
	flags := &structures.CliFlags{}
	flag.StringVarP(&flags.ConfigPath, "config", "c", "./config.yaml", "path to the YAML config file")
	flag.StringVarP(&flags.EnvFile, "env", "e", ".env", "optional .env file with STEAMDASH_* overrides")
	flag.BoolVarP(&flags.DebugMode, "debug", "d", false, "log to the console as well as the log file")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "steamdash: %s\n", err)
		os.Exit(1)
	}
}
