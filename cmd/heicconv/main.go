// Command heicconv converts HEIC/HEIF photos to common image formats.
//
// Subcommands:
//
//	convert   batch conversion using the saved settings as defaults
//	tui       interactive file picker and settings form
//	serve     local web API
//	settings  show or change the saved settings (config.ini)
//	config    show or initialise the application config (config.yaml)
//	associate register a file format with this program
//
// Exit codes: 0 = success, 1 = error or at least one failed file.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"HeicConvert/internal/logger"
)

func main() {
	_ = godotenv.Load()
	defer logger.Close()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
