package main

import (
	"os"

	"stortally/internal/logger"

	// Explicitly import provider implementations to ensure their init() functions run and they register themselves
	_ "stortally/pkg/storage/aws"
	_ "stortally/pkg/storage/gcp"
)

func main() {
	debug := false
	for _, arg := range os.Args[1:] {
		if arg == "--debug" || arg == "-d" {
			debug = true
		}
	}
	log := logger.NewLogger(debug)

	app, err := newApp(log)
	if err != nil {
		log.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}
	Execute(app)
}
