// Package main is the entry point for the vendra CLI.
package main

import (
	"os"

	"github.com/vendra/vendra/cmd/vendra/app"
	"github.com/vendra/vendra/pkg/logger"
)

func main() {
	// Initialize the logger
	logger.Initialize()

	if err := app.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
