package main

import (
	"fmt"
	"os"

	"github.com/Conceptual-Machines/note-gen/internal/cli"
	"github.com/joho/godotenv"
)

// version is set via ldflags during build
var version = "dev"

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := cli.NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
