package main

import (
	"os"

	"github.com/joho/godotenv"

	"pagetalk/internal/cli"
)

func main() {
	// Credentials commonly live in a .env next to the site being managed;
	// load it before flag defaults read the environment.
	_ = godotenv.Load()

	cmd := cli.NewRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
