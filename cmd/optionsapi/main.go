package main

import (
	"github.com/joho/godotenv"

	"stock-options-api/internal/cli"
)

func main() {
	// A missing .env is fine; configuration falls back to real environment
	// variables and defaults.
	_ = godotenv.Load()

	cli.Execute()
}
