package main

import (
	"github.com/joho/godotenv"

	"stock-report-builder/internal/cli"
)

func main() {
	// Local dev convenience; environment wins in real deployments.
	_ = godotenv.Load()

	cli.Execute()
}
