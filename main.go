package main

import (
	"github.com/joho/godotenv"

	"simcat/cmd"
)

// Version can be set during build with -ldflags
var version = "dev"

func main() {
	// A .env file can carry SIMCAT_* settings for local development; its
	// absence is fine.
	_ = godotenv.Load(".env")

	cmd.SetVersion(version)
	cmd.Execute()
}
