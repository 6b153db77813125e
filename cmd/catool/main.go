package main

import (
	"os"

	"torus-ca/internal/cli"
)

func main() {
	os.Exit(cli.GetExitCode(cli.Execute()))
}
