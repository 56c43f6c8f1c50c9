package main

import (
	"os"

	"github.com/shouni/gemini-image-runner/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
