package main

import (
	"os"

	"github.com/sandeepkv93/taskdeck/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
