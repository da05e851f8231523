// Package main enables optionalize to execute as a CLI tool and as a go:generate step
package main

import (
	"os"

	"github.com/pouriyajamshidi/optionalize/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
