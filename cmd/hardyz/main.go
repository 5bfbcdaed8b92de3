// Command hardyz evaluates the Hardy Z function on the critical line, scans
// for its zeros and serves both over HTTP.
package main

import (
	"context"
	"os"

	"github.com/agbru/hardyz/internal/app"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		os.Exit(app.ExitCodeFor(err))
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
