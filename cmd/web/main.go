// Command web runs the KRX quote dashboard HTTP server.
package main

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"krxcli/internal/app"
)

//go:embed web
var webFiles embed.FS

func main() {
	frontend, err := fs.Sub(webFiles, "web")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load embedded frontend: %v\n", err)
		os.Exit(1)
	}

	application, err := app.NewApplication(frontend)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize application: %v\n", err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
