// Command retain inspects retain configurations and renders a demo scene
// headlessly.
package main

import (
	"os"

	"github.com/go-drift/retain/cmd/retain/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
