// Command airctl manages monitored stations and syncs from the terminal.
package main

import (
	"os"

	"github.com/howstheair/dashboard/cmd/airctl/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
