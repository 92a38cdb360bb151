// SPDX-License-Identifier: MIT
//
// bambu-monitor - Bambu Lab P1S printer monitor
//
// Connects to the printer's local MQTT broker, accumulates its stream of
// partial status reports into one coherent view, and renders it to the
// terminal or to browsers.

package main

import (
	"fmt"
	"os"

	"github.com/hey-its-brian/bambu-logger-controller/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
