// Copyright The OpenTelemetry Authors
// SPDX-License-Identifier: Apache-2.0

// Program driftcore exposes the payload, span and export operations on the command line.
package main

import (
	"fmt"
	"os"

	"github.com/drift-observability/driftcore/command"
)

var version = "dev"

func main() {
	cmd := command.NewCommand(command.Settings{Version: version})
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
