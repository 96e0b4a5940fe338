// SPDX-License-Identifier: MIT

// Command streetnet builds, inspects and queries street networks stored as
// JSON records.
//
//	streetnet generate grid net.json --rows 4 --cols 4
//	streetnet route net.json 3 1 27 18 --directed
//	streetnet clip net.json area.geojson part.json
package main

import (
	"os"

	"github.com/katalvlaran/streetnet/logs"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logs.Logger.WithError(err).Error("streetnet failed")
		os.Exit(1)
	}
}
