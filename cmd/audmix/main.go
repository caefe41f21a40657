// SPDX-License-Identifier: EPL-2.0

// Command audmix plays, renders and inspects audio assets with the audmix
// mixer.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
