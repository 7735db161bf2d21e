// Command o2conv converts dissolved-oxygen values between concentration,
// partial pressure and saturation units from the command line.
package main

import (
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
