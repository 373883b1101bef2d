package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/personaprobe/personaprobe/internal/errdefs"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0 // Command completed
	ExitError   = 2 // Configuration or runtime error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Typed errors carry a one-line suggested fix.
		var rem errdefs.Remediator
		if errors.As(err, &rem) && rem.Remediation() != "" {
			fmt.Fprintln(os.Stderr, rem.Remediation())
		}

		os.Exit(ExitError)
	}
}
