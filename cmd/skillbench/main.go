package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess            = 0 // Command completed
	ExitVerificationFailed = 1 // A checklist or concept verification did not pass
	ExitError              = 1 // Missing input, engine failure or bad configuration
)

// VerificationFailedError indicates that verification ran, but the workspace
// did not pass every check. The result has already been printed.
type VerificationFailedError struct {
	Message string
}

func (e *VerificationFailedError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		var verifyErr *VerificationFailedError
		if errors.As(err, &verifyErr) {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(ExitVerificationFailed)
		}

		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitError)
	}
}
