package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess    = 0 // Benchmark completed, every pair produced scores
	ExitPairFailed = 1 // Benchmark completed, but one or more pairs failed
	ExitError      = 2 // Configuration or runtime error
)

// BenchFailureError indicates that the benchmark ran to completion, but one
// or more (model, test case) pairs failed and fell back to placeholders.
type BenchFailureError struct {
	Message string
}

func (e *BenchFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		// Check error type to determine exit code
		var benchFailureErr *BenchFailureError
		if errors.As(err, &benchFailureErr) {
			os.Exit(ExitPairFailed)
		}

		// All other errors are configuration/runtime errors
		os.Exit(ExitError)
	}
}
