package main

import (
	"fmt"
	"io"
	"os"
)

const stdinName = "<stdin>"

// getInputReader handles the 3 modes of input:
// 1. Explicit stdin with -
// 2. Piped input (auto-detected when no file is given)
// 3. File input
func (a *app) getInputReader(file string) (io.Reader, func() error, error) {
	noop := func() error { return nil }

	// Mode 1: Explicit stdin
	if file == "-" {
		return a.stdin, noop, nil
	}

	// Mode 2: Piped input when no file is given
	if file == "" {
		if a.stdinPiped() {
			return a.stdin, noop, nil
		}
		return nil, nil, &CLIError{
			Type:    "input",
			Message: "no input",
			Hint:    "Pass a file, '-' for stdin, or pipe source into the command",
		}
	}

	// Mode 3: File input
	f, err := os.Open(file)
	if err != nil {
		return nil, nil, &CLIError{
			Type:    "input",
			Message: fmt.Sprintf("error opening file %s", file),
			Details: err.Error(),
		}
	}
	return f, f.Close, nil
}

// readSource reads a whole input and returns it with its display name.
func (a *app) readSource(file string) ([]byte, string, error) {
	reader, closeFunc, err := a.getInputReader(file)
	if err != nil {
		return nil, "", err
	}
	defer func() { _ = closeFunc() }()

	source, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read input: %w", err)
	}

	name := file
	if file == "" || file == "-" {
		name = stdinName
	}
	return source, name, nil
}

// hasPipedInput detects if there's data piped to stdin
func hasPipedInput() bool {
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}

	// Check if stdin is not a character device (i.e., it's piped)
	// Note: We don't check Size() > 0 because pipes may not report size correctly
	return (stat.Mode() & os.ModeCharDevice) == 0
}
