// Package testutil provides helpers for running homeadmin commands in tests.
package testutil

import (
	"bytes"
	"fmt"
	"strings"

	"go.safehomi.dev/homeadmin/pkg/cli"
)

// Result is the captured outcome of one command run.
type Result struct {
	Stdout string
	Stderr string
	Err    error
}

// ExecuteCommand runs the root command in-process with args, feeding stdin
// to prompts, and captures both output streams.
func ExecuteCommand(args []string, stdin string) Result {
	root := cli.NewRootCommand(&cli.Options{})

	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)

	err := root.Execute()
	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Err: err}
}

// CheckCommandOutput verifies that command output contains expected strings.
func CheckCommandOutput(output string, expected ...string) error {
	for _, exp := range expected {
		if !strings.Contains(output, exp) {
			return fmt.Errorf("output does not contain expected string: %q", exp)
		}
	}
	return nil
}
