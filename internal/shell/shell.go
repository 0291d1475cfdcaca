// Package shell runs external commands without a shell.
package shell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/google/shlex"
)

// CommandRunner abstracts command execution so callers can be tested without
// real subprocesses.
type CommandRunner interface {
	Run(ctx context.Context, stdin string, name string, args ...string) (stdout string, stderr string, err error)
}

// ExecRunner implements CommandRunner with os/exec.
type ExecRunner struct{}

// Run executes name with args, feeding stdin when it is non-empty.
func (ExecRunner) Run(ctx context.Context, stdin string, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if stdin != "" {
		cmd.Stdin = strings.NewReader(stdin)
	}
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Split breaks a command line into words using POSIX shell quoting rules.
func Split(line string) ([]string, error) {
	words, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("parsing command %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, errors.New("empty command")
	}
	return words, nil
}

// RunLine splits line and runs it with r, returning its stdout.
func RunLine(ctx context.Context, r CommandRunner, line string) (string, error) {
	words, err := Split(line)
	if err != nil {
		return "", err
	}
	stdout, stderr, err := r.Run(ctx, "", words[0], words[1:]...)
	if err != nil {
		msg := strings.TrimSpace(stderr)
		if msg == "" {
			msg = strings.TrimSpace(stdout)
		}
		if msg != "" {
			return stdout, fmt.Errorf("running %q: %w: %s", line, err, msg)
		}
		return stdout, fmt.Errorf("running %q: %w", line, err)
	}
	return stdout, nil
}

// Interactive runs words[0] with the rest of words as arguments, attached to
// the process's terminal. Used for editors.
func Interactive(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return errors.New("empty command")
	}
	cmd := exec.CommandContext(ctx, words[0], words[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("running %s: %w", words[0], err)
	}
	return nil
}
