// Package mediatool wraps the external media binaries: a Runner abstraction
// over exec, ffprobe duration probing, and secondary-audio validation.
package mediatool

import (
	"bytes"
	"context"
	"io"
	"os/exec"
)

// RunOptions adjusts a single command invocation.
type RunOptions struct {
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// RunResult carries the captured output of a completed command.
type RunResult struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes external commands. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error)
}

// CmdRunner is the production Runner backed by os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, command string, args []string, opts RunOptions) (RunResult, error) {
	cmd := exec.CommandContext(ctx, command, args...)
	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	stdoutWriter := io.Writer(&stdoutBuf)
	if opts.Stdout != nil {
		stdoutWriter = io.MultiWriter(&stdoutBuf, opts.Stdout)
	}
	stderrWriter := io.Writer(&stderrBuf)
	if opts.Stderr != nil {
		stderrWriter = io.MultiWriter(&stderrBuf, opts.Stderr)
	}

	cmd.Stdout = stdoutWriter
	cmd.Stderr = stderrWriter

	err := cmd.Run()
	return RunResult{Stdout: stdoutBuf.Bytes(), Stderr: stderrBuf.Bytes()}, err
}

var _ Runner = CmdRunner{}
