package device

import (
	"context"
	"io"
	"os/exec"
)

// CommandRunner executes external commands. Tests replace it to avoid running adb.
type CommandRunner interface {
	// LookPath finds the executable in PATH.
	LookPath(file string) (string, error)
	// CommandContext creates a command bound to ctx.
	CommandContext(ctx context.Context, name string, args ...string) Command
}

// Command is a prepared external command.
type Command interface {
	// SetStdout sets the stdout writer.
	SetStdout(stdout io.Writer)
	// SetStderr sets the stderr writer.
	SetStderr(stderr io.Writer)
	// Run starts the command and waits for it to finish.
	Run() error
}

type execRunner struct{}

// NewCommandRunner returns a CommandRunner backed by os/exec.
func NewCommandRunner() CommandRunner {
	return execRunner{}
}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (execRunner) CommandContext(ctx context.Context, name string, args ...string) Command {
	return &execCommand{cmd: exec.CommandContext(ctx, name, args...)}
}

type execCommand struct {
	cmd *exec.Cmd
}

func (c *execCommand) SetStdout(stdout io.Writer) { c.cmd.Stdout = stdout }

func (c *execCommand) SetStderr(stderr io.Writer) { c.cmd.Stderr = stderr }

func (c *execCommand) Run() error { return c.cmd.Run() }
