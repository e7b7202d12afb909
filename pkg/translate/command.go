package translate

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// CommandExecutor runs the translation tool as a child process.
type CommandExecutor struct {
	// Command is the program and its arguments, e.g. ["npx", "lingo.dev@latest", "run"].
	Command []string
	// Env is appended to the parent environment.
	Env []string
	// Stderr receives the tool's standard error. Defaults to os.Stderr.
	Stderr io.Writer
	logger *logrus.Logger
}

// NewCommandExecutor creates an executor for command.
func NewCommandExecutor(command []string, env []string, logger *logrus.Logger) *CommandExecutor {
	if logger == nil {
		logger = logrus.New()
	}
	return &CommandExecutor{
		Command: command,
		Env:     env,
		Stderr:  os.Stderr,
		logger:  logger,
	}
}

// Execute implements Executor.
func (e *CommandExecutor) Execute(ctx context.Context, dir string, stdout io.Writer) (int, error) {
	if len(e.Command) == 0 {
		return -1, &SubprocessLaunchError{Err: errors.New("no translator command configured")}
	}

	cmd := exec.CommandContext(ctx, e.Command[0], e.Command[1:]...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), e.Env...)

	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return -1, &SubprocessLaunchError{Command: e.Command, Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return -1, &SubprocessLaunchError{Command: e.Command, Err: fmt.Errorf("stderr pipe: %w", err)}
	}

	if err := cmd.Start(); err != nil {
		return -1, &SubprocessLaunchError{Command: e.Command, Err: err}
	}

	e.logger.WithFields(logrus.Fields{
		"command": e.Command,
		"dir":     dir,
		"pid":     cmd.Process.Pid,
	}).Debug("Translator subprocess started")

	stderr := e.Stderr
	if stderr == nil {
		stderr = io.Discard
	}

	// Both pipes must be drained before Wait closes them.
	var g errgroup.Group
	g.Go(func() error {
		_, err := io.Copy(stdout, outPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(stderr, errPipe)
		return err
	})
	streamErr := g.Wait()

	waitErr := cmd.Wait()
	if waitErr != nil {
		var exitErr *exec.ExitError
		if errors.As(waitErr, &exitErr) {
			return exitErr.ExitCode(), nil
		}
		return -1, fmt.Errorf("wait for translator: %w", waitErr)
	}
	if streamErr != nil {
		return 0, fmt.Errorf("read translator output: %w", streamErr)
	}
	return 0, nil
}
