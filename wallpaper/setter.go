// Package wallpaper hands a rendered image to an external wallpaper program
// through its standard input.
package wallpaper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
)

var (
	ErrNotFound = errors.New("wallpaper program not found")
	ErrSpawn    = errors.New("could not start wallpaper program")
	ErrPipe     = errors.New("could not pipe image to wallpaper program")
	ErrExit     = errors.New("wallpaper program failed")
)

// Setter runs Program with Args once per Set call. The image is written to
// its stdin, which is closed before waiting for the exit status.
type Setter struct {
	Program string
	Args    []string
}

// Feh centers the image on the root window, reading it from stdin.
func Feh() Setter {
	return Setter{Program: "feh", Args: []string{"--bg-center", "-"}}
}

func (s Setter) Set(ctx context.Context, img []byte) error {
	path, err := exec.LookPath(s.Program)
	if err != nil {
		return fmt.Errorf("%w: %q, check it is in your PATH: %w", ErrNotFound, s.Program, err)
	}

	cmd := exec.CommandContext(ctx, path, s.Args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSpawn, err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrSpawn, s.Program, err)
	}
	logger := slog.Default().With("program", s.Program, "pid", cmd.Process.Pid)
	logger.Debug("started wallpaper program", "args", strings.Join(s.Args, " "))

	if _, err := io.Copy(stdin, bytes.NewReader(img)); err != nil {
		stdin.Close()
		if killErr := cmd.Process.Kill(); killErr != nil {
			logger.Error("could not kill wallpaper program", "error", killErr)
		}
		_ = cmd.Wait()
		return fmt.Errorf("%w: %w", ErrPipe, err)
	}
	if err := stdin.Close(); err != nil {
		logger.Error("could not close stdin", "error", err)
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: %q exited with code %d: %s", ErrExit, s.Program, exitErr.ExitCode(),
				strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("%w: %q: %w", ErrExit, s.Program, err)
	}
	return nil
}
