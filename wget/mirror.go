// Package wget mirrors a documentation site by running GNU Wget.
package wget

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"

	"github.com/fwojciec/kdoc"
)

// DefaultBinary is the executable looked up on PATH.
const DefaultBinary = "wget"

// ExitServerError is Wget's exit status when the server answered some
// requests with an error (e.g. 404). Fetch treats it as success.
const ExitServerError = 8

// Ensure Mirror implements kdoc.Mirror at compile time.
var _ kdoc.Mirror = (*Mirror)(nil)

// Mirror runs wget with a fixed option set.
type Mirror struct {
	binary string
	stdout io.Writer
	stderr io.Writer
}

// Option configures a Mirror.
type Option func(*Mirror)

// WithBinary sets the wget executable. Defaults to DefaultBinary.
func WithBinary(path string) Option {
	return func(m *Mirror) {
		m.binary = path
	}
}

// WithOutput sets where wget's progress output goes.
// Defaults to the process's stdout and stderr.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(m *Mirror) {
		m.stdout = stdout
		m.stderr = stderr
	}
}

// NewMirror creates a new Mirror.
func NewMirror(opts ...Option) *Mirror {
	m := &Mirror{
		binary: DefaultBinary,
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Available reports whether the wget executable can be found.
func (m *Mirror) Available() bool {
	_, err := exec.LookPath(m.binary)
	return err == nil
}

// Args returns the wget arguments for mirroring url into destDir.
func Args(url, destDir string) []string {
	return []string{
		"--mirror",
		"--convert-links",
		"--adjust-extension",
		"--page-requisites",
		"--no-parent",
		"--no-host-directories",
		"--directory-prefix", destDir,
		"--quiet",
		"--show-progress",
		url,
	}
}

// Fetch mirrors url into destDir. Returns EUNAVAILABLE when wget cannot be
// started or exits with a status other than 0 or ExitServerError.
func (m *Mirror) Fetch(ctx context.Context, url, destDir string) error {
	cmd := exec.CommandContext(ctx, m.binary, Args(url, destDir)...)
	cmd.Stdout = m.stdout
	cmd.Stderr = m.stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if exitErr.ExitCode() == ExitServerError {
			return nil
		}
		return kdoc.Errorf(kdoc.EUNAVAILABLE, "wget exited with status %d", exitErr.ExitCode())
	}
	return kdoc.Errorf(kdoc.EUNAVAILABLE, "failed to run %s: %v", m.binary, err)
}
