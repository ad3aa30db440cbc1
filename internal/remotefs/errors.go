package remotefs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors distinguishing the guard's failure kinds. Use errors.Is
// to test for them through the wrapping *PathError.
var (
	// ErrNotFound reports that the target path is absent, or is the wrong
	// type for the requested operation.
	ErrNotFound = errors.New("no such file or directory")

	// ErrExists reports that the destination is occupied and overwriting
	// was not permitted.
	ErrExists = errors.New("destination already exists")

	// ErrNotImplemented marks operations that are acknowledged gaps.
	ErrNotImplemented = errors.New("not implemented")
)

// PathError records an operation, the host and path it was attempted on,
// and the underlying cause.
type PathError struct {
	Op   string
	Host string
	Path string
	Err  error
}

func (e *PathError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("%s %s:%s: %v", e.Op, e.Host, e.Path, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PathError) Unwrap() error {
	return e.Err
}

// CommandError reports a remote command that exited non-zero when the
// guard's own probes did not anticipate the condition.
type CommandError struct {
	Cmd      string
	ExitCode int
	Stderr   string
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("command %q exited with status %d", e.Cmd, e.ExitCode)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// notFound wraps ErrNotFound with operation context.
func (c *Client) notFound(op, path string) error {
	return &PathError{Op: op, Host: c.host, Path: path, Err: ErrNotFound}
}

// alreadyExists wraps ErrExists with operation context.
func (c *Client) alreadyExists(op, path string) error {
	return &PathError{Op: op, Host: c.host, Path: path, Err: ErrExists}
}
