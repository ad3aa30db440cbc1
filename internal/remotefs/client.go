// Package remotefs implements guarded file management operations on a
// remote POSIX filesystem. Each operation probes the existence and type
// of the paths involved before composing the mutating shell command, so
// that commands like mv never silently reinterpret an occupied
// destination. Commands run over a connector.Connector; the package
// never talks to the network directly.
//
// Probes and mutating commands are separate round trips; there is no
// atomic test-and-act primitive, so a concurrent writer can still slip
// between the check and the command. Callers must serialize access to a
// client themselves.
package remotefs

import (
	"context"
	"fmt"
	"os"

	"github.com/eugenetaranov/ferry/internal/connector"
)

// Client performs guarded file operations on one host over a single
// connection.
type Client struct {
	conn connector.Connector

	// host labels errors with the target host.
	host string

	// downloadRoot is the default destination for downloads.
	downloadRoot string
}

// Option configures the client.
type Option func(*Client)

// WithHost sets the host label used in error messages.
func WithHost(name string) Option {
	return func(c *Client) {
		c.host = name
	}
}

// WithDownloadRoot sets the default local destination for downloads.
func WithDownloadRoot(dir string) Option {
	return func(c *Client) {
		c.downloadRoot = dir
	}
}

// New creates a client on top of an established connector.
func New(conn connector.Connector, opts ...Option) *Client {
	c := &Client{conn: conn}

	for _, opt := range opts {
		opt(c)
	}

	if c.downloadRoot == "" {
		if wd, err := os.Getwd(); err == nil {
			c.downloadRoot = wd
		} else {
			c.downloadRoot = "."
		}
	}

	return c
}

// probe runs a test(1) check and maps the exit status to a boolean. A
// failed test is not an error; errors are transport failures only.
func (c *Client) probe(ctx context.Context, flag, p string) (bool, error) {
	result, err := c.conn.Execute(ctx, fmt.Sprintf("test -%s %s", flag, shellQuote(p)))
	if err != nil {
		return false, err
	}
	return result.ExitCode == 0, nil
}

// Exists reports whether the path exists on the host.
func (c *Client) Exists(ctx context.Context, p string) (bool, error) {
	return c.probe(ctx, "e", p)
}

// IsFile reports whether the path exists and is a regular file.
func (c *Client) IsFile(ctx context.Context, p string) (bool, error) {
	return c.probe(ctx, "f", p)
}

// IsDir reports whether the path exists and is a directory.
func (c *Client) IsDir(ctx context.Context, p string) (bool, error) {
	return c.probe(ctx, "d", p)
}

// exec runs a mutating command and surfaces a non-zero exit as a
// CommandError tagged with the operation and path.
func (c *Client) exec(ctx context.Context, op, p, cmd string) error {
	result, err := c.conn.Execute(ctx, cmd)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	if result.ExitCode != 0 {
		return &PathError{Op: op, Host: c.host, Path: p, Err: &CommandError{
			Cmd:      cmd,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}}
	}
	return nil
}

// output runs a query command and returns its stdout, surfacing a
// non-zero exit as a CommandError.
func (c *Client) output(ctx context.Context, op, p, cmd string) (string, error) {
	result, err := c.conn.Execute(ctx, cmd)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, p, err)
	}
	if result.ExitCode != 0 {
		return "", &PathError{Op: op, Host: c.host, Path: p, Err: &CommandError{
			Cmd:      cmd,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
		}}
	}
	return result.Stdout, nil
}
