// Package connector defines the transport interface for running commands
// and transferring files on target hosts.
package connector

import (
	"context"
	"io"
)

// Result holds the output from command execution.
type Result struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Connector is the interface for connecting to a host, running shell
// commands on it, and moving file content in and out. A non-zero exit
// status is reported through Result.ExitCode, not as an error; errors
// are reserved for transport failures.
//
// A Connector owns a single session and is not safe for concurrent use;
// callers must serialize access themselves.
type Connector interface {
	// Connect establishes the connection to the host.
	Connect(ctx context.Context) error

	// Execute runs a shell command on the host and returns the result.
	Execute(ctx context.Context, cmd string) (*Result, error)

	// Upload writes content from src to the remote path dst.
	Upload(ctx context.Context, src io.Reader, dst string, mode uint32) error

	// Download reads the remote path src into dst.
	Download(ctx context.Context, src string, dst io.Writer) error

	// Close terminates the connection.
	Close() error

	// String returns a human-readable description of the connection.
	String() string
}
