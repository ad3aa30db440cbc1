// Package conntest provides a scripted in-memory connector for tests.
package conntest

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/eugenetaranov/ferry/internal/connector"
)

// Response is a canned reply for a command.
type Response struct {
	Stdout   string
	Stderr   string
	ExitCode int
	Err      error
}

// Fake is a connector whose Execute replies come from a script. Commands
// are matched exactly against Responses; unmatched commands get the
// zero-value success result. Every executed command is recorded.
type Fake struct {
	// Responses maps exact command strings to canned replies.
	Responses map[string]Response

	// Handle, when set, takes precedence over Responses.
	Handle func(cmd string) (*connector.Result, error)

	// Files holds remote file content served by Download.
	Files map[string][]byte

	// Uploads records content written by Upload, keyed by destination.
	Uploads map[string][]byte

	// Commands is the log of executed command strings, in order.
	Commands []string

	// ConnectErr is returned by Connect when set.
	ConnectErr error
}

// New creates an empty Fake.
func New() *Fake {
	return &Fake{
		Responses: make(map[string]Response),
		Files:     make(map[string][]byte),
		Uploads:   make(map[string][]byte),
	}
}

// Respond registers a canned reply for a command.
func (f *Fake) Respond(cmd string, r Response) *Fake {
	f.Responses[cmd] = r
	return f
}

// RespondOK registers a successful reply with the given stdout.
func (f *Fake) RespondOK(cmd, stdout string) *Fake {
	return f.Respond(cmd, Response{Stdout: stdout})
}

// RespondFail registers a non-zero exit reply.
func (f *Fake) RespondFail(cmd string, exitCode int, stderr string) *Fake {
	return f.Respond(cmd, Response{ExitCode: exitCode, Stderr: stderr})
}

// Connect returns ConnectErr.
func (f *Fake) Connect(ctx context.Context) error {
	return f.ConnectErr
}

// Execute replays the scripted response for cmd.
func (f *Fake) Execute(ctx context.Context, cmd string) (*connector.Result, error) {
	f.Commands = append(f.Commands, cmd)

	if f.Handle != nil {
		return f.Handle(cmd)
	}

	r, ok := f.Responses[cmd]
	if !ok {
		return &connector.Result{}, nil
	}
	if r.Err != nil {
		return nil, r.Err
	}
	return &connector.Result{Stdout: r.Stdout, Stderr: r.Stderr, ExitCode: r.ExitCode}, nil
}

// Upload records the uploaded content.
func (f *Fake) Upload(ctx context.Context, src io.Reader, dst string, mode uint32) error {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return err
	}
	f.Uploads[dst] = buf.Bytes()
	return nil
}

// Download serves content from Files.
func (f *Fake) Download(ctx context.Context, src string, dst io.Writer) error {
	content, ok := f.Files[src]
	if !ok {
		return fmt.Errorf("no such remote file: %s", src)
	}
	_, err := dst.Write(content)
	return err
}

// Close is a no-op.
func (f *Fake) Close() error {
	return nil
}

// String returns a description of the fake.
func (f *Fake) String() string {
	return "fake://test"
}

// Executed reports whether a command was run.
func (f *Fake) Executed(cmd string) bool {
	for _, c := range f.Commands {
		if c == cmd {
			return true
		}
	}
	return false
}

// Ensure Fake implements the connector.Connector interface.
var _ connector.Connector = (*Fake)(nil)
