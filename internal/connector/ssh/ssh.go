// Package ssh provides a connector for executing commands on remote hosts
// over SSH, with file transfer via SFTP.
package ssh

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"

	"github.com/eugenetaranov/ferry/internal/connector"
)

// DefaultTimeout is the connection timeout used unless overridden.
const DefaultTimeout = 30 * time.Second

// Connector executes commands on a remote host over SSH.
type Connector struct {
	address      string
	port         int
	user         string
	password     string
	identityFile string
	timeout      time.Duration

	client     *ssh.Client
	sftpClient *sftp.Client
}

// Option configures the SSH connector.
type Option func(*Connector)

// WithPort sets the SSH port (default: 22).
func WithPort(port int) Option {
	return func(c *Connector) {
		c.port = port
	}
}

// WithUser sets the username for authentication (default: root).
func WithUser(user string) Option {
	return func(c *Connector) {
		c.user = user
	}
}

// WithPassword sets password authentication.
func WithPassword(password string) Option {
	return func(c *Connector) {
		c.password = password
	}
}

// WithIdentityFile sets public key authentication from a private key file.
func WithIdentityFile(path string) Option {
	return func(c *Connector) {
		c.identityFile = path
	}
}

// WithTimeout sets the connection timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Connector) {
		c.timeout = d
	}
}

// New creates a new SSH connector for the given address.
func New(address string, opts ...Option) *Connector {
	c := &Connector{
		address: address,
		port:    22,
		user:    "root",
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// authMethods assembles the SSH auth methods from the configured credentials.
func (c *Connector) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if c.identityFile != "" {
		key, err := os.ReadFile(c.identityFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read identity file %s: %w", c.identityFile, err)
		}
		signer, err := ssh.ParsePrivateKey(key)
		if err != nil {
			return nil, fmt.Errorf("failed to parse private key %s: %w", c.identityFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if c.password != "" {
		methods = append(methods, ssh.Password(c.password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no authentication method configured: need a password or an identity file")
	}

	return methods, nil
}

// Connect dials the host and opens the SSH and SFTP sessions.
func (c *Connector) Connect(ctx context.Context) error {
	if c.client != nil {
		return nil
	}

	methods, err := c.authMethods()
	if err != nil {
		return err
	}

	cfg := &ssh.ClientConfig{
		User:            c.user,
		Auth:            methods,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // host key verification is out of scope
		Timeout:         c.timeout,
	}

	addr := net.JoinHostPort(c.address, fmt.Sprintf("%d", c.port))

	dialer := net.Dialer{Timeout: c.timeout}
	netConn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to dial %s: %w", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(netConn, addr, cfg)
	if err != nil {
		_ = netConn.Close()
		return fmt.Errorf("ssh handshake with %s failed: %w", addr, err)
	}
	c.client = ssh.NewClient(sshConn, chans, reqs)

	sftpClient, err := sftp.NewClient(c.client)
	if err != nil {
		_ = c.client.Close()
		c.client = nil
		return fmt.Errorf("failed to open sftp session: %w", err)
	}
	c.sftpClient = sftpClient

	return nil
}

// Ping verifies the connection by running a trivial command. It reports
// success as a boolean with a diagnostic message instead of propagating
// the transport's own error types.
func (c *Connector) Ping(ctx context.Context) (bool, string) {
	if err := c.Connect(ctx); err != nil {
		return false, diagnose(err, c.identityFile)
	}

	if _, err := c.Execute(ctx, `echo "SSH connection successful"`); err != nil {
		return false, fmt.Sprintf("SSH connection failed: %v", err)
	}

	return true, "SSH connection successful"
}

// diagnose maps a connection error to a human-readable diagnostic.
func diagnose(err error, identityFile string) string {
	var netErr net.Error

	switch {
	case errors.Is(err, os.ErrNotExist):
		return fmt.Sprintf("SSH connection failed: private key file not found: %s", identityFile)
	case errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Sprintf("SSH connection timed out: %v", err)
	default:
		return fmt.Sprintf("SSH connection failed: %v", err)
	}
}

// Execute runs a command on the remote host.
func (c *Connector) Execute(ctx context.Context, cmd string) (*connector.Result, error) {
	if c.client == nil {
		return nil, fmt.Errorf("not connected")
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	session, err := c.client.NewSession()
	if err != nil {
		return nil, fmt.Errorf("failed to open session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	err = session.Run(cmd)

	result := &connector.Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}

	if err != nil {
		var exitErr *ssh.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitStatus()
		} else {
			return nil, fmt.Errorf("failed to run command: %w", err)
		}
	}

	return result, nil
}

// Upload writes content from src to the remote path dst via SFTP.
func (c *Connector) Upload(ctx context.Context, src io.Reader, dst string, mode uint32) error {
	if c.sftpClient == nil {
		return fmt.Errorf("not connected")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := c.sftpClient.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC)
	if err != nil {
		return fmt.Errorf("failed to create remote file %s: %w", dst, err)
	}

	if _, err := io.Copy(f, src); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write to %s: %w", dst, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close remote file %s: %w", dst, err)
	}

	if err := c.sftpClient.Chmod(dst, os.FileMode(mode)); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", dst, err)
	}

	return nil
}

// Download reads the remote path src into dst via SFTP.
func (c *Connector) Download(ctx context.Context, src string, dst io.Writer) error {
	if c.sftpClient == nil {
		return fmt.Errorf("not connected")
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	f, err := c.sftpClient.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open remote file %s: %w", src, err)
	}
	defer f.Close()

	if _, err := io.Copy(dst, f); err != nil {
		return fmt.Errorf("failed to read from %s: %w", src, err)
	}

	return nil
}

// Close terminates the SFTP and SSH sessions.
func (c *Connector) Close() error {
	var firstErr error

	if c.sftpClient != nil {
		if err := c.sftpClient.Close(); err != nil {
			firstErr = err
		}
		c.sftpClient = nil
	}

	if c.client != nil {
		if err := c.client.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		c.client = nil
	}

	return firstErr
}

// String returns a description of the connection.
func (c *Connector) String() string {
	return fmt.Sprintf("ssh://%s@%s:%d", c.user, c.address, c.port)
}

// Ensure Connector implements the connector.Connector interface.
var _ connector.Connector = (*Connector)(nil)
