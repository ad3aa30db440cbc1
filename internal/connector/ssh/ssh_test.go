package ssh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewDefaults(t *testing.T) {
	c := New("example.com")

	if c.port != 22 {
		t.Errorf("expected default port 22, got %d", c.port)
	}
	if c.user != "root" {
		t.Errorf("expected default user 'root', got %q", c.user)
	}
	if c.timeout != DefaultTimeout {
		t.Errorf("expected default timeout %v, got %v", DefaultTimeout, c.timeout)
	}
}

func TestNewOptions(t *testing.T) {
	c := New("example.com",
		WithPort(2222),
		WithUser("deploy"),
		WithPassword("secret"),
		WithIdentityFile("/home/deploy/.ssh/id_rsa"),
		WithTimeout(5*time.Second),
	)

	if c.port != 2222 {
		t.Errorf("expected port 2222, got %d", c.port)
	}
	if c.user != "deploy" {
		t.Errorf("expected user 'deploy', got %q", c.user)
	}
	if c.password != "secret" {
		t.Errorf("expected password to be set")
	}
	if c.identityFile != "/home/deploy/.ssh/id_rsa" {
		t.Errorf("expected identity file to be set, got %q", c.identityFile)
	}
	if c.timeout != 5*time.Second {
		t.Errorf("expected timeout 5s, got %v", c.timeout)
	}
}

func TestAuthMethodsRequireCredentials(t *testing.T) {
	c := New("example.com")

	_, err := c.authMethods()
	if err == nil {
		t.Fatal("expected error when no credentials are configured")
	}
	if !strings.Contains(err.Error(), "no authentication method") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthMethodsPassword(t *testing.T) {
	c := New("example.com", WithPassword("secret"))

	methods, err := c.authMethods()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(methods) != 1 {
		t.Errorf("expected 1 auth method, got %d", len(methods))
	}
}

func TestAuthMethodsMissingIdentityFile(t *testing.T) {
	c := New("example.com", WithIdentityFile(filepath.Join(t.TempDir(), "no-such-key")))

	_, err := c.authMethods()
	if err == nil {
		t.Fatal("expected error for missing identity file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped os.ErrNotExist, got %v", err)
	}
}

func TestAuthMethodsInvalidKey(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_rsa")
	if err := os.WriteFile(keyPath, []byte("not a key"), 0o600); err != nil {
		t.Fatal(err)
	}

	c := New("example.com", WithIdentityFile(keyPath))

	_, err := c.authMethods()
	if err == nil {
		t.Fatal("expected error for invalid private key")
	}
	if !strings.Contains(err.Error(), "failed to parse private key") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"missing key", os.ErrNotExist, "private key file not found"},
		{"timeout", &timeoutError{}, "timed out"},
		{"generic", errors.New("auth failed"), "SSH connection failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := diagnose(tt.err, "/some/key")
			if !strings.Contains(got, tt.want) {
				t.Errorf("diagnose(%v) = %q, want substring %q", tt.err, got, tt.want)
			}
		})
	}
}

// timeoutError implements net.Error with Timeout() == true.
type timeoutError struct{}

func (e *timeoutError) Error() string   { return "i/o timeout" }
func (e *timeoutError) Timeout() bool   { return true }
func (e *timeoutError) Temporary() bool { return false }

func TestString(t *testing.T) {
	c := New("10.0.0.5", WithUser("deploy"), WithPort(2200))

	want := "ssh://deploy@10.0.0.5:2200"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestExecuteNotConnected(t *testing.T) {
	c := New("example.com", WithPassword("secret"))

	if _, err := c.Execute(t.Context(), "true"); err == nil {
		t.Error("expected error when not connected")
	}
}
