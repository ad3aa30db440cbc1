package integration

import (
	"bytes"
	"context"
	"testing"

	"github.com/docker/docker/pkg/stdcopy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
)

// execInContainer runs a command in the container and returns stdout
func execInContainer(ctx context.Context, container testcontainers.Container, cmd []string) (int, string, error) {
	exitCode, reader, err := container.Exec(ctx, cmd)
	if err != nil {
		return exitCode, "", err
	}

	// Demux the Docker stream (stdout/stderr are multiplexed)
	var stdout, stderr bytes.Buffer
	_, _ = stdcopy.StdCopy(&stdout, &stderr, reader)

	return exitCode, stdout.String(), nil
}

// writeRemoteFile creates a file with the given content in the container
func writeRemoteFile(t *testing.T, ctx context.Context, container testcontainers.Container, path, content string) {
	t.Helper()
	exitCode, _, err := execInContainer(ctx, container, []string{"/bin/sh", "-c", "printf '%s' \"$1\" > \"$2\"", "sh", content, path})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "failed to write %s", path)
}

// assertRemoteExists checks that a path exists in the container
func assertRemoteExists(t *testing.T, ctx context.Context, container testcontainers.Container, path string) {
	t.Helper()
	exitCode, _, err := execInContainer(ctx, container, []string{"test", "-e", path})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode, "path %s should exist", path)
}

// assertRemoteAbsent checks that a path does not exist in the container
func assertRemoteAbsent(t *testing.T, ctx context.Context, container testcontainers.Container, path string) {
	t.Helper()
	exitCode, _, err := execInContainer(ctx, container, []string{"test", "-e", path})
	require.NoError(t, err)
	assert.NotEqual(t, 0, exitCode, "path %s should not exist", path)
}

// assertRemoteIsFile checks that a path is a regular file
func assertRemoteIsFile(t *testing.T, ctx context.Context, container testcontainers.Container, path string) {
	t.Helper()
	exitCode, _, err := execInContainer(ctx, container, []string{"test", "-f", path})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode, "%s should be a regular file", path)
}

// assertRemoteIsDir checks that a path is a directory
func assertRemoteIsDir(t *testing.T, ctx context.Context, container testcontainers.Container, path string) {
	t.Helper()
	exitCode, _, err := execInContainer(ctx, container, []string{"test", "-d", path})
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode, "%s should be a directory", path)
}

// assertRemoteContent checks the exact content of a file in the container
func assertRemoteContent(t *testing.T, ctx context.Context, container testcontainers.Container, path, expected string) {
	t.Helper()
	exitCode, content, err := execInContainer(ctx, container, []string{"cat", path})
	require.NoError(t, err)
	require.Equal(t, 0, exitCode, "failed to read file %s", path)
	assert.Equal(t, expected, content, "file %s content mismatch", path)
}
