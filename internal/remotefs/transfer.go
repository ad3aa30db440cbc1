package remotefs

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DownloadFile fetches a remote file to the local machine and returns
// the resolved local path. With dest empty the file lands in the
// download root under its remote base name; an existing local directory
// or a trailing separator appends the base name; anything else is an
// explicit target file. An occupied resolved destination fails with
// ErrExists unless overwriting is allowed.
func (c *Client) DownloadFile(ctx context.Context, remote, dest string, overwrite bool) (string, error) {
	const op = "download file"

	isFile, err := c.IsFile(ctx, remote)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}
	if !isFile {
		return "", c.notFound(op, remote)
	}

	return c.downloadResolved(ctx, op, remote, dest, overwrite)
}

// downloadResolved resolves the local destination and performs the raw
// transfer, without probing the remote side.
func (c *Client) downloadResolved(ctx context.Context, op, remote, dest string, overwrite bool) (string, error) {
	local, err := c.resolveLocalDest(remote, dest)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}

	if _, err := os.Stat(local); err == nil && !overwrite {
		return "", c.alreadyExists(op, local)
	}

	f, err := os.Create(local)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}

	if err := c.conn.Download(ctx, remote, f); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}

	return local, nil
}

// resolveLocalDest applies the destination rules for single-file
// downloads.
func (c *Client) resolveLocalDest(remote, dest string) (string, error) {
	if dest == "" {
		return filepath.Join(c.downloadRoot, baseName(remote)), nil
	}

	if st, err := os.Stat(dest); err == nil && st.IsDir() {
		return filepath.Join(dest, baseName(remote)), nil
	}

	// A trailing separator on a nonexistent path marks a directory-to-be.
	if strings.HasSuffix(dest, string(os.PathSeparator)) || strings.HasSuffix(dest, "/") {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			return "", err
		}
		return filepath.Join(dest, baseName(remote)), nil
	}

	return dest, nil
}

// DownloadDir mirrors a remote directory tree under a local
// destination and returns the local root. The tree is walked remotely
// in two passes, directories then files, and transferred sequentially.
// A failure partway through leaves a partially populated local tree;
// there is no cleanup or resume.
func (c *Client) DownloadDir(ctx context.Context, remote, dest string) (string, error) {
	const op = "download dir"

	norm := normalizeDir(remote)

	isDir, err := c.IsDir(ctx, norm)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, remote, err)
	}
	if !isDir {
		return "", c.notFound(op, remote)
	}

	if dest == "" {
		dest = filepath.Join(c.downloadRoot, baseName(norm))
	}

	dirsOut, err := c.output(ctx, op, remote, fmt.Sprintf("find %s -type d", shellQuote(norm)))
	if err != nil {
		return "", err
	}
	for _, remoteDir := range splitLines(dirsOut) {
		local := filepath.Join(dest, filepath.FromSlash(relativeTo(norm, remoteDir)))
		if err := os.MkdirAll(local, 0o755); err != nil {
			return "", fmt.Errorf("%s %s: %w", op, remote, err)
		}
	}

	filesOut, err := c.output(ctx, op, remote, fmt.Sprintf("find %s -type f", shellQuote(norm)))
	if err != nil {
		return "", err
	}
	for _, remoteFile := range splitLines(filesOut) {
		local := filepath.Join(dest, filepath.FromSlash(relativeTo(norm, remoteFile)))

		f, err := os.Create(local)
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", op, remote, err)
		}
		if err := c.conn.Download(ctx, remoteFile, f); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("%s %s: %w", op, remoteFile, err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("%s %s: %w", op, remoteFile, err)
		}
	}

	return dest, nil
}

// UploadFile sends a local file to the remote destination and returns
// the resolved remote path. A destination ending in a separator gets
// the local base name appended; ancestors of the destination are not
// created.
func (c *Client) UploadFile(ctx context.Context, local, remoteDest string) (string, error) {
	const op = "upload file"

	st, err := os.Stat(local)
	if err != nil || st.IsDir() {
		return "", &PathError{Op: op, Path: local, Err: ErrNotFound}
	}

	if endsWithSeparator(remoteDest) {
		remoteDest = path.Join(normalizeDir(remoteDest), filepath.Base(local))
	}

	f, err := os.Open(local)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, local, err)
	}
	defer f.Close()

	if err := c.conn.Upload(ctx, f, remoteDest, uint32(st.Mode().Perm())); err != nil {
		return "", fmt.Errorf("%s %s: %w", op, local, err)
	}

	return remoteDest, nil
}

// UploadDir is a known gap, kept explicit rather than quietly partial.
func (c *Client) UploadDir(ctx context.Context, local, remoteDest string) error {
	return &PathError{Op: "upload dir", Host: c.host, Path: local, Err: ErrNotImplemented}
}

// relativeTo computes the path of p relative to root; both must be
// normalized remote paths with root a prefix of p.
func relativeTo(root, p string) string {
	if p == root {
		return "."
	}
	return strings.TrimPrefix(p, root+"/")
}

// splitLines splits newline-delimited command output, dropping blanks.
func splitLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
