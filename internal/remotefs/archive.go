package remotefs

import (
	"context"
	"fmt"
	"path"
)

// ArchiveDir packs a remote directory into a tar archive named
// <basename>.tar placed next to the directory, one level above, and
// returns the archive path. The source directory is left unmodified.
func (c *Client) ArchiveDir(ctx context.Context, p string) (string, error) {
	const op = "archive dir"

	norm := normalizeDir(p)

	isDir, err := c.IsDir(ctx, norm)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isDir {
		return "", c.notFound(op, p)
	}

	tarPath := path.Join(parentDir(norm), baseName(norm)+".tar")

	cmd := fmt.Sprintf("tar -a -cf %s -C %s .", shellQuote(tarPath), shellQuote(norm))
	if err := c.exec(ctx, op, p, cmd); err != nil {
		return "", err
	}

	return tarPath, nil
}

// ArchiveAndDownload archives a remote directory and downloads the
// resulting tar file. The archive is not re-probed between the two
// steps and is left on the remote host afterwards.
func (c *Client) ArchiveAndDownload(ctx context.Context, p, dest string) (string, error) {
	tarPath, err := c.ArchiveDir(ctx, p)
	if err != nil {
		return "", err
	}

	return c.downloadResolved(ctx, "download archive", tarPath, dest, true)
}
