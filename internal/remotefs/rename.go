package remotefs

import (
	"context"
	"fmt"
)

// RenameFile renames a file to a new leaf name within its own
// directory and returns the resulting path. With overwrite disabled an
// occupied destination fails with ErrExists; with it enabled the
// destination is replaced by mv's own semantics, without a second
// probe after the check.
func (c *Client) RenameFile(ctx context.Context, p, newName string, overwrite bool) (string, error) {
	const op = "rename file"

	exists, err := c.Exists(ctx, p)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !exists {
		return "", c.notFound(op, p)
	}

	newPath := siblingPath(p, newName)

	if !overwrite {
		destExists, err := c.Exists(ctx, newPath)
		if err != nil {
			return "", fmt.Errorf("%s %s: %w", op, p, err)
		}
		if destExists {
			return "", c.alreadyExists(op, newPath)
		}
	}

	if err := c.exec(ctx, op, p, fmt.Sprintf("mv %s %s", shellQuote(p), shellQuote(newPath))); err != nil {
		return "", err
	}
	return newPath, nil
}

// RenameDir renames a directory to a new leaf name within its parent
// and returns the resulting path. Unlike files, directories are never
// renamed over an existing same-named sibling directory.
func (c *Client) RenameDir(ctx context.Context, p, newName string) (string, error) {
	const op = "rename dir"

	norm := normalizeDir(p)

	exists, err := c.Exists(ctx, norm)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !exists {
		return "", c.notFound(op, p)
	}

	newPath := siblingPath(norm, newName)

	destIsDir, err := c.IsDir(ctx, newPath)
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", op, p, err)
	}
	if destIsDir {
		return "", c.alreadyExists(op, newPath)
	}

	if err := c.exec(ctx, op, p, fmt.Sprintf("mv %s %s", shellQuote(norm), shellQuote(newPath))); err != nil {
		return "", err
	}
	return newPath, nil
}
