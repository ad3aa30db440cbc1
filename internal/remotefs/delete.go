package remotefs

import (
	"context"
	"fmt"
)

// DeleteFile removes a file. It fails with ErrNotFound when the path is
// not a regular file. Irreversible.
func (c *Client) DeleteFile(ctx context.Context, p string) error {
	const op = "delete file"

	isFile, err := c.IsFile(ctx, p)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isFile {
		return c.notFound(op, p)
	}

	return c.exec(ctx, op, p, fmt.Sprintf("rm %s", shellQuote(p)))
}

// DeleteDir removes a directory and everything under it. It fails with
// ErrNotFound when the path is not a directory. Irreversible.
func (c *Client) DeleteDir(ctx context.Context, p string) error {
	const op = "delete dir"

	isDir, err := c.IsDir(ctx, p)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isDir {
		return c.notFound(op, p)
	}

	return c.exec(ctx, op, p, fmt.Sprintf("rm -rf %s", shellQuote(normalizeDir(p))))
}

// DeleteDirContents removes all direct and nested entries of a
// directory while keeping the directory itself. It fails with
// ErrNotFound when the path is not a directory. Irreversible.
func (c *Client) DeleteDirContents(ctx context.Context, p string) error {
	const op = "delete dir contents"

	isDir, err := c.IsDir(ctx, p)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isDir {
		return c.notFound(op, p)
	}

	// The glob must stay outside the quoted path to expand.
	return c.exec(ctx, op, p, fmt.Sprintf("rm -rf %s/*", shellQuote(normalizeDir(p))))
}

// TruncateFile truncates a file to zero bytes. It fails with
// ErrNotFound when the path is not a regular file.
func (c *Client) TruncateFile(ctx context.Context, p string) error {
	const op = "truncate file"

	isFile, err := c.IsFile(ctx, p)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isFile {
		return c.notFound(op, p)
	}

	return c.exec(ctx, op, p, fmt.Sprintf("truncate --size 0 %s", shellQuote(p)))
}
