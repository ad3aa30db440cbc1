package remotefs

import (
	"context"
	"fmt"
)

// MoveFile moves a file to a destination path, possibly in another
// directory. See transferFile for the guard rules.
func (c *Client) MoveFile(ctx context.Context, src, dest string, overwrite bool) error {
	return c.transferFile(ctx, "move file", "mv", src, dest, overwrite)
}

// CopyFile copies a file to a destination path, possibly in another
// directory. See transferFile for the guard rules.
func (c *Client) CopyFile(ctx context.Context, src, dest string, overwrite bool) error {
	return c.transferFile(ctx, "copy file", "cp", src, dest, overwrite)
}

// transferFile implements the shared guard for mv and cp on files: the
// source must be a regular file; an occupied destination fails with
// ErrExists unless overwriting is allowed. The destination's ancestors
// and an empty placeholder file are created first so the command
// overwrites a file instead of being reinterpreted as "move into
// directory".
func (c *Client) transferFile(ctx context.Context, op, cmd, src, dest string, overwrite bool) error {
	srcIsFile, err := c.IsFile(ctx, src)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, src, err)
	}
	if !srcIsFile {
		return c.notFound(op, src)
	}

	destIsFile, err := c.IsFile(ctx, dest)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, src, err)
	}
	if destIsFile && !overwrite {
		return c.alreadyExists(op, dest)
	}

	if err := c.EnsureFile(ctx, dest); err != nil {
		return err
	}

	return c.exec(ctx, op, src, fmt.Sprintf("%s %s %s", cmd, shellQuote(src), shellQuote(dest)))
}

// MoveDir moves a directory under a destination directory. See
// transferDir for the guard rules.
func (c *Client) MoveDir(ctx context.Context, src, dest string) error {
	return c.transferDir(ctx, "move dir", "mv", src, dest)
}

// CopyDir copies a directory under a destination directory. See
// transferDir for the guard rules.
func (c *Client) CopyDir(ctx context.Context, src, dest string) error {
	return c.transferDir(ctx, "copy dir", "cp -r", src, dest)
}

// transferDir implements the shared guard for mv and cp -r on
// directories: the source must be a directory and an existing
// destination directory always fails with ErrExists. The destination is
// created first and passed to the command with a trailing separator so
// it is unambiguously a container, never a rename target.
func (c *Client) transferDir(ctx context.Context, op, cmd, src, dest string) error {
	src = normalizeDir(src)

	srcIsDir, err := c.IsDir(ctx, src)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, src, err)
	}
	if !srcIsDir {
		return c.notFound(op, src)
	}

	norm := normalizeDir(dest)

	destIsDir, err := c.IsDir(ctx, norm)
	if err != nil {
		return fmt.Errorf("%s %s: %w", op, src, err)
	}
	if destIsDir {
		return c.alreadyExists(op, dest)
	}

	if err := c.EnsureDir(ctx, norm); err != nil {
		return err
	}

	return c.exec(ctx, op, src, fmt.Sprintf("%s %s %s", cmd, shellQuote(src), shellQuote(norm+"/")))
}
