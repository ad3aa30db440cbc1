package remotefs

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// PathInfo is the result of a metadata query. It is produced fresh on
// each call and invalidated by any mutating operation on the path.
type PathInfo struct {
	Path      string
	SizeBytes uint64
	ModTime   time.Time
	IsDir     bool
}

// FileInfo returns size and mtime for a regular file. It fails with
// ErrNotFound when the path is absent or is a directory.
func (c *Client) FileInfo(ctx context.Context, p string) (*PathInfo, error) {
	const op = "stat file"

	isFile, err := c.IsFile(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isFile {
		return nil, c.notFound(op, p)
	}

	out, err := c.output(ctx, op, p, fmt.Sprintf(`stat -c "%%s %%Y" %s`, shellQuote(p)))
	if err != nil {
		return nil, err
	}

	size, mtime, err := parseStat(out)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, p, err)
	}

	return &PathInfo{Path: p, SizeBytes: size, ModTime: mtime}, nil
}

// DirInfo returns the recursive content size and mtime for a directory.
// It fails with ErrNotFound when the path is absent or is a file.
func (c *Client) DirInfo(ctx context.Context, p string) (*PathInfo, error) {
	const op = "stat dir"

	isDir, err := c.IsDir(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", op, p, err)
	}
	if !isDir {
		return nil, c.notFound(op, p)
	}

	duOut, err := c.output(ctx, op, p, fmt.Sprintf("du -sb %s", shellQuote(p)))
	if err != nil {
		return nil, err
	}
	// du output is tab-delimited: "<bytes>\t<path>"
	sizeField, _, _ := strings.Cut(strings.TrimSpace(duOut), "\t")
	size, err := strconv.ParseUint(strings.TrimSpace(sizeField), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %s: unexpected du output %q: %w", op, p, duOut, err)
	}

	statOut, err := c.output(ctx, op, p, fmt.Sprintf(`stat -c "%%Y" %s`, shellQuote(p)))
	if err != nil {
		return nil, err
	}
	ts, err := strconv.ParseInt(strings.TrimSpace(statOut), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s %s: unexpected stat output %q: %w", op, p, statOut, err)
	}

	return &PathInfo{Path: p, SizeBytes: size, ModTime: time.Unix(ts, 0), IsDir: true}, nil
}

// Stat dispatches to FileInfo or DirInfo depending on the path's type,
// tagging the result accordingly. It fails with ErrNotFound only when
// the path is entirely absent.
func (c *Client) Stat(ctx context.Context, p string) (*PathInfo, error) {
	exists, err := c.Exists(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if !exists {
		return nil, c.notFound("stat", p)
	}

	isDir, err := c.IsDir(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", p, err)
	}
	if isDir {
		return c.DirInfo(ctx, p)
	}
	return c.FileInfo(ctx, p)
}

// parseStat splits the whitespace-delimited "<size> <mtime>" output of
// stat -c "%s %Y".
func parseStat(out string) (uint64, time.Time, error) {
	fields := strings.Fields(strings.TrimSpace(out))
	if len(fields) != 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected stat output %q", out)
	}

	size, err := strconv.ParseUint(fields[0], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("bad size in stat output %q: %w", out, err)
	}

	ts, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("bad timestamp in stat output %q: %w", out, err)
	}

	return size, time.Unix(ts, 0), nil
}
