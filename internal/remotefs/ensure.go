package remotefs

import (
	"context"
	"fmt"
)

// EnsureDir creates the directory and any missing ancestors. It is a
// no-op when the directory already exists. A path occupied by a
// non-directory fails with whatever mkdir itself reports.
func (c *Client) EnsureDir(ctx context.Context, p string) error {
	return c.exec(ctx, "mkdir", p, fmt.Sprintf("mkdir -p %s", shellQuote(p)))
}

// EnsureFile creates an empty file at the path, creating missing
// ancestor directories first. An existing file is touched, not
// truncated.
func (c *Client) EnsureFile(ctx context.Context, p string) error {
	if dir := parentDir(p); dir != "" && dir != "." {
		if err := c.EnsureDir(ctx, dir); err != nil {
			return err
		}
	}
	return c.exec(ctx, "touch", p, fmt.Sprintf("touch %s", shellQuote(p)))
}
