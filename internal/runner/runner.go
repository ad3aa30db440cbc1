// Package runner executes plans against target hosts.
package runner

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/eugenetaranov/ferry/internal/connector"
	"github.com/eugenetaranov/ferry/internal/connector/docker"
	"github.com/eugenetaranov/ferry/internal/connector/local"
	"github.com/eugenetaranov/ferry/internal/connector/ssh"
	"github.com/eugenetaranov/ferry/internal/inventory"
	"github.com/eugenetaranov/ferry/internal/output"
	"github.com/eugenetaranov/ferry/internal/plan"
	"github.com/eugenetaranov/ferry/internal/remotefs"
)

// Runner runs plans.
type Runner struct {
	// Output handles formatted output.
	Output *output.Output

	// Inventory resolves host names for ssh connections.
	Inventory *inventory.Inventory

	// Connector, when set, is used instead of building one from the
	// plan's connection settings.
	Connector connector.Connector

	// DryRun only shows what would be done without making changes.
	DryRun bool
}

// New creates a new runner.
func New() *Runner {
	return &Runner{
		Output: output.New(os.Stdout),
	}
}

// RunResult holds the result of a plan run.
type RunResult struct {
	// Success is true if all ops completed successfully.
	Success bool

	// Stats holds execution statistics.
	Stats *Stats
}

// Stats holds execution statistics.
type Stats struct {
	Ops       int
	OK        int
	Failed    int
	Skipped   int
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns the total execution time.
func (s *Stats) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// GetOK returns the OK count (implements output.Stats).
func (s *Stats) GetOK() int { return s.OK }

// GetFailed returns the Failed count (implements output.Stats).
func (s *Stats) GetFailed() int { return s.Failed }

// GetSkipped returns the Skipped count (implements output.Stats).
func (s *Stats) GetSkipped() int { return s.Skipped }

// GetDuration returns the duration (implements output.Stats).
func (s *Stats) GetDuration() time.Duration { return s.Duration() }

// Run executes a plan.
func (r *Runner) Run(ctx context.Context, p *plan.Plan) (*RunResult, error) {
	stats := &Stats{
		StartTime: time.Now(),
		Ops:       len(p.Ops),
	}

	result := &RunResult{
		Success: true,
		Stats:   stats,
	}

	r.Output.RunStart(p.Path, r.target(p))

	conn, err := r.getConnector(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create connector: %w", err)
	}

	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	defer conn.Close()

	client := remotefs.New(conn, remotefs.WithHost(r.target(p)))

	for _, op := range p.Ops {
		status, msg := r.runOp(ctx, client, op)

		switch status {
		case "ok":
			stats.OK++
		case "skipped":
			stats.Skipped++
		case "failed":
			stats.Failed++
			if op.IgnoreErrors {
				status = "failed (ignored)"
			}
		}

		r.Output.OpResult(op.String(), status, msg)

		if status == "failed" {
			result.Success = false
			break
		}
	}

	stats.EndTime = time.Now()
	r.Output.RunEnd(stats)

	return result, nil
}

// runOp executes a single op and returns its status and message.
func (r *Runner) runOp(ctx context.Context, client *remotefs.Client, op *plan.Op) (string, string) {
	if r.DryRun {
		return "skipped", "dry run"
	}

	msg, err := dispatch(ctx, client, op)
	if err != nil {
		return "failed", err.Error()
	}
	return "ok", msg
}

// dispatch maps an op kind to the client method that implements it.
func dispatch(ctx context.Context, client *remotefs.Client, op *plan.Op) (string, error) {
	switch op.Op {
	case "touch":
		return "", client.EnsureFile(ctx, op.Path)
	case "mkdir":
		return "", client.EnsureDir(ctx, op.Path)
	case "stat":
		info, err := client.Stat(ctx, op.Path)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%d bytes, modified %s", info.SizeBytes, info.ModTime.UTC().Format(time.RFC3339)), nil
	case "rename":
		newPath, err := client.RenameFile(ctx, op.Path, op.NewName, op.Overwrite)
		if err != nil {
			return "", err
		}
		return newPath, nil
	case "rename-dir":
		newPath, err := client.RenameDir(ctx, op.Path, op.NewName)
		if err != nil {
			return "", err
		}
		return newPath, nil
	case "move":
		return "", client.MoveFile(ctx, op.Src, op.Dest, op.Overwrite)
	case "move-dir":
		return "", client.MoveDir(ctx, op.Src, op.Dest)
	case "copy":
		return "", client.CopyFile(ctx, op.Src, op.Dest, op.Overwrite)
	case "copy-dir":
		return "", client.CopyDir(ctx, op.Src, op.Dest)
	case "download":
		localPath, err := client.DownloadFile(ctx, op.Path, op.Dest, op.Overwrite)
		if err != nil {
			return "", err
		}
		return localPath, nil
	case "download-dir":
		localPath, err := client.DownloadDir(ctx, op.Path, op.Dest)
		if err != nil {
			return "", err
		}
		return localPath, nil
	case "upload":
		remotePath, err := client.UploadFile(ctx, op.Src, op.Dest)
		if err != nil {
			return "", err
		}
		return remotePath, nil
	case "delete":
		return "", client.DeleteFile(ctx, op.Path)
	case "delete-dir":
		return "", client.DeleteDir(ctx, op.Path)
	case "clear":
		return "", client.DeleteDirContents(ctx, op.Path)
	case "truncate":
		return "", client.TruncateFile(ctx, op.Path)
	case "archive":
		tarPath, err := client.ArchiveDir(ctx, op.Path)
		if err != nil {
			return "", err
		}
		return tarPath, nil
	default:
		return "", fmt.Errorf("unknown op '%s'", op.Op)
	}
}

// target returns the display name of the plan's target.
func (r *Runner) target(p *plan.Plan) string {
	if p.Connection == "local" {
		return "localhost"
	}
	return p.Host
}

// getConnector returns a connector for the plan.
func (r *Runner) getConnector(p *plan.Plan) (connector.Connector, error) {
	if r.Connector != nil {
		return r.Connector, nil
	}

	switch p.Connection {
	case "local":
		return local.New(), nil

	case "docker":
		// For docker, host is the container name/ID
		return docker.New(p.Host), nil

	case "ssh":
		if r.Inventory == nil {
			return nil, fmt.Errorf("ssh connection requires an inventory")
		}
		host, err := r.Inventory.Get(p.Host)
		if err != nil {
			return nil, err
		}
		return sshConnector(host), nil

	default:
		return nil, fmt.Errorf("unknown connection type: %s", p.Connection)
	}
}

// sshConnector builds an ssh connector from an inventory host.
func sshConnector(h *inventory.Host) connector.Connector {
	opts := []ssh.Option{
		ssh.WithPort(h.Port),
		ssh.WithUser(h.User),
	}
	if h.Password != "" {
		opts = append(opts, ssh.WithPassword(h.Password))
	}
	if h.Identity != "" {
		opts = append(opts, ssh.WithIdentityFile(h.Identity))
	}
	return ssh.New(h.Address, opts...)
}
