// Package main is the entrypoint for the ferry CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/eugenetaranov/ferry/internal/connector/ssh"
	"github.com/eugenetaranov/ferry/internal/inventory"
	"github.com/eugenetaranov/ferry/internal/plan"
	"github.com/eugenetaranov/ferry/internal/remotefs"
	"github.com/eugenetaranov/ferry/internal/runner"
	"github.com/eugenetaranov/ferry/pkg/hostinfo"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	inventoryPath string
	hostName      string
	debug         bool
	dryRun        bool
	noColor       bool
)

// Per-command flags
var (
	overwrite bool
	asDir     bool
	destPath  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ferry",
	Short: "Ferry - Remote file management over SSH",
	Long: `Ferry manages files and directories on remote hosts over SSH.
It probes before it acts: moves, copies, renames, downloads and archives
are guarded by existence checks so a typo fails fast instead of
clobbering data.

Hosts are defined in a YAML inventory; multi-step jobs go in plan files.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&inventoryPath, "inventory", "i", "inventory.yaml", "Inventory file")
	rootCmd.PersistentFlags().StringVarP(&hostName, "host", "H", "", "Target host name from the inventory")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().BoolVarP(&dryRun, "dry-run", "n", false, "Show what would be done without making changes")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	for _, c := range []*cobra.Command{mvCmd, cpCmd} {
		c.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing destination file")
		c.Flags().BoolVar(&asDir, "dir", false, "Treat paths as directories")
	}
	renameCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing destination file")
	renameCmd.Flags().BoolVar(&asDir, "dir", false, "Treat the path as a directory")
	rmCmd.Flags().BoolVar(&asDir, "dir", false, "Delete a directory recursively")
	getCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing local file")
	getCmd.Flags().BoolVar(&asDir, "dir", false, "Download a directory tree")
	getCmd.Flags().StringVar(&destPath, "dest", "", "Local destination path")
	archiveCmd.Flags().StringVar(&destPath, "dest", "", "Also download the archive to this local path")

	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(statCmd)
	rootCmd.AddCommand(touchCmd)
	rootCmd.AddCommand(mkdirCmd)
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(cpCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(putCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(truncateCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(archiveCmd)
	rootCmd.AddCommand(factsCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(opsCmd)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nInterrupted, cleaning up...")
		cancel()
	}()

	return ctx, cancel
}

// resolveHost loads the inventory and looks up the --host flag.
func resolveHost() (*inventory.Host, error) {
	if hostName == "" {
		return nil, fmt.Errorf("--host is required")
	}

	inv, err := inventory.ParseFile(inventoryPath)
	if err != nil {
		return nil, err
	}

	return inv.Get(hostName)
}

// connect builds and connects an SSH connector for an inventory host.
func connect(ctx context.Context, host *inventory.Host) (*ssh.Connector, error) {
	opts := []ssh.Option{
		ssh.WithPort(host.Port),
		ssh.WithUser(host.User),
	}
	if host.Password != "" {
		opts = append(opts, ssh.WithPassword(host.Password))
	}
	if host.Identity != "" {
		opts = append(opts, ssh.WithIdentityFile(host.Identity))
	}

	conn := ssh.New(host.Address, opts...)
	if err := conn.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", host.Name, err)
	}
	return conn, nil
}

// withClient connects to the --host target and runs fn with a guarded
// filesystem client over that connection.
func withClient(fn func(ctx context.Context, client *remotefs.Client) error) error {
	host, err := resolveHost()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	conn, err := connect(ctx, host)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := remotefs.New(conn, remotefs.WithHost(host.Name))
	return fn(ctx, client)
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to a host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := resolveHost()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		opts := []ssh.Option{ssh.WithPort(host.Port), ssh.WithUser(host.User)}
		if host.Password != "" {
			opts = append(opts, ssh.WithPassword(host.Password))
		}
		if host.Identity != "" {
			opts = append(opts, ssh.WithIdentityFile(host.Identity))
		}
		conn := ssh.New(host.Address, opts...)

		ok, diag := conn.Ping(ctx)
		if !ok {
			return fmt.Errorf("%s unreachable: %s", host.Name, diag)
		}
		defer conn.Close()

		fmt.Printf("%s is reachable (%s)\n", host.Name, conn)
		return nil
	},
}

var statCmd = &cobra.Command{
	Use:   "stat <path>",
	Short: "Show size and modification time of a remote path",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			info, err := client.Stat(ctx, args[0])
			if err != nil {
				return err
			}

			kind := "file"
			if info.IsDir {
				kind = "dir"
			}
			fmt.Printf("%s\t%s\t%d bytes\tmodified %s\n",
				info.Path, kind, info.SizeBytes, info.ModTime.UTC().Format(time.RFC3339))
			return nil
		})
	},
}

var touchCmd = &cobra.Command{
	Use:   "touch <path>",
	Short: "Ensure a remote file exists, creating parents as needed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			return client.EnsureFile(ctx, args[0])
		})
	},
}

var mkdirCmd = &cobra.Command{
	Use:   "mkdir <path>",
	Short: "Ensure a remote directory exists",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			return client.EnsureDir(ctx, args[0])
		})
	},
}

var renameCmd = &cobra.Command{
	Use:   "rename <path> <new-name>",
	Short: "Rename a remote file or directory in place",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			var newPath string
			var err error
			if asDir {
				newPath, err = client.RenameDir(ctx, args[0], args[1])
			} else {
				newPath, err = client.RenameFile(ctx, args[0], args[1], overwrite)
			}
			if err != nil {
				return err
			}
			fmt.Println(newPath)
			return nil
		})
	},
}

var mvCmd = &cobra.Command{
	Use:   "mv <src> <dest>",
	Short: "Move a remote file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			if asDir {
				return client.MoveDir(ctx, args[0], args[1])
			}
			return client.MoveFile(ctx, args[0], args[1], overwrite)
		})
	},
}

var cpCmd = &cobra.Command{
	Use:   "cp <src> <dest>",
	Short: "Copy a remote file or directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			if asDir {
				return client.CopyDir(ctx, args[0], args[1])
			}
			return client.CopyFile(ctx, args[0], args[1], overwrite)
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get <remote-path>",
	Short: "Download a remote file or directory tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			var localPath string
			var err error
			if asDir {
				localPath, err = client.DownloadDir(ctx, args[0], destPath)
			} else {
				localPath, err = client.DownloadFile(ctx, args[0], destPath, overwrite)
			}
			if err != nil {
				return err
			}
			fmt.Println(localPath)
			return nil
		})
	},
}

var putCmd = &cobra.Command{
	Use:   "put <local-path> <remote-dest>",
	Short: "Upload a local file",
	Long: `Upload a local file to the remote host.

A destination ending in / is treated as a directory and the local file
name is appended.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			remotePath, err := client.UploadFile(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(remotePath)
			return nil
		})
	},
}

var rmCmd = &cobra.Command{
	Use:   "rm <path>",
	Short: "Delete a remote file, or a directory with --dir",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			if asDir {
				return client.DeleteDir(ctx, args[0])
			}
			return client.DeleteFile(ctx, args[0])
		})
	},
}

var truncateCmd = &cobra.Command{
	Use:   "truncate <path>",
	Short: "Truncate a remote file to zero bytes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			return client.TruncateFile(ctx, args[0])
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <dir>",
	Short: "Delete the contents of a remote directory, keeping the directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			return client.DeleteDirContents(ctx, args[0])
		})
	},
}

var archiveCmd = &cobra.Command{
	Use:   "archive <dir>",
	Short: "Pack a remote directory into a sibling tar archive",
	Long: `Pack the contents of a remote directory into <dir>.tar next to it.

With --dest the archive is also downloaded to the given local path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withClient(func(ctx context.Context, client *remotefs.Client) error {
			if destPath != "" {
				localPath, err := client.ArchiveAndDownload(ctx, args[0], destPath)
				if err != nil {
					return err
				}
				fmt.Println(localPath)
				return nil
			}

			tarPath, err := client.ArchiveDir(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(tarPath)
			return nil
		})
	},
}

var factsCmd = &cobra.Command{
	Use:   "facts",
	Short: "Show system information for a host",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		host, err := resolveHost()
		if err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		conn, err := connect(ctx, host)
		if err != nil {
			return err
		}
		defer conn.Close()

		info, err := hostinfo.Gather(ctx, conn)
		if err != nil {
			return err
		}

		keys := make([]string, 0, len(info))
		for k := range info {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		for _, k := range keys {
			if k == "disks" {
				continue
			}
			fmt.Printf("%-12s %v\n", k, info[k])
		}
		if disks, ok := info["disks"].([]hostinfo.Disk); ok {
			for _, d := range disks {
				fmt.Printf("%-12s %s on %s: %d/%d KB used\n", "disk", d.Filesystem, d.Mount, d.UsedKB, d.SizeKB)
			}
		}
		return nil
	},
}

var runCmd = &cobra.Command{
	Use:   "run <plan.yaml>",
	Short: "Run a plan",
	Long: `Execute a plan file against its target host.

Examples:
  ferry run rotate-logs.yaml
  ferry run rotate-logs.yaml --debug
  ferry run rotate-logs.yaml --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runPlan,
}

func runPlan(cmd *cobra.Command, args []string) error {
	p, err := plan.ParseFile(args[0])
	if err != nil {
		return err
	}

	r := runner.New()
	r.DryRun = dryRun
	r.Output.SetColor(!noColor)
	r.Output.SetDebug(debug)

	if p.Connection == "ssh" {
		inv, err := inventory.ParseFile(inventoryPath)
		if err != nil {
			return err
		}
		r.Inventory = inv
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := r.Run(ctx, p)
	if err != nil {
		return err
	}

	if !result.Success {
		os.Exit(1)
	}

	return nil
}

// opsCmd lists the operation kinds usable in plan files
var opsCmd = &cobra.Command{
	Use:   "ops",
	Short: "List operations available in plan files",
	Run: func(cmd *cobra.Command, args []string) {
		kinds := plan.Kinds()
		sort.Strings(kinds)

		fmt.Println("Available ops:")
		fmt.Println()
		for _, name := range kinds {
			fmt.Printf("  - %s\n", name)
		}
		fmt.Println()
		fmt.Printf("Total: %d ops\n", len(kinds))
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <plan.yaml> [plan2.yaml ...]",
	Short: "Validate one or more plans without running them",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var hasErrors bool

		for _, path := range args {
			if _, err := plan.ParseFile(path); err != nil {
				fmt.Printf("FAIL: %s - %v\n", path, err)
				hasErrors = true
			} else {
				fmt.Printf("OK: %s\n", path)
			}
		}

		if hasErrors {
			return fmt.Errorf("one or more plans failed validation")
		}

		fmt.Printf("\nAll %d plan(s) valid.\n", len(args))
		return nil
	},
}
