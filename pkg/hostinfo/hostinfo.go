// Package hostinfo gathers system information from target hosts.
package hostinfo

import (
	"context"
	"strconv"
	"strings"

	"github.com/eugenetaranov/ferry/internal/connector"
)

// Gather collects host information from the target. Individual probes
// that fail are left out of the result rather than failing the gather.
func Gather(ctx context.Context, conn connector.Connector) (map[string]any, error) {
	info := make(map[string]any)

	osInfo, err := gatherOSInfo(ctx, conn)
	if err == nil {
		for k, v := range osInfo {
			info[k] = v
		}
	}

	if hostname, err := line(ctx, conn, "hostname"); err == nil {
		info["hostname"] = hostname
	}

	if user, err := line(ctx, conn, "whoami"); err == nil {
		info["user"] = user
	}

	if home, err := line(ctx, conn, "echo $HOME"); err == nil {
		info["home"] = home
	}

	if disks, err := gatherDisks(ctx, conn); err == nil && len(disks) > 0 {
		info["disks"] = disks
	}

	return info, nil
}

// gatherOSInfo gathers operating system information.
func gatherOSInfo(ctx context.Context, conn connector.Connector) (map[string]any, error) {
	info := make(map[string]any)

	osType, err := line(ctx, conn, "uname -s")
	if err != nil {
		return info, err
	}
	info["os_type"] = osType

	if arch, err := line(ctx, conn, "uname -m"); err == nil {
		info["arch"] = arch
	}

	if kernel, err := line(ctx, conn, "uname -r"); err == nil {
		info["kernel"] = kernel
	}

	if osType == "Linux" {
		if result, err := conn.Execute(ctx, "cat /etc/os-release 2>/dev/null"); err == nil && result.ExitCode == 0 {
			for k, v := range parseOSRelease(result.Stdout) {
				info[k] = v
			}
		}
	}

	return info, nil
}

// Disk describes one mounted filesystem.
type Disk struct {
	Filesystem string
	Mount      string
	SizeKB     uint64
	UsedKB     uint64
}

// gatherDisks parses df output into per-mount entries.
func gatherDisks(ctx context.Context, conn connector.Connector) ([]Disk, error) {
	result, err := conn.Execute(ctx, "df -Pk")
	if err != nil {
		return nil, err
	}

	var disks []Disk
	lines := strings.Split(strings.TrimSpace(result.Stdout), "\n")
	for i, l := range lines {
		if i == 0 {
			// Header row
			continue
		}
		fields := strings.Fields(l)
		if len(fields) < 6 {
			continue
		}
		disks = append(disks, Disk{
			Filesystem: fields[0],
			Mount:      fields[5],
			SizeKB:     parseKB(fields[1]),
			UsedKB:     parseKB(fields[2]),
		})
	}
	return disks, nil
}

// parseOSRelease extracts distro name and version from /etc/os-release.
func parseOSRelease(out string) map[string]string {
	info := make(map[string]string)
	for _, l := range strings.Split(out, "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(l), "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"`)
		switch key {
		case "ID":
			info["os_name"] = value
		case "VERSION_ID":
			info["os_version"] = value
		case "ID_LIKE":
			info["os_family"] = value
		}
	}
	return info
}

func parseKB(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// line runs a command and returns its trimmed single-line output.
func line(ctx context.Context, conn connector.Connector, cmd string) (string, error) {
	result, err := conn.Execute(ctx, cmd)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(result.Stdout), nil
}
