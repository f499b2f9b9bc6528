package config

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/host"
)

// DefaultHostnameFile holds the short host name used to pick the host layer.
const DefaultHostnameFile = "/etc/hostname.short"

// ShortHostname returns the first line of file. When the file is missing or
// empty it falls back to the system host name, cut at the first dot.
// An empty result means no host layer is applied.
func ShortHostname(ctx context.Context, file string) string {
	if name := readFirstLine(file); name != "" {
		return name
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		slog.Debug("host name unavailable", "error", err)
		return ""
	}
	name, _, _ := strings.Cut(info.Hostname, ".")
	return name
}

func readFirstLine(file string) string {
	f, err := os.Open(file)
	if err != nil {
		return ""
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimSpace(scanner.Text())
	}
	return ""
}

// DefaultDir returns the etc directory next to the executable's bin directory.
func DefaultDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "etc"
	}
	return filepath.Join(filepath.Dir(exe), "..", "etc")
}
