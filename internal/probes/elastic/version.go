package elastic

import (
	"strings"

	"golang.org/x/mod/semver"
)

// virtualMemorySince is the first release reporting total virtual memory
// instead of resident memory in process stats.
const virtualMemorySince = "v2.0.0"

// UsesVirtualMemory reports whether a node of the given version reports
// virtual memory. Only major.minor.patch is compared, so pre-releases of
// 2.0.0 count as 2.0.0. Unparseable versions are treated as current.
func UsesVirtualMemory(version string) bool {
	v := canonicalVersion(version)
	if v == "" {
		return true
	}
	return semver.Compare(v, virtualMemorySince) >= 0
}

// canonicalVersion keeps at most major.minor.patch, so 1.7.5.1 compares
// as 1.7.5.
func canonicalVersion(version string) string {
	v := "v" + strings.TrimPrefix(strings.TrimSpace(version), "v")
	if parts := strings.SplitN(v, ".", 4); len(parts) == 4 {
		v = strings.Join(parts[:3], ".")
	}
	if !semver.IsValid(v) {
		return ""
	}
	v = semver.Canonical(v)
	return strings.TrimSuffix(v, semver.Prerelease(v))
}
