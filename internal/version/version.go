package version

import (
	"runtime/debug"
	"strings"
)

// Stamp is set at link time (-ldflags "-X .../version.Stamp=v1.2.3") and
// wins over module build info.
var Stamp string

const devel = "(devel)"

// String reports the fx release, or "(devel)" for local and dirty builds.
func String() string {
	if s := strings.TrimSpace(Stamp); s != "" {
		return s
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return devel
	}
	return fromModule(info.Main.Version)
}

func fromModule(version string) string {
	switch {
	case version == "" || version == devel:
		return devel
	case strings.Contains(version, "+dirty"), isPseudoVersion(version):
		return devel
	default:
		return version
	}
}

// isPseudoVersion matches vX.Y.Z-yyyymmddhhmmss-abcdefabcdef and friends.
func isPseudoVersion(version string) bool {
	version, _, _ = strings.Cut(version, "+")

	parts := strings.Split(version, "-")
	if len(parts) < 3 {
		return false
	}
	ts, hash := parts[len(parts)-2], parts[len(parts)-1]
	if i := strings.LastIndexByte(ts, '.'); i >= 0 {
		// v1.2.4-0.20191109021931-daa7c04131f5
		ts = ts[i+1:]
	}
	return len(ts) == 14 && strings.Trim(ts, "0123456789") == "" &&
		len(hash) >= 12 && strings.Trim(hash, "0123456789abcdefABCDEF") == ""
}
