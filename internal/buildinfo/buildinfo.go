package buildinfo

import (
	"strconv"
	"strings"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Commit is set at build time via -ldflags.
var Commit = "unknown"

// Date is set at build time via -ldflags.
var Date = "unknown"

// devPacked is reported for builds without a release version.
const devPacked = 0x00010000

// Short returns a compact build identifier for UI/logging.
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	return "dev"
}

// Packed is the runtime version apps see: major, minor and patch in the top
// three bytes, the low byte reserved.
func Packed() uint32 {
	return Pack(Version)
}

// Pack parses "v1.2.3" (the v and any -suffix optional). Anything else packs
// as 0.1.0.
func Pack(v string) uint32 {
	v = strings.TrimPrefix(v, "v")
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		v = v[:i]
	}
	parts := strings.Split(v, ".")
	if len(parts) != 3 {
		return devPacked
	}
	var out uint32
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return devPacked
		}
		out = out<<8 | uint32(n)
	}
	return out << 8
}
