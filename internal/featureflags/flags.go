package featureflags

import (
	"os"
	"strings"
)

// StrictValidation turns on the cross-field checks on projects, workers and
// work logs. Off by default.
const StrictValidation = "strict_validation"

// Known lists every flag the server reads
var Known = []string{StrictValidation}

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes/on (case-insensitive)
func Enabled(name string) bool {
	v := os.Getenv("FLAG_" + strings.ToUpper(name))
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

// Snapshot reports the state of every known flag, for startup logging
func Snapshot() map[string]bool {
	out := make(map[string]bool, len(Known))
	for _, n := range Known {
		out[n] = Enabled(n)
	}
	return out
}
