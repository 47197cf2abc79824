package classify

import (
	"crypto/md5"
	"encoding/hex"
	"regexp"
	"strings"
)

var (
	numberRuns  = regexp.MustCompile(`\b\d+\b`)
	hexAddrs    = regexp.MustCompile(`0x[0-9a-fA-F]+`)
	pathMiddles = regexp.MustCompile(`[\\/][^\\/\s]+[\\/]`)
)

// Fingerprint reduces failure text to a stable 16-character signature.
// Volatile fragments collapse first: standalone numbers become N, hex
// addresses become ADDR, and interior path segments flatten, so two
// occurrences of the same failure with different ports, pointers, or paths
// share a fingerprint.
func Fingerprint(text string) string {
	normalized := numberRuns.ReplaceAllString(text, "N")
	normalized = hexAddrs.ReplaceAllString(normalized, "ADDR")
	normalized = pathMiddles.ReplaceAllString(normalized, "/")
	normalized = strings.TrimSpace(strings.ToLower(normalized))

	sum := md5.Sum([]byte(normalized))
	return hex.EncodeToString(sum[:])[:16]
}
