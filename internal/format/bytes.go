// Package format provides shared string and byte-quantity formatting utilities.
package format

import "fmt"

// byteUnits are the base-1024 unit suffixes, smallest first.
var byteUnits = []string{"B", "KB", "MB", "GB", "TB"}

// Bytes renders a byte quantity with one decimal place, stepping through
// base-1024 units up to TB. Zero renders as "0 B" with no decimal.
func Bytes(n float64) string {
	if n == 0 {
		return "0 B"
	}

	step := 1024.0
	i := 0
	for n >= step && i < len(byteUnits)-1 {
		n /= step
		i++
	}
	return fmt.Sprintf("%.1f %s", n, byteUnits[i])
}

// Rate renders a bytes-per-second rate. The conversion is identical to
// Bytes; only the suffix differs.
func Rate(bps float64) string {
	return Bytes(bps) + "/s"
}
