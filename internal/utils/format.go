package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatSeconds renders a duration given in seconds with at most two units,
// e.g. "45s", "3m 20s" or "1h 5m". Fractions below ten seconds are kept.
func FormatSeconds(seconds float64) string {
	if seconds < 10 {
		return strconv.FormatFloat(seconds, 'f', -1, 64) + "s"
	}

	total := int(math.Round(seconds))
	hours, minutes, secs := total/3600, (total%3600)/60, total%60
	switch {
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0 && secs > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%dm", minutes)
	}
	return fmt.Sprintf("%ds", secs)
}

// FormatArea renders a pixel area with thousands separators, e.g. "160,000 px²".
func FormatArea(area float64) string {
	digits := strconv.FormatInt(int64(math.Round(area)), 10)

	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 && digits[i-1] != '-' {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String() + " px²"
}

// Mask hides a secret for display, keeping only its last two characters.
func Mask(s string) string {
	if len(s) <= 4 {
		return "****"
	}
	return strings.Repeat("*", len(s)-2) + s[len(s)-2:]
}
