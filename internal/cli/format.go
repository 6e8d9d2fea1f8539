// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatBytes formats a byte count with binary-unit suffixes.
// e.g., 2400000 -> "2.29 MB"
func FormatBytes(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}

	units := []string{"Bytes", "KB", "MB", "GB", "TB"}
	size := float64(n)
	i := 0
	for size >= 1024 && i < len(units)-1 {
		size /= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d Bytes", n)
	}
	return fmt.Sprintf("%.2f %s", size, units[i])
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDate formats a timestamp for table display, or "-" when zero.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("Jan 02 2006 15:04")
}

// TruncateName shortens a file name to maxLen runes, preserving the
// extension. e.g., "a-very-long-recording.mp4" -> "a-very-lo....mp4"
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen || maxLen < 8 {
		return name
	}

	dot := strings.LastIndex(name, ".")
	if dot <= 0 {
		return string(runes[:maxLen-3]) + "..."
	}

	ext := name[dot:]
	keep := maxLen - 3 - len([]rune(ext))
	if keep < 1 {
		keep = 1
	}
	return string(runes[:keep]) + "..." + ext
}
