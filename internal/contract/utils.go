package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
)

// Trend label constants.
const (
	RisingValue  = "Rising"
	FallingValue = "Falling"
	FlatValue    = "Flat"
)

// Color variables for console output.
var (
	RisingColor  = color.New(color.FgRed, color.Bold) // remaining work growing
	FallingColor = color.New(color.FgGreen)           // burning down as planned
	FlatColor    = color.New(color.FgYellow)          // stalled trend
)

// flatLabelSlope is the slope magnitude below which a trend is labeled flat.
const flatLabelSlope = 1e-10

// GetPlainTrendLabel returns a plain text label for a segment slope. This is
// the core logic used for CSV, JSON, and table printing.
func GetPlainTrendLabel(slope float64) string {
	switch {
	case slope > flatLabelSlope:
		return RisingValue
	case slope < -flatLabelSlope:
		return FallingValue
	default:
		return FlatValue
	}
}

// GetColorTrendLabel returns a colored trend label for console output (table).
func GetColorTrendLabel(slope float64) string {
	text := GetPlainTrendLabel(slope)
	switch text {
	case RisingValue:
		return RisingColor.Sprint(text)
	case FallingValue:
		return FallingColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
	}
}

// TruncateName shortens a category name to maxLen runes for table display,
// keeping the tail which carries the distinctive part of prefixed labels.
func TruncateName(name string, maxLen int) string {
	runes := []rune(name)
	if len(runes) <= maxLen || maxLen < 4 {
		return name
	}
	return "..." + string(runes[len(runes)-maxLen+3:])
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout for an empty path.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// GetCacheDBFilePath returns the default path of the SQLite issue cache.
func GetCacheDBFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".expendo.cache.db"
	}
	return filepath.Join(home, ".expendo.cache.db")
}

// ParseBoolString parses yes/no style flag values.
func ParseBoolString(s string) (bool, error) {
	switch s {
	case "yes", "true", "1", "on", "":
		return true, nil
	case "no", "false", "0", "off":
		return false, nil
	default:
		return false, fmt.Errorf("must be one of yes/no/true/false/1/0 (received %q)", s)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "❌ %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "⚠️  %s: %v\n", msg, err)
		return
	}
	fmt.Fprintf(os.Stderr, "⚠️  %s\n", msg)
}
