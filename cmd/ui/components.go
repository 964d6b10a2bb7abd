package ui

import (
	"fmt"
	"strings"
)

// Outcome is what happened to one input archive.
type Outcome int

const (
	OutcomeProduced Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// String returns the word shown in summaries.
func (o Outcome) String() string {
	switch o {
	case OutcomeProduced:
		return "produced"
	case OutcomeSkipped:
		return "no classes"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FormatOutcome renders an icon and the outcome word in the outcome's color.
func FormatOutcome(o Outcome) string {
	switch o {
	case OutcomeProduced:
		return ProducedStyle.Render(IconCheck + " " + o.String())
	case OutcomeSkipped:
		return SkippedStyle.Render(IconSkipped + " " + o.String())
	case OutcomeFailed:
		return FailedStyle.Render(IconFailed + " " + o.String())
	default:
		return o.String()
	}
}

// FormatConversion renders "input → output" for a produced archive.
func FormatConversion(input, output string) string {
	return fmt.Sprintf("  %s %s %s %s %s",
		Cyan(IconArchive), input, Gray(IconArrow), Green(IconJar), Green(output))
}

// FormatBytes renders a byte count in binary units.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// SuccessMessage creates a success message with a checkmark icon
func SuccessMessage(message string, details ...string) string {
	var parts []string
	parts = append(parts, Green(IconCheck), Green(message))

	for _, detail := range details {
		parts = append(parts, Blue(detail))
	}

	return strings.Join(parts, " ")
}

// ErrorMessage formats an error message in red
func ErrorMessage(message string) string {
	return Red(message)
}

// WarningMessage formats a warning message in yellow
func WarningMessage(message string) string {
	return Yellow(message)
}

// InfoMessage formats an info message in blue
func InfoMessage(message string) string {
	return Blue(message)
}
