package errors

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// style renders the parts of an error message.
type style struct {
	label, category, message, fix, usageLabel, usage, bullet func(a ...any) string
}

var (
	// Color functions with auto-detection for terminal support.
	// color.NoColor turns them into plain text.
	colored = style{
		label:      color.New(color.FgRed, color.Bold).SprintFunc(),
		category:   color.New(color.FgYellow).SprintFunc(),
		message:    color.New(color.FgRed).SprintFunc(),
		fix:        color.New(color.FgGreen, color.Bold).SprintFunc(),
		usageLabel: color.New(color.FgCyan, color.Bold).SprintFunc(),
		usage:      color.New(color.FgCyan).SprintFunc(),
		bullet:     color.New(color.FgGreen).SprintFunc(),
	}
	plain = style{
		label:      fmt.Sprint,
		category:   fmt.Sprint,
		message:    fmt.Sprint,
		fix:        fmt.Sprint,
		usageLabel: fmt.Sprint,
		usage:      fmt.Sprint,
		bullet:     fmt.Sprint,
	}
)

// FormatError formats a CLIError for display in the terminal.
// It uses colors when available and falls back to plain text otherwise.
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without colors.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, s style) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", s.label("Error"), s.category(err.Category.String()), s.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", s.usageLabel("Usage: "), s.usage(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", s.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", s.bullet("•"), step)
		}
	}

	return sb.String()
}

// PrintError prints a formatted CLIError to stderr.
func PrintError(err *CLIError) {
	FprintError(os.Stderr, err)
}

// FprintError prints a formatted CLIError to the given writer.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}

// FormatSimpleError formats a regular error with a category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	return FormatError(&CLIError{Category: category, Message: err.Error()})
}
