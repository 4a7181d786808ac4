package errors

import (
	"strings"

	"github.com/fatih/color"
)

// palette styles the parts of a formatted error. The zero value is plain.
type palette struct {
	label    func(a ...interface{}) string
	category func(a ...interface{}) string
	message  func(a ...interface{}) string
	usage    func(a ...interface{}) string
	fix      func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	usage:    color.New(color.FgCyan).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

func (p palette) apply(f func(a ...interface{}) string, s string) string {
	if f == nil {
		return s
	}
	return f(s)
}

// FormatError renders err for the terminal. Colors follow fatih/color's
// detection, so NO_COLOR and redirected output get plain text.
func FormatError(err *CLIError) string {
	if color.NoColor {
		return FormatErrorPlain(err)
	}
	return format(err, colored)
}

// FormatErrorPlain renders err without escape sequences.
func FormatErrorPlain(err *CLIError) string {
	return format(err, palette{})
}

func format(err *CLIError, p palette) string {
	if err == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(p.apply(p.label, "Error"))
	sb.WriteString(" [" + p.apply(p.category, err.Category.String()) + "]: ")
	sb.WriteString(p.apply(p.message, err.Message))
	sb.WriteString("\n")

	if err.Usage != "" {
		sb.WriteString("\n" + p.apply(p.usage, "Usage: "+err.Usage) + "\n")
	}

	if len(err.Remediation) > 0 {
		sb.WriteString("\n" + p.apply(p.fix, "To fix this:") + "\n")
		for _, step := range err.Remediation {
			sb.WriteString("  " + p.apply(p.bullet, "•") + " " + step + "\n")
		}
	}
	return sb.String()
}

// FormatSimpleError renders any error. The first CLIError in err's chain is
// used as is; anything else is wrapped in category.
func FormatSimpleError(err error, category ErrorCategory) string {
	if err == nil {
		return ""
	}
	if cliErr := AsCLIError(err); cliErr != nil {
		return FormatError(cliErr)
	}
	return FormatError(Wrap(err, category))
}
