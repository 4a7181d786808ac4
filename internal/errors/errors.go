// Package errors provides structured error handling for the vaultlog CLI.
// Errors carry a category, remediation steps, and the underlying cause so
// that callers can still match sentinel errors with errors.Is.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCategory decides how an error is labeled and which exit code it maps to.
type ErrorCategory int

const (
	// Argument errors come from bad flags or positional arguments.
	Argument ErrorCategory = iota
	// Configuration errors come from settings files or VAULTLOG_* values.
	Configuration
	// Prerequisite errors mean the vault or the changelog note is missing.
	Prerequisite
	// Runtime errors happen while scanning, writing, or watching.
	Runtime
)

var categoryNames = map[ErrorCategory]string{
	Argument:      "Argument Error",
	Configuration: "Configuration Error",
	Prerequisite:  "Prerequisite Error",
	Runtime:       "Runtime Error",
}

func (c ErrorCategory) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "Error"
}

// CLIError is an error shown to the user with a category and fix-up hints.
type CLIError struct {
	Category    ErrorCategory
	Message     string
	Remediation []string
	// Usage is the correct command syntax, shown for argument errors.
	Usage string
	Cause error
}

func (e *CLIError) Error() string {
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Cause
}

func newError(category ErrorCategory, message string, remediation []string) *CLIError {
	return &CLIError{Category: category, Message: message, Remediation: remediation}
}

// NewArgumentError reports a bad flag or argument.
func NewArgumentError(message string, remediation ...string) *CLIError {
	return newError(Argument, message, remediation)
}

// NewArgumentErrorWithUsage reports a bad flag or argument along with the
// syntax the command expects.
func NewArgumentErrorWithUsage(message, usage string, remediation ...string) *CLIError {
	err := newError(Argument, message, remediation)
	err.Usage = usage
	return err
}

// NewConfigError reports an unusable setting.
func NewConfigError(message string, remediation ...string) *CLIError {
	return newError(Configuration, message, remediation)
}

// NewPrerequisiteError reports something that must exist before the command can run.
func NewPrerequisiteError(message string, remediation ...string) *CLIError {
	return newError(Prerequisite, message, remediation)
}

// Wrap turns err into a CLIError with err's message. A nil err stays nil.
func Wrap(err error, category ErrorCategory, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	cliErr := newError(category, err.Error(), remediation)
	cliErr.Cause = err
	return cliErr
}

// WrapWithMessage is Wrap with "message: err" as the displayed text.
func WrapWithMessage(err error, category ErrorCategory, message string, remediation ...string) *CLIError {
	if err == nil {
		return nil
	}
	cliErr := newError(category, fmt.Sprintf("%s: %v", message, err), remediation)
	cliErr.Cause = err
	return cliErr
}

// IsCLIError reports whether err's chain holds a CLIError.
func IsCLIError(err error) bool {
	return AsCLIError(err) != nil
}

// AsCLIError returns the first CLIError in err's chain, or nil.
func AsCLIError(err error) *CLIError {
	var cliErr *CLIError
	if stderrors.As(err, &cliErr) {
		return cliErr
	}
	return nil
}
