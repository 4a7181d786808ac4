package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
)

// Spinner reports a single long-running step. On non-TTY output it only
// prints the final status line.
type Spinner struct {
	out     io.Writer
	caps    TerminalCapabilities
	symbols ProgressSymbols
	spin    *spinner.Spinner
	message string
}

// NewSpinner creates a spinner writing to out. Capabilities are detected when
// out is an *os.File; any other writer is treated as non-interactive.
func NewSpinner(out io.Writer) *Spinner {
	var caps TerminalCapabilities
	if f, ok := out.(*os.File); ok {
		caps = DetectTerminalCapabilities(f.Fd())
	}
	return NewSpinnerWithCapabilities(out, caps)
}

// NewSpinnerWithCapabilities creates a spinner with explicit capabilities.
func NewSpinnerWithCapabilities(out io.Writer, caps TerminalCapabilities) *Spinner {
	return &Spinner{
		out:     out,
		caps:    caps,
		symbols: SelectSymbols(caps),
	}
}

// Start begins animating with message. It is a no-op without a TTY.
func (s *Spinner) Start(message string) {
	s.message = message
	if !s.caps.IsTTY {
		return
	}

	s.spin = spinner.New(
		spinner.CharSets[s.symbols.SpinnerSet],
		100*time.Millisecond,
		spinner.WithWriter(s.out),
		spinner.WithHiddenCursor(true),
	)
	s.spin.Suffix = " " + message
	if s.caps.SupportsColor {
		_ = s.spin.Color("cyan")
	}
	s.spin.Start()
}

// Success stops the spinner and prints a success line.
func (s *Spinner) Success(message string) {
	s.finish(s.symbols.Checkmark, message)
}

// Fail stops the spinner and prints a failure line.
func (s *Spinner) Fail(message string) {
	s.finish(s.symbols.Failure, message)
}

// Stop halts the animation without printing anything.
func (s *Spinner) Stop() {
	if s.spin != nil {
		s.spin.Stop()
		s.spin = nil
	}
}

func (s *Spinner) finish(symbol, message string) {
	s.Stop()
	if message == "" {
		message = s.message
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, message)
}
