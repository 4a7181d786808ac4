package notify

import (
	"os/exec"
	"runtime"
)

// Sender delivers notifications through the desktop's own tools.
// Implementations report availability so callers can skip silently.
type Sender interface {
	SendVisual(n Notification) error
	SendSound(soundFile string) error
	VisualAvailable() bool
	SoundAvailable() bool
}

// NewSender picks osascript/afplay on macOS and notify-send/paplay on
// freedesktop systems. Everything else gets a sender that does nothing.
func NewSender() Sender {
	switch Platform() {
	case "darwin":
		return newDarwinSender()
	case "linux", "freebsd", "openbsd", "netbsd":
		return newFreedesktopSender()
	}
	return silentSender{}
}

// Platform is the GOOS value used to pick a sender.
func Platform() string {
	return runtime.GOOS
}

// commandRunner runs a helper program; tests swap it out.
type commandRunner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func toolAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

type silentSender struct{}

func (silentSender) SendVisual(Notification) error { return nil }
func (silentSender) SendSound(string) error        { return nil }
func (silentSender) VisualAvailable() bool         { return false }
func (silentSender) SoundAvailable() bool          { return false }
