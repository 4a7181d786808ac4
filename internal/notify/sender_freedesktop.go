package notify

import (
	"errors"
)

const defaultFreedesktopSound = "/usr/share/sounds/freedesktop/stereo/complete.oga"

var (
	errNotifySendMissing = errors.New("notify-send not found in PATH")
	errPaplayMissing     = errors.New("paplay not found in PATH")
)

// freedesktopSender uses notify-send and paplay (libnotify and PulseAudio).
type freedesktopSender struct {
	run      commandRunner
	lookPath func(string) bool
}

func newFreedesktopSender() *freedesktopSender {
	return &freedesktopSender{run: runCommand, lookPath: toolAvailable}
}

func (s *freedesktopSender) SendVisual(n Notification) error {
	if !s.VisualAvailable() {
		return errNotifySendMissing
	}
	urgency := "normal"
	if n.NotificationType == TypeFailure {
		urgency = "critical"
	}
	return s.run("notify-send", "--app-name="+Title, "--urgency="+urgency, n.Title, n.Message)
}

func (s *freedesktopSender) SendSound(soundFile string) error {
	if !s.SoundAvailable() {
		return errPaplayMissing
	}
	if soundFile == "" {
		soundFile = defaultFreedesktopSound
	}
	return s.run("paplay", soundFile)
}

func (s *freedesktopSender) VisualAvailable() bool { return s.lookPath("notify-send") }
func (s *freedesktopSender) SoundAvailable() bool  { return s.lookPath("paplay") }
