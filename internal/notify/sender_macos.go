package notify

import (
	"errors"
	"fmt"
	"strings"
)

const defaultDarwinSound = "/System/Library/Sounds/Glass.aiff"

var (
	errOsascriptMissing = errors.New("osascript not found in PATH")
	errAfplayMissing    = errors.New("afplay not found in PATH")
)

// darwinSender uses osascript for banners and afplay for sounds.
type darwinSender struct {
	run      commandRunner
	lookPath func(string) bool
}

func newDarwinSender() *darwinSender {
	return &darwinSender{run: runCommand, lookPath: toolAvailable}
}

func (s *darwinSender) SendVisual(n Notification) error {
	if !s.VisualAvailable() {
		return errOsascriptMissing
	}
	script := fmt.Sprintf("display notification %s with title %s",
		appleScriptString(n.Message), appleScriptString(n.Title))
	return s.run("osascript", "-e", script)
}

func (s *darwinSender) SendSound(soundFile string) error {
	if !s.SoundAvailable() {
		return errAfplayMissing
	}
	if soundFile == "" {
		soundFile = defaultDarwinSound
	}
	return s.run("afplay", soundFile)
}

func (s *darwinSender) VisualAvailable() bool { return s.lookPath("osascript") }
func (s *darwinSender) SoundAvailable() bool  { return s.lookPath("afplay") }

// appleScriptString quotes s as an AppleScript string literal.
func appleScriptString(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}
