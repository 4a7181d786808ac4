// Package notify sends desktop notifications about changelog updates and
// failures. Notifications are opt-in and suppressed in CI and non-interactive
// sessions.
package notify

// NotificationType represents the type of notification event
type NotificationType string

const (
	// TypeSuccess indicates a successful operation
	TypeSuccess NotificationType = "success"
	// TypeFailure indicates a failed operation
	TypeFailure NotificationType = "failure"
	// TypeInfo indicates an informational notification
	TypeInfo NotificationType = "info"
)

// OutputType represents the notification output type
type OutputType string

const (
	// OutputSound sends only an audible notification
	OutputSound OutputType = "sound"
	// OutputVisual sends only a visual notification
	OutputVisual OutputType = "visual"
	// OutputBoth sends both sound and visual notifications
	OutputBoth OutputType = "both"
)

// Title is the application name shown on every notification.
const Title = "vaultlog"

// ValidOutputType checks if the given string is a valid output type
func ValidOutputType(s string) bool {
	switch OutputType(s) {
	case OutputSound, OutputVisual, OutputBoth:
		return true
	default:
		return false
	}
}

// NotificationConfig holds user preferences for notification behavior.
type NotificationConfig struct {
	// Enabled is the master switch for all notifications (default: false, opt-in)
	Enabled bool `koanf:"enabled" yaml:"enabled"`

	// Type specifies the notification output type: sound, visual, or both (default: visual)
	Type OutputType `koanf:"type" yaml:"type" validate:"omitempty,oneof=sound visual both"`

	// SoundFile is an optional custom sound file path
	SoundFile string `koanf:"sound_file" yaml:"sound_file"`

	// OnUpdate notifies when the changelog content changes
	OnUpdate bool `koanf:"on_update" yaml:"on_update"`

	// OnCommandComplete notifies when update or show finishes successfully
	OnCommandComplete bool `koanf:"on_command_complete" yaml:"on_command_complete"`

	// OnError notifies when a command fails or the changelog cannot be written
	OnError bool `koanf:"on_error" yaml:"on_error"`
}

// DefaultConfig returns a NotificationConfig with default values
func DefaultConfig() NotificationConfig {
	return NotificationConfig{
		Enabled:           false,
		Type:              OutputVisual,
		SoundFile:         "",
		OnUpdate:          false,
		OnCommandComplete: false,
		OnError:           true,
	}
}

// Notification represents a single notification event to dispatch
type Notification struct {
	Title            string
	Message          string
	NotificationType NotificationType
}

// NewNotification creates a new Notification with the given parameters
func NewNotification(title, message string, notificationType NotificationType) Notification {
	return Notification{
		Title:            title,
		Message:          message,
		NotificationType: notificationType,
	}
}
