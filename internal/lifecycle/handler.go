// Package lifecycle wraps vaultlog commands with timing and completion
// notifications so each command body stays focused on its own work.
package lifecycle

import "time"

// NotificationHandler receives command outcomes.
// It is satisfied by *notify.Handler; defining it here keeps lifecycle free
// of the notify package.
type NotificationHandler interface {
	// OnCommandComplete is called when a command finishes.
	OnCommandComplete(name string, success bool, duration time.Duration)

	// OnError is called after OnCommandComplete when the command failed.
	OnError(name string, err error)
}
