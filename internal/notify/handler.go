package notify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ariel-frischer/vaultlog/internal/vault"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// WriteFailedMessage is shown when the changelog destination cannot be written.
const WriteFailedMessage = "Couldn't write changelog: check the file path"

// dispatchTimeout bounds how long a notification may block the caller.
const dispatchTimeout = 5 * time.Second

// Handler manages notification dispatch based on configuration and hooks.
// If notifications are disabled in config, every hook is a no-op.
type Handler struct {
	config NotificationConfig
	sender Sender
	logger *zap.Logger

	// sessionAllowed reports whether the session may show notifications.
	sessionAllowed func() bool
}

// NewHandler creates a notification handler using the platform sender.
func NewHandler(config NotificationConfig, logger *zap.Logger) *Handler {
	return NewHandlerWithSender(config, NewSender(), logger)
}

// NewHandlerWithSender creates a handler with a custom sender (for testing).
func NewHandlerWithSender(config NotificationConfig, sender Sender, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		config:         config,
		sender:         sender,
		logger:         logger.Named("notify"),
		sessionAllowed: interactiveSession,
	}
}

// Config returns the handler's notification configuration
func (h *Handler) Config() NotificationConfig {
	return h.config
}

// isEnabled checks if notifications should be sent.
// Returns false if notifications are disabled, running in CI, or non-interactive.
func (h *Handler) isEnabled() bool {
	if h == nil || !h.config.Enabled {
		return false
	}
	if !h.sessionAllowed() {
		h.logger.Debug("notifications skipped: CI or non-interactive session")
		return false
	}
	return true
}

// interactiveSession reports whether notifications make sense here: not in CI
// and with a terminal attached.
func interactiveSession() bool {
	return !isCI() && isInteractive()
}

// isCI checks for common CI environment variables.
func isCI() bool {
	ciVars := []string{
		"CI",
		"GITHUB_ACTIONS",
		"GITLAB_CI",
		"CIRCLECI",
		"TRAVIS",
		"JENKINS_URL",
		"BUILDKITE",
		"DRONE",
		"TEAMCITY_VERSION",
		"TF_BUILD",            // Azure DevOps
		"BITBUCKET_PIPELINES", // Bitbucket
		"CODEBUILD_BUILD_ID",  // AWS CodeBuild
	}
	for _, v := range ciVars {
		if os.Getenv(v) != "" {
			return true
		}
	}
	return false
}

// isInteractive checks stdout, then stderr, then stdin for a terminal.
func isInteractive() bool {
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return true
	}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		return true
	}
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// dispatch sends a notification with a timeout.
// Failures are logged and never propagate to the caller.
func (h *Handler) dispatch(n Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.sendNotification(n)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		h.logger.Debug("notification timed out", zap.Duration("timeout", dispatchTimeout))
	}
}

// sendNotification sends the notification based on configured type
func (h *Handler) sendNotification(n Notification) {
	switch h.config.Type {
	case OutputSound:
		h.logSendError("sound", h.sender.SendSound(h.config.SoundFile))
	case OutputBoth:
		h.logSendError("visual", h.sender.SendVisual(n))
		h.logSendError("sound", h.sender.SendSound(h.config.SoundFile))
	case OutputVisual, "":
		h.logSendError("visual", h.sender.SendVisual(n))
	default:
		h.logger.Debug("unknown notification type", zap.String("type", string(h.config.Type)))
	}
}

func (h *Handler) logSendError(kind string, err error) {
	if err != nil {
		h.logger.Debug("sending notification failed", zap.String("kind", kind), zap.Error(err))
	}
}

// OnUpdated is called after the changelog at path was rewritten with entries
// entries. It notifies only when on_update is enabled.
func (h *Handler) OnUpdated(path string, entries int) {
	if !h.isEnabled() || !h.config.OnUpdate {
		return
	}
	h.dispatch(NewNotification(
		Title,
		fmt.Sprintf("Changelog %s updated (%d %s)", path, entries, plural(entries, "entry", "entries")),
		TypeSuccess,
	))
}

// OnWriteFailed is called when the changelog at path could not be written.
func (h *Handler) OnWriteFailed(path string, err error) {
	if !h.isEnabled() || !h.config.OnError {
		return
	}
	h.logger.Debug("changelog write failed", zap.String("path", path), zap.Error(err))
	h.dispatch(NewNotification(Title, errorMessage("", err), TypeFailure))
}

// OnCommandComplete is called when a vaultlog command finishes.
// Failures are reported through OnError, so only successes notify here.
func (h *Handler) OnCommandComplete(commandName string, success bool, duration time.Duration) {
	if !success || !h.isEnabled() || !h.config.OnCommandComplete {
		return
	}
	h.dispatch(NewNotification(
		Title,
		fmt.Sprintf("Command '%s' completed successfully (%s)", commandName, formatDuration(duration)),
		TypeSuccess,
	))
}

// OnError is called when a command fails.
func (h *Handler) OnError(commandName string, err error) {
	if !h.isEnabled() || !h.config.OnError {
		return
	}
	h.dispatch(NewNotification(Title, errorMessage(commandName, err), TypeFailure))
}

// errorMessage maps destination problems to the short write-failure notice
// and everything else to a message naming the command.
func errorMessage(commandName string, err error) string {
	if errors.Is(err, vault.ErrDestinationNotFound) ||
		errors.Is(err, vault.ErrPathNotSet) ||
		errors.Is(err, vault.ErrOutsideVault) {
		return WriteFailedMessage
	}
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	if commandName == "" {
		return "Couldn't write changelog: " + errMsg
	}
	return fmt.Sprintf("Error in '%s': %s", commandName, errMsg)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// formatDuration formats a duration for display in notifications
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.1fm", d.Minutes())
}
