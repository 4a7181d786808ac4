package cli

import (
	"errors"

	clierrors "github.com/ariel-frischer/vaultlog/internal/errors"
	"github.com/ariel-frischer/vaultlog/internal/vault"
)

// Exit codes for the vaultlog CLI
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitFailure indicates a runtime or configuration failure
	ExitFailure = 1

	// ExitInvalidArguments indicates invalid command arguments or flag values
	ExitInvalidArguments = 3

	// ExitDestinationMissing indicates the changelog note is unset, missing,
	// or outside the vault
	ExitDestinationMissing = 4
)

// ExitCode maps a command error to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if errors.Is(err, vault.ErrDestinationNotFound) ||
		errors.Is(err, vault.ErrPathNotSet) ||
		errors.Is(err, vault.ErrOutsideVault) {
		return ExitDestinationMissing
	}
	if cliErr := clierrors.AsCLIError(err); cliErr != nil && cliErr.Category == clierrors.Argument {
		return ExitInvalidArguments
	}
	return ExitFailure
}
