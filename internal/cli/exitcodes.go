package cli

import (
	"errors"
	"os"

	"github.com/yaklabco/gotypstyle/internal/configloader"
	"github.com/yaklabco/gotypstyle/pkg/fsutil"
	"github.com/yaklabco/gotypstyle/pkg/runner"
)

// Exit codes for gotypstyle.
const (
	// ExitSuccess indicates every file is formatted.
	ExitSuccess = 0

	// ExitUnformatted indicates check mode found files that need formatting.
	ExitUnformatted = 1

	// ExitFilesFailed indicates some files could not be formatted.
	ExitFilesFailed = 2

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrUnformatted is returned when check mode finds files that need
	// formatting.
	ErrUnformatted = errors.New("files need formatting")

	// ErrFilesFailed is returned when some files could not be formatted.
	ErrFilesFailed = errors.New("some files could not be formatted")

	// ErrUsage marks invalid command-line usage.
	ErrUsage = errors.New("invalid usage")

	// ErrConfig marks configuration errors.
	ErrConfig = errors.New("invalid configuration")
)

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	var validationErr *configloader.ValidationError

	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrUnformatted):
		return ExitUnformatted
	case errors.Is(err, ErrFilesFailed):
		return ExitFilesFailed
	case errors.Is(err, ErrUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrConfig), errors.As(err, &validationErr):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrFileNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, os.ErrNotExist),
		errors.Is(err, os.ErrPermission):
		return ExitIOError
	default:
		return ExitInternalError
	}
}

// errFromResult returns the error matching the outcome of a run.
func errFromResult(result *runner.Result, check bool) error {
	switch {
	case result == nil:
		return nil
	case result.HasErrors():
		return ErrFilesFailed
	case check && result.HasChanges():
		return ErrUnformatted
	default:
		return nil
	}
}

// IsSignal reports whether err only carries an exit status and needs no
// log line.
func IsSignal(err error) bool {
	return errors.Is(err, ErrUnformatted) || errors.Is(err, ErrFilesFailed)
}
