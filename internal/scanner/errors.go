package scanner

import (
	"errors"

	"mdeco/internal/fileutil"
)

var (
	// ErrMissingDependency indicates a collector's external prerequisite is
	// absent. Recoverable: install the dependency and re-run CheckReadiness.
	ErrMissingDependency = errors.New("missing dependency")
	// ErrNotReady indicates Scan was called before a successful readiness
	// check. This is a sequencing bug in the caller, always fatal to the call.
	ErrNotReady = errors.New("collector not ready")
	// ErrNotAFile indicates the scanned path exists but is not a regular file.
	ErrNotAFile = fileutil.ErrNotRegularFile
	// ErrRegistration indicates a step was registered incorrectly at
	// construction time.
	ErrRegistration = errors.New("invalid step registration")
)
