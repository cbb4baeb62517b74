package shared

import "errors"

var (
	ErrAccessDenied     = errors.New("access is denied")
	ErrExists           = errors.New("the account already exists")
	ErrInvalidParameter = errors.New("a parameter is incorrect")
	ErrUnsupported      = errors.New("operation is only supported on Windows")

	ErrNotElevated     = errors.New("the process is not running elevated, run it from an administrator prompt")
	ErrMirrorNotFound  = errors.New("mirroring executable not found")
	ErrServiceNotFound = errors.New("the specified service does not exist")
	ErrTaskNotFound    = errors.New("the specified scheduled task does not exist")
	ErrAborted         = errors.New("aborted by operator")
	ErrTimeout         = errors.New("timed out waiting for condition")
)
