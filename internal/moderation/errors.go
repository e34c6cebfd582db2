package moderation

import "errors"

var (
	// ErrInvalidRequest indicates a required request field is missing.
	ErrInvalidRequest = errors.New("invalid moderation request")
	// ErrRunnerNotConfigured indicates the job runner credentials are missing.
	ErrRunnerNotConfigured = errors.New("job runner not configured")
)
