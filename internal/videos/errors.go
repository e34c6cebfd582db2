package videos

import "errors"

var (
	// ErrInvalidUpload indicates the upload request failed validation.
	ErrInvalidUpload = errors.New("invalid video upload")
	// ErrStorageUnavailable indicates no object storage is configured.
	ErrStorageUnavailable = errors.New("video storage unavailable")
)
