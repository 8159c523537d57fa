package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidParticipants = Error("invalid participants")
	ErrForbidden           = Error("forbidden")
	ErrNotFound            = Error("not found")
	ErrEmptyMessage        = Error("empty message")
	ErrInvalidKind         = Error("invalid notification kind")
	ErrMissingFields       = Error("missing required fields")
	ErrUnauthorized        = Error("unauthorized")
	ErrInvalidRequestBody  = Error("invalid request body")
	ErrInvalidParams       = Error("invalid params")
	ErrInvalidToken        = Error("invalid token")
	ErrInvalidPlatform     = Error("invalid device platform")
	ErrNoFileUploaded      = Error("no file uploaded")
	ErrUnableToUploadFile  = Error("unable to upload file")
	ErrStorageNotReady     = Error("file storage not configured")
)
