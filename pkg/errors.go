package pkg

// AppError carries a stable machine-readable code alongside the HTTP status
// the adapters should answer with. Handlers build one per failure and never
// leak raw internal errors to clients.

type AppError struct {
	Code       string
	Message    string
	Err        error
	HTTPStatus int
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Code + ": " + e.Message + ": " + e.Err.Error()
	}
	return e.Code + ": " + e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// NewDomainError wraps an internal error with a code/message/status triple.
func NewDomainError(code, message string, err error, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, Err: err, HTTPStatus: httpStatus}
}

// NewDomainErrorSimple is NewDomainError without an underlying cause.
func NewDomainErrorSimple(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// ToHTTPError is the JSON body sent to clients. The underlying error is
// intentionally omitted.
func (e *AppError) ToHTTPError() map[string]string {
	return map[string]string{
		"code":    e.Code,
		"message": e.Message,
	}
}
