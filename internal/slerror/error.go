package slerror

import "net/http"

type (
	// An SLError represents the error format that can be rendered by sharedlist server.
	SLError struct {
		HTTPCode   int `json:"-"`
		FieldError err `json:"error"`
	}

	err struct {
		Tag     string `json:"tag,omitempty"`
		Message string `json:"message"`
	}
)

// StatusCode returns the HTTP status code.
func StatusCode(err error) int {
	if slerr, ok := err.(*SLError); ok {
		if slerr.HTTPCode == 0 {
			return http.StatusBadRequest
		}
		return slerr.HTTPCode
	}
	return http.StatusInternalServerError
}

// New returns a new SLError with the given message.
func New(message string) *SLError {
	return &SLError{FieldError: err{Message: message}}
}

// NewWithCode returns a new SLError with the given code and message.
func NewWithCode(code int, message string) *SLError {
	return &SLError{HTTPCode: code, FieldError: err{Message: message}}
}

// NewWithTagCode returns a new SLError with the given code, tag and message.
func NewWithTagCode(code int, tag, message string) *SLError {
	return &SLError{HTTPCode: code, FieldError: err{Tag: tag, Message: message}}
}

// Error implements error interface.
func (e *SLError) Error() string {
	return e.FieldError.Message
}
