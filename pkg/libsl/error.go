package libsl

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// An SLError reprensents an HTTP error returned by the store.
type SLError struct {
	StatusCode int
	Err        struct {
		Message string `json:"message"`
	} `json:"error"`
}

func parseSLError(r io.Reader, code int) error {
	sferr := SLError{StatusCode: code}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&sferr); err != nil || sferr.Err.Message == "" {
		sferr.Err.Message = fmt.Sprintf("unexpected status %d %s", code, http.StatusText(code))
	}
	return &sferr
}

func (e *SLError) Error() string {
	return e.Err.Message
}

// IsNotFound returns true if err is a not found error returned by the store.
func IsNotFound(err error) bool {
	sferr, ok := err.(*SLError)
	return ok && sferr.StatusCode == http.StatusNotFound
}
