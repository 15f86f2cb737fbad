package quizapi

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound matches any upstream 404 and an empty quiz lookup.
	ErrNotFound = errors.New("not found")

	ErrEmptyQuizID = errors.New("quiz id is empty")
)

// StatusError is returned for any non-2xx upstream response. A 404
// StatusError also matches ErrNotFound under errors.Is.
type StatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("failed to fetch %s: %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
