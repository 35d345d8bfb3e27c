package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// Sentinel errors for scraping operations.
var (
	ErrInvalidURL      = errors.New("youtube: invalid URL")
	ErrChannelNotFound = errors.New("youtube: channel not found")
	ErrVideoNotFound   = errors.New("youtube: video not found")
	ErrQuotaExceeded   = errors.New("youtube: API quota exceeded")
)

// APIError wraps a Data API failure that is neither a quota nor a not-found
// condition. Use errors.As() to extract the operation and status code:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed with status %d\n", apiErr.Op, apiErr.Code)
//	}
type APIError struct {
	// Op is the API method that failed ("channels.list", "videos.list", ...).
	Op string
	// Code is the HTTP status code, 0 when the request never completed.
	Code int
	// Err is the underlying error.
	Err error
}

// Error returns a string representation of the API error.
func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("youtube: %s: status %d: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("youtube: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *APIError) Unwrap() error { return e.Err }

// classifyAPIError maps a Data API transport error onto the error taxonomy:
// 403 becomes ErrQuotaExceeded, 404 becomes the caller's not-found sentinel,
// everything else is wrapped in an APIError.
func classifyAPIError(op string, err error, notFound error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		switch gerr.Code {
		case http.StatusForbidden:
			return fmt.Errorf("%s: %w", op, ErrQuotaExceeded)
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w", op, notFound)
		default:
			return &APIError{Op: op, Code: gerr.Code, Err: err}
		}
	}
	return &APIError{Op: op, Err: err}
}

// apiRetryClassifier reports whether an API error is worth retrying.
// Quota and not-found conditions are permanent; retrying cannot help.
func apiRetryClassifier(err error) bool {
	switch {
	case errors.Is(err, ErrQuotaExceeded),
		errors.Is(err, ErrChannelNotFound),
		errors.Is(err, ErrVideoNotFound),
		errors.Is(err, ErrInvalidURL):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
