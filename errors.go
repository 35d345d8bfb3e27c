package ytscraper

import (
	"ytscraper/export"
	"ytscraper/storage"
	"ytscraper/youtube"
)

// Error handling types exported for library users.
//
// All error types support the standard error handling patterns:
//
// Using errors.Is() for sentinel errors:
//
//	if errors.Is(err, youtube.ErrChannelNotFound) {
//		fmt.Println("Channel not found")
//	}
//
// Using errors.As() for wrapped errors:
//
//	var apiErr *youtube.APIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed with HTTP %d: %v\n", apiErr.Op, apiErr.Code, apiErr.Err)
//	}

// Type aliases for convenient error handling.
type (
	// APIError wraps unclassified YouTube Data API failures with the
	// operation and HTTP status that produced them.
	APIError = youtube.APIError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrInvalidURL indicates the provided channel URL is not a
	// recognized YouTube URL shape.
	ErrInvalidURL = youtube.ErrInvalidURL
	// ErrChannelNotFound indicates the channel could not be resolved or
	// does not exist.
	ErrChannelNotFound = youtube.ErrChannelNotFound
	// ErrVideoNotFound indicates a referenced video does not exist.
	ErrVideoNotFound = youtube.ErrVideoNotFound
	// ErrQuotaExceeded indicates the Data API quota is exhausted.
	ErrQuotaExceeded = youtube.ErrQuotaExceeded

	// ErrUnsupportedFormat indicates an export format other than csv,
	// json or excel.
	ErrUnsupportedFormat = export.ErrUnsupportedFormat

	// ErrNotFound indicates the requested session does not exist.
	ErrNotFound = storage.ErrNotFound
	// ErrSessionExpired indicates the session exists but is past its TTL.
	ErrSessionExpired = storage.ErrSessionExpired
)
