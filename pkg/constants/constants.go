// Package constants provides shared constants used throughout the stylerack
// codebase. This includes timeouts, limits, file permissions, and wire-format
// values that must stay consistent across the application.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultHTTPTimeout is the standard timeout for HTTP requests to the image host
	DefaultHTTPTimeout = 30 * time.Second

	// UploadTimeout is the timeout for a single file upload
	UploadTimeout = 2 * time.Minute

	// ServerShutdownTimeout is the grace period for the API server to drain
	ServerShutdownTimeout = 10 * time.Second
)

// File permission constants define standard Unix file permissions
const (
	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Image host wire-format constants. These mirror the hosted gallery API and
// the folder naming convention; changing them breaks compatibility with
// existing remote data.
const (
	// DefaultBaseURL is the default image host endpoint
	DefaultBaseURL = "https://img.liyao.sbs"

	// DefaultGalleryDir is the remote directory that holds product folders
	DefaultGalleryDir = "服装"

	// ListCountAll is the count parameter requesting an unpaginated listing
	ListCountAll = -1

	// UploadFieldName is the multipart form field carrying the file body
	UploadFieldName = "file"

	// CurrencySymbol is prepended to prices for display only; the numeric
	// price in folder names never carries it
	CurrencySymbol = "¥"

	// FacetSeparator joins facet values inside one folder-name field
	FacetSeparator = "_"

	// FieldSeparator joins the folder-name fields
	FieldSeparator = "-"
)

// Limit constants define various limits and capacities
const (
	// SniffLength is the number of bytes read to detect a queued file's content type
	SniffLength = 512

	// MaxStatusMessageLength caps user-facing status messages
	MaxStatusMessageLength = 256
)
