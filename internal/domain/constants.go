package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// FilePermissions is the permission for the history file (rw-r--r--)
	FilePermissions = 0o644
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Filter defaults. Changing them alters which polls get published, so they
// track the values used by earlier published output.
const (
	DefaultLocalThreshold  = 0.49
	DefaultRemoteThreshold = 0.35
	DefaultWindowSize      = 8
	DefaultMaxAttempts     = 8
	DefaultMaxAnswerLength = 50
)

// Mastodon defaults
const (
	DefaultPollExpiresIn  = 28800
	DefaultVisibility     = "public"
	DefaultLanguage       = "en"
	DefaultInstanceEnvVar = "MAST_INSTANCE"
	DefaultTokenEnvVar    = "MAST_TOKEN"
)

// History backends
const (
	HistoryBackendJSON   = "json"
	HistoryBackendSQLite = "sqlite"
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultLockTimeout bounds how long a run waits for another run to finish
	DefaultLockTimeout = 5 * time.Second
)

// History display constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
)
