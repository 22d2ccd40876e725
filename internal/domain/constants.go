package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout bounds every provider request; the orchestrator itself has no timeout.
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultProbeTimeout bounds the connectivity probes run during provider initialization.
	DefaultProbeTimeout = 3 * time.Second
)

// Generation constants
const (
	// DefaultMaxTokens is the completion budget for remote backends.
	DefaultMaxTokens = 256
	// DefaultLocalPredict is the completion budget for local backends.
	DefaultLocalPredict = 100
)

// Cache constants
const (
	// DefaultCacheListLimit is the default number of cache entries to display
	DefaultCacheListLimit = 20
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
