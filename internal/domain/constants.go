package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Storage backends
const (
	StorageBackendFile   = "file"
	StorageBackendSQLite = "sqlite"
	StorageBackendMemory = "memory"
)

// Timeout and duration constants
const (
	// DefaultClassifierTimeout bounds the single remote classification attempt
	DefaultClassifierTimeout = 10 * time.Second
	// DefaultHealthProbeTimeout bounds the backend health probe
	DefaultHealthProbeTimeout = 3 * time.Second
)

// Limit constants
const (
	// DefaultHistoryMaxEntries caps the stored analysis history
	DefaultHistoryMaxEntries = 50
	// DefaultHistoryListLimit is the default number of records to display
	DefaultHistoryListLimit = 10
	// DefaultForecastDays is the default forecast length
	DefaultForecastDays = 5
)

// Cache TTLs in minutes
const (
	DefaultWeatherTTLMinutes = 30
	DefaultTipsTTLMinutes    = 24 * 60
)

// Storage namespaces shared by the persistence adapter's callers
const (
	NamespaceHistory     = "analysis_history"
	NamespacePreferences = "user_preferences"
	NamespaceCachePrefix = "cache_"
)

// DefaultServerAddr is where `jua serve` listens by default.
const DefaultServerAddr = "127.0.0.1:5000"

// Time formats
const (
	// TimestampFormat is the standard timestamp format
	TimestampFormat = time.RFC3339
)
