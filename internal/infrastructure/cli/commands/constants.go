package commands

import "errors"

// TimestampFormat is used for every timestamp printed by the CLI.
const TimestampFormat = "2006-01-02 15:04"

// Errors returned by commands.
var (
	ErrAnalysisServiceUnavailable = errors.New("analysis service unavailable")
	ErrHistoryStoreUnavailable    = errors.New("history store unavailable")
	ErrDoctorServiceUnavailable   = errors.New("doctor service unavailable")
	ErrNothingToSet               = errors.New("nothing to set: pass --language, --location or --notifications")
)

// Success messages
const (
	MsgNoHistoryRecorded = "No history recorded yet."
	MsgNoCachedEntries   = "No cached entries."
	MsgHistoryCleared    = "History cleared."
	MsgCacheCleared      = "Cache cleared."
)
