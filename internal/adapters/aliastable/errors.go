package aliastable

import "errors"

// Sentinel kinds for alias table loading.
var (
	ErrAliasTableInvalid = errors.New("alias table invalid")
	ErrSourceUnavailable = errors.New("alias source unavailable")
	ErrUnknownSource     = errors.New("unknown alias source")
)
