package activity

import "errors"

// Sentinel kinds for activity errors.
var (
	ErrUnknownLevel = errors.New("unknown activity level")
)
