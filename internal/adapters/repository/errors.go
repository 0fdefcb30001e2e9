package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrUnknownSource       = errors.New("unknown document source")
	ErrMembersUnavailable  = errors.New("members collection unavailable")
	ErrCollectionRead      = errors.New("collection read failed")
	ErrMalformedTimestamp  = errors.New("malformed timestamp")
	ErrInvalidSnapshotFile = errors.New("invalid snapshot file")
)
