package service

import "errors"

// Sentinel errors returned by the service.
var (
	ErrMemberNotFound     = errors.New("member not found")
	ErrUniversityNotFound = errors.New("university not found")
	ErrNoSource           = errors.New("no snapshot source configured")
)
