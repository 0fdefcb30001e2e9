package config

import "errors"

// Sentinel errors. Load wraps file, env and decode failures with
// ErrLoadConfig and rejected settings with ErrInvalidConfig.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)
