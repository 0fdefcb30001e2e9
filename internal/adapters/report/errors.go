package report

import "errors"

// Sentinel errors returned by the renderers.
var (
	ErrUnknownFormat     = errors.New("unknown report format")
	ErrUnsupportedReport = errors.New("unsupported report type")
)
