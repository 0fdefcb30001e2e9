// Package report renders report DTOs as plain text, CSV or JSON.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Format selects an output encoding.
type Format string

// Formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat parses a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatText, nil
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Write renders v in the given format.
func Write(w io.Writer, f Format, v any) error {
	switch f {
	case FormatText, "":
		return WriteText(w, v)
	case FormatJSON:
		return WriteJSON(w, v)
	case FormatCSV:
		return WriteCSV(w, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, string(f))
	}
}

// WriteJSON writes v as indented JSON followed by a newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}
