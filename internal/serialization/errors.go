package serialization

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrIO                 = errors.New("serialization: i/o failure")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrTruncated          = errors.New("unexpected end of data")
	ErrLimitExceeded      = errors.New("value exceeds format limit")
)

// ValidationError provides detailed information about a field that failed
// validation while reading.
type ValidationError struct {
	Type    string // Type of error (e.g., "dimension", "sequence_length")
	Field   string // Field being read (e.g., "hidden_width", "weights[1][3]")
	Details string // Additional details
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: field %q: %s", e.Type, e.Field, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Details)
}

// Unwrap lets errors.Is match ErrLimitExceeded.
func (e *ValidationError) Unwrap() error {
	return ErrLimitExceeded
}
