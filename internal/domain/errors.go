package domain

import (
	"errors"
	"fmt"
)

// ErrUnsupportedPeriod is returned for years that predate the exchange's
// published history (anything before 1993).
var ErrUnsupportedPeriod = errors.New("period predates available historical data")

// TransferError reports a failed archive download: either a non-200
// response or a transport-level failure.
type TransferError struct {
	URL        string
	StatusCode int
	Status     string
	Err        error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transfer of %s failed: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("transfer of %s failed: %s", e.URL, e.Status)
}

func (e *TransferError) Unwrap() error { return e.Err }

// MalformedRecordError reports a line whose field count does not match the
// expected layout for its schema version.
type MalformedRecordError struct {
	Line   string
	Fields int
	Want   int
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed record: %d fields, want %d: %q", e.Fields, e.Want, e.Line)
}
