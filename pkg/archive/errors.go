package archive

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by this package wraps exactly
// one of these, so callers can sort failures with errors.Is without
// matching on the specific condition.
var (
	// ErrFormat marks a malformed or unsupported archive preamble.
	// The archive is unusable.
	ErrFormat = errors.New("naf: format error")
	// ErrStream marks a truncated block or a decompression failure.
	// Fatal for the archive; no partial record is returned.
	ErrStream = errors.New("naf: stream error")
	// ErrData marks invalid content inside an otherwise well-framed
	// stream (bad symbol code, mask runs not matching the length).
	ErrData = errors.New("naf: data error")
	// ErrUsage marks a caller error, reported synchronously.
	ErrUsage = errors.New("naf: usage error")
)

// Conditions
var (
	ErrInconsistentFlags = errors.New("flags inconsistent with supplied fields")
	ErrTruncatedArchive  = errors.New("truncated archive")
	ErrAlreadyClosed     = errors.New("already closed")
)

// UnexpectedFieldError reports a record field supplied to a writer
// whose flags do not declare that stream, so the data would be
// silently dropped.
type UnexpectedFieldError struct {
	Field string
}

func (e *UnexpectedFieldError) Error() string {
	return fmt.Sprintf("unexpected %s field: stream not declared in archive flags", e.Field)
}

func formatErr(cause error) error {
	return fmt.Errorf("%w: %w", ErrFormat, cause)
}

func streamErr(record uint64, stream string, cause error) error {
	return fmt.Errorf("%w: record %d, %s stream: %w", ErrStream, record, stream, cause)
}

func dataErr(record uint64, stream string, cause error) error {
	return fmt.Errorf("%w: record %d, %s stream: %w", ErrData, record, stream, cause)
}

func usageErr(cause error) error {
	return fmt.Errorf("%w: %w", ErrUsage, cause)
}
