package models

import (
	"errors"
	"fmt"
)

// Sentinel causes for FormatError, matchable with errors.Is.
var (
	ErrUnsupportedShapeType = errors.New("unsupported shape type")
	ErrUnexpectedEOF        = errors.New("unexpected end of payload")
	ErrLengthMismatch       = errors.New("declared length disagrees with bytes consumed")
	ErrBadField             = errors.New("malformed field value")
)

// FormatError reports malformed or unsupported binary structure in one of
// the two dataset payloads. It is always fatal to the parse; no bytes are
// skipped to recover.
type FormatError struct {
	Payload string // "shp" or "dbf"
	Offset  int64  // byte offset where parsing failed
	Record  int    // record index, -1 when not inside a record
	Detail  string
	Err     error // one of the sentinel causes above
}

func (e *FormatError) Error() string {
	if e.Record >= 0 {
		return fmt.Sprintf("%s payload: record %d at offset %d: %s: %v", e.Payload, e.Record, e.Offset, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s payload: offset %d: %s: %v", e.Payload, e.Offset, e.Detail, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

// DataIntegrityError reports an ordinal misalignment between the shape and
// attribute payloads. It signals a systemic producer bug, so matching aborts
// rather than returning partial results.
type DataIntegrityError struct {
	Index  int
	Detail string
}

func (e *DataIntegrityError) Error() string {
	return fmt.Sprintf("shape/attribute integrity violation at index %d: %s", e.Index, e.Detail)
}
