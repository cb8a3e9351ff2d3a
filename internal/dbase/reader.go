// Package dbase parses the attribute half of the alerts dataset: a dBASE
// III (.dbf) payload holding one fixed-width metadata record per shape.
// Soft-deleted records are skipped but still occupy their ordinal slot so
// the join with the shape payload stays aligned.
package dbase

import (
	"encoding/binary"
	"strconv"
	"strings"
	"time"

	"github.com/mr1hm/go-wx-alerts/internal/models"
)

const (
	descriptorSize       = 32
	descriptorTerminator = 0x0D

	markerLive    = 0x20
	markerDeleted = 0x2A // '*'
	markerEOF     = 0x1A
)

// Field is one column of the fixed-width record schema.
type Field struct {
	Name     string
	Type     byte // C, N, F, D, L
	Length   int
	Decimals int
}

// Table is the parsed attribute payload. Records is indexed by ordinal
// slot; a nil entry marks a soft-deleted record whose slot is preserved.
type Table struct {
	Fields  []Field
	Records []*models.AlertRecord
}

// Live returns the number of non-deleted records.
func (t *Table) Live() int {
	n := 0
	for _, r := range t.Records {
		if r != nil {
			n++
		}
	}
	return n
}

func formatErr(off int64, record int, detail string, cause error) error {
	return &models.FormatError{
		Payload: "dbf",
		Offset:  off,
		Record:  record,
		Detail:  detail,
		Err:     cause,
	}
}

// Read parses the full .dbf payload.
func Read(buf []byte) (*Table, error) {
	if len(buf) < 32 {
		return nil, formatErr(int64(len(buf)), -1, "payload shorter than table header", models.ErrUnexpectedEOF)
	}

	recordCount := int(binary.LittleEndian.Uint32(buf[4:8]))
	headerSize := int(binary.LittleEndian.Uint16(buf[8:10]))
	recordSize := int(binary.LittleEndian.Uint16(buf[10:12]))

	fields, err := readSchema(buf, headerSize)
	if err != nil {
		return nil, err
	}

	// The record size counts the deletion marker byte plus every field.
	width := 1
	for _, f := range fields {
		width += f.Length
	}
	if width != recordSize {
		return nil, formatErr(32, -1, "field widths disagree with declared record size", models.ErrLengthMismatch)
	}

	records := make([]*models.AlertRecord, 0, recordCount)
	off := headerSize
	for slot := 0; slot < recordCount; slot++ {
		if off+recordSize > len(buf) {
			return nil, formatErr(int64(off), slot, "truncated record", models.ErrUnexpectedEOF)
		}
		raw := buf[off : off+recordSize]
		off += recordSize

		switch raw[0] {
		case markerDeleted:
			records = append(records, nil)
			continue
		case markerLive:
		default:
			if raw[0] == markerEOF {
				return nil, formatErr(int64(off-recordSize), slot, "end-of-file marker before declared record count", models.ErrUnexpectedEOF)
			}
			return nil, formatErr(int64(off-recordSize), slot, "unrecognized deletion marker", models.ErrBadField)
		}

		rec, err := decodeRecord(fields, raw[1:], slot, int64(off-recordSize))
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return &Table{Fields: fields, Records: records}, nil
}

func readSchema(buf []byte, headerSize int) ([]Field, error) {
	if headerSize > len(buf) {
		return nil, formatErr(8, -1, "declared header size exceeds payload", models.ErrUnexpectedEOF)
	}

	var fields []Field
	off := 32
	for {
		if off >= headerSize {
			return nil, formatErr(int64(off), -1, "missing descriptor terminator", models.ErrUnexpectedEOF)
		}
		if buf[off] == descriptorTerminator {
			break
		}
		if off+descriptorSize > headerSize {
			return nil, formatErr(int64(off), -1, "truncated field descriptor", models.ErrUnexpectedEOF)
		}
		desc := buf[off : off+descriptorSize]

		name := strings.TrimRight(string(desc[:11]), "\x00")
		typ := desc[11]
		switch typ {
		case 'C', 'N', 'F', 'D', 'L':
		default:
			return nil, formatErr(int64(off), -1, "unknown type tag for field "+name, models.ErrBadField)
		}
		fields = append(fields, Field{
			Name:     name,
			Type:     typ,
			Length:   int(desc[16]),
			Decimals: int(desc[17]),
		})
		off += descriptorSize
	}
	return fields, nil
}

func decodeRecord(fields []Field, raw []byte, slot int, recOff int64) (*models.AlertRecord, error) {
	rec := &models.AlertRecord{
		Index:  slot,
		Fields: make(map[string]models.Value, len(fields)),
	}

	off := 0
	for _, f := range fields {
		cell := raw[off : off+f.Length]
		off += f.Length

		v, ok, err := decodeValue(f, cell)
		if err != nil {
			return nil, formatErr(recOff+1+int64(off-f.Length), slot, "field "+f.Name+": "+err.Error(), models.ErrBadField)
		}
		if ok {
			rec.Fields[f.Name] = v
		}
	}
	return rec, nil
}

// decodeValue decodes one fixed-width cell by its declared type tag. An
// all-blank cell is an absent value, not an error; anything else that fails
// to parse is a BadField.
func decodeValue(f Field, cell []byte) (models.Value, bool, error) {
	switch f.Type {
	case 'C':
		return models.TextValue(strings.TrimRight(string(cell), " \x00")), true, nil
	case 'N', 'F':
		s := strings.TrimSpace(string(cell))
		if s == "" {
			return models.Value{}, false, nil
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return models.Value{}, false, err
		}
		return models.NumberValue(n), true, nil
	case 'D':
		s := strings.TrimSpace(string(cell))
		if s == "" {
			return models.Value{}, false, nil
		}
		t, err := time.Parse("20060102", s)
		if err != nil {
			return models.Value{}, false, err
		}
		return models.DateValue(t), true, nil
	case 'L':
		s := strings.TrimSpace(string(cell))
		if s == "" || s == "?" {
			return models.Value{}, false, nil
		}
		return models.TextValue(s), true, nil
	}
	return models.Value{}, false, nil
}
