// Package testutil builds synthetic shape and attribute payloads for
// tests. Only _test files import it.
package testutil

import (
	"encoding/binary"
	"math"

	"github.com/paulmach/orb"
)

const polygonType = 5

func appendBEInt32(buf []byte, v int32) []byte {
	return binary.BigEndian.AppendUint32(buf, uint32(v))
}

func appendLEInt32(buf []byte, v int32) []byte {
	return binary.LittleEndian.AppendUint32(buf, uint32(v))
}

func appendLEFloat64(buf []byte, v float64) []byte {
	return binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
}

// BuildSHP encodes one polygon record per entry of shapes, each entry
// being that shape's rings in storage order.
func BuildSHP(shapes [][]orb.Ring) []byte {
	var records [][]byte
	for _, rings := range shapes {
		records = append(records, encodePolygon(rings))
	}

	total := 100
	for _, rec := range records {
		total += 8 + len(rec)
	}

	buf := make([]byte, 0, total)
	buf = appendBEInt32(buf, 9994)
	for i := 0; i < 5; i++ {
		buf = appendBEInt32(buf, 0)
	}
	buf = appendBEInt32(buf, int32(total/2))
	buf = appendLEInt32(buf, 1000) // version
	buf = appendLEInt32(buf, polygonType)
	for i := 0; i < 8; i++ {
		buf = appendLEFloat64(buf, 0) // header bbox, unused by the reader
	}

	for i, rec := range records {
		buf = appendBEInt32(buf, int32(i+1))
		buf = appendBEInt32(buf, int32(len(rec)/2))
		buf = append(buf, rec...)
	}
	return buf
}

func encodePolygon(rings []orb.Ring) []byte {
	numPoints := 0
	for _, r := range rings {
		numPoints += len(r)
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, r := range rings {
		for _, p := range r {
			minX = math.Min(minX, p[0])
			minY = math.Min(minY, p[1])
			maxX = math.Max(maxX, p[0])
			maxY = math.Max(maxY, p[1])
		}
	}
	if numPoints == 0 {
		minX, minY, maxX, maxY = 0, 0, 0, 0
	}

	var buf []byte
	buf = appendLEInt32(buf, polygonType)
	buf = appendLEFloat64(buf, minX)
	buf = appendLEFloat64(buf, minY)
	buf = appendLEFloat64(buf, maxX)
	buf = appendLEFloat64(buf, maxY)
	buf = appendLEInt32(buf, int32(len(rings)))
	buf = appendLEInt32(buf, int32(numPoints))

	start := 0
	for _, r := range rings {
		buf = appendLEInt32(buf, int32(start))
		start += len(r)
	}
	for _, r := range rings {
		for _, p := range r {
			buf = appendLEFloat64(buf, p[0])
			buf = appendLEFloat64(buf, p[1])
		}
	}
	return buf
}

// DBFField mirrors one fixed-width column declaration.
type DBFField struct {
	Name     string
	Type     byte
	Length   int
	Decimals int
}

// DBFRecord is one row; Cells aligns with the field list. Deleted rows
// still occupy their slot.
type DBFRecord struct {
	Deleted bool
	Cells   []string
}

// BuildDBF encodes a dBASE III table.
func BuildDBF(fields []DBFField, records []DBFRecord) []byte {
	headerSize := 32 + 32*len(fields) + 1
	recordSize := 1
	for _, f := range fields {
		recordSize += f.Length
	}

	buf := make([]byte, 32)
	buf[0] = 0x03
	buf[1], buf[2], buf[3] = 24, 1, 15 // last-update date, unused
	binary.LittleEndian.PutUint32(buf[4:8], uint32(len(records)))
	binary.LittleEndian.PutUint16(buf[8:10], uint16(headerSize))
	binary.LittleEndian.PutUint16(buf[10:12], uint16(recordSize))

	for _, f := range fields {
		desc := make([]byte, 32)
		copy(desc[:11], f.Name)
		desc[11] = f.Type
		desc[16] = byte(f.Length)
		desc[17] = byte(f.Decimals)
		buf = append(buf, desc...)
	}
	buf = append(buf, 0x0D)

	for _, rec := range records {
		if rec.Deleted {
			buf = append(buf, '*')
		} else {
			buf = append(buf, ' ')
		}
		for i, f := range fields {
			cell := make([]byte, f.Length)
			for j := range cell {
				cell[j] = ' '
			}
			if i < len(rec.Cells) {
				copy(cell, rec.Cells[i])
			}
			buf = append(buf, cell...)
		}
	}
	buf = append(buf, 0x1A)

	return buf
}
