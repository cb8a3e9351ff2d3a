// Package shapefile parses the geometry half of the alerts dataset: an ESRI
// shapefile (.shp) payload holding one polygon record per alert coverage
// area. Only the polygon shape type is supported; the reader fails fast on
// anything else rather than skipping records, since a skipped record would
// silently break the ordinal join with the attribute table.
package shapefile

import (
	"encoding/binary"
	"math"

	"github.com/paulmach/orb"

	"github.com/mr1hm/go-wx-alerts/internal/models"
)

const (
	headerSize = 100
	fileCode   = 9994

	// Shape type codes from the ESRI spec. Polygon is the only one the
	// alerts dataset ever carries.
	typePolygon = 5
)

// Shape is one polygon record: an ordinal index matching its position in
// the payload, its rings (outer boundaries and holes interleaved, in
// storage order), and the record's declared bounding box.
type Shape struct {
	Index int
	Rings []orb.Ring
	BBox  orb.Bound
}

// payloadReader walks the raw buffer with explicit per-field endianness.
// The shapefile format mixes big-endian file/record headers with
// little-endian record contents; keeping the choice on each read call makes
// the layout auditable. A short read latches err and zeroes every
// subsequent read.
type payloadReader struct {
	buf    []byte
	off    int
	record int
	err    error
}

func (r *payloadReader) fail(cause error, detail string) {
	if r.err == nil {
		r.err = &models.FormatError{
			Payload: "shp",
			Offset:  int64(r.off),
			Record:  r.record,
			Detail:  detail,
			Err:     cause,
		}
	}
}

func (r *payloadReader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.off+n > len(r.buf) {
		r.fail(models.ErrUnexpectedEOF, "truncated payload")
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *payloadReader) beInt32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

func (r *payloadReader) leInt32() int32 {
	b := r.take(4)
	if b == nil {
		return 0
	}
	return int32(binary.LittleEndian.Uint32(b))
}

func (r *payloadReader) leFloat64() float64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

// Read parses the full .shp payload into shapes ordered by storage
// position. The returned slice index equals each shape's ordinal index.
func Read(buf []byte) ([]Shape, error) {
	r := &payloadReader{buf: buf, record: -1}

	if len(buf) < headerSize {
		r.fail(models.ErrUnexpectedEOF, "payload shorter than file header")
		return nil, r.err
	}

	if code := r.beInt32(); code != fileCode {
		r.fail(models.ErrBadField, "bad file code")
		return nil, r.err
	}
	r.off = 24
	fileLen := int(r.beInt32()) * 2 // header stores 16-bit words
	if fileLen > len(buf) {
		r.fail(models.ErrUnexpectedEOF, "declared file length exceeds payload")
		return nil, r.err
	}
	r.off = 32
	if ht := r.leInt32(); ht != typePolygon {
		r.fail(models.ErrUnsupportedShapeType, "file header declares non-polygon shape type")
		return nil, r.err
	}
	r.off = headerSize

	var shapes []Shape
	for r.err == nil && r.off < fileLen {
		r.record = len(shapes)
		s, err := readRecord(r)
		if err != nil {
			return nil, err
		}
		s.Index = len(shapes)
		shapes = append(shapes, s)
	}
	if r.err != nil {
		return nil, r.err
	}
	return shapes, nil
}

func readRecord(r *payloadReader) (Shape, error) {
	r.beInt32() // record number, 1-based; storage order is authoritative
	contentLen := int(r.beInt32()) * 2

	contentStart := r.off

	shapeType := r.leInt32()
	if r.err == nil && shapeType != typePolygon {
		r.fail(models.ErrUnsupportedShapeType, "record declares non-polygon shape type")
	}

	minX := r.leFloat64()
	minY := r.leFloat64()
	maxX := r.leFloat64()
	maxY := r.leFloat64()

	numParts := int(r.leInt32())
	numPoints := int(r.leInt32())
	if r.err == nil && (numParts < 0 || numPoints < 0) {
		r.fail(models.ErrLengthMismatch, "negative part or point count")
	}
	if r.err != nil {
		return Shape{}, r.err
	}

	// Bound allocations by what the buffer can actually hold before
	// trusting the declared counts.
	if numParts*4+numPoints*16 > len(r.buf)-r.off {
		r.fail(models.ErrUnexpectedEOF, "declared counts exceed remaining payload")
		return Shape{}, r.err
	}

	parts := make([]int, numParts)
	for i := range parts {
		parts[i] = int(r.leInt32())
	}
	points := make([]orb.Point, numPoints)
	for i := range points {
		x := r.leFloat64()
		y := r.leFloat64()
		points[i] = orb.Point{x, y}
	}
	if r.err != nil {
		return Shape{}, r.err
	}

	if consumed := r.off - contentStart; consumed != contentLen {
		r.fail(models.ErrLengthMismatch, "record content length mismatch")
		return Shape{}, r.err
	}

	rings := make([]orb.Ring, 0, numParts)
	for i, start := range parts {
		end := numPoints
		if i+1 < numParts {
			end = parts[i+1]
		}
		if start < 0 || start > end || end > numPoints {
			r.fail(models.ErrLengthMismatch, "part offsets disagree with point count")
			return Shape{}, r.err
		}
		rings = append(rings, orb.Ring(points[start:end]))
	}

	return Shape{
		Rings: rings,
		BBox: orb.Bound{
			Min: orb.Point{minX, minY},
			Max: orb.Point{maxX, maxY},
		},
	}, nil
}
