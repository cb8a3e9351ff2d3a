package shapefile

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/testutil"
)

func square(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}
}

func TestRead_RoundTrip(t *testing.T) {
	outer := square(0, 0, 10, 10)
	hole := square(4, 4, 6, 6)
	second := square(20, 20, 30, 30)

	buf := testutil.BuildSHP([][]orb.Ring{
		{outer, hole},
		{second},
	})

	shapes, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, shapes, 2)

	assert.Equal(t, 0, shapes[0].Index)
	require.Len(t, shapes[0].Rings, 2)
	assert.Equal(t, outer, shapes[0].Rings[0])
	assert.Equal(t, hole, shapes[0].Rings[1])
	assert.Equal(t, orb.Point{0, 0}, shapes[0].BBox.Min)
	assert.Equal(t, orb.Point{10, 10}, shapes[0].BBox.Max)

	assert.Equal(t, 1, shapes[1].Index)
	require.Len(t, shapes[1].Rings, 1)
	assert.Equal(t, second, shapes[1].Rings[0])
}

func TestRead_EmptyPayload(t *testing.T) {
	_, err := Read(nil)
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)

	_, err = Read(make([]byte, 50))
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)
}

func TestRead_TruncatedOneByteShort(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 1, 1)}})

	_, err := Read(buf[:len(buf)-1])
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)

	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "shp", ferr.Payload)
}

func TestRead_UnsupportedRecordShapeType(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 1, 1)}})

	// First record's content begins after the 100-byte file header and the
	// 8-byte record header; patch its declared shape type to PolyLine (3).
	binary.LittleEndian.PutUint32(buf[108:112], 3)

	_, err := Read(buf)
	assert.ErrorIs(t, err, models.ErrUnsupportedShapeType)
}

func TestRead_UnsupportedHeaderShapeType(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 1, 1)}})
	binary.LittleEndian.PutUint32(buf[32:36], 1) // Point

	_, err := Read(buf)
	assert.ErrorIs(t, err, models.ErrUnsupportedShapeType)
}

func TestRead_LengthMismatch(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 1, 1)}, {square(2, 2, 3, 3)}})

	// Inflate the first record's declared content length.
	declared := binary.BigEndian.Uint32(buf[104:108])
	binary.BigEndian.PutUint32(buf[104:108], declared+2)

	_, err := Read(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLengthMismatch)

	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, 0, ferr.Record)
}

func TestRead_BadFileCode(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 1, 1)}})
	binary.BigEndian.PutUint32(buf[0:4], 1234)

	_, err := Read(buf)
	assert.ErrorIs(t, err, models.ErrBadField)
}

func TestRead_NoRecords(t *testing.T) {
	buf := testutil.BuildSHP(nil)

	shapes, err := Read(buf)
	require.NoError(t, err)
	assert.Empty(t, shapes)
}

func TestRead_ErrorsDoNotPanic(t *testing.T) {
	buf := testutil.BuildSHP([][]orb.Ring{{square(0, 0, 5, 5)}})

	// Every possible truncation point must fail cleanly, never panic.
	for cut := 0; cut < len(buf); cut++ {
		_, err := Read(buf[:cut])
		if !errors.Is(err, models.ErrUnexpectedEOF) {
			t.Fatalf("cut at %d: expected UnexpectedEof, got %v", cut, err)
		}
	}
}
