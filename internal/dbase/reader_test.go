package dbase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/testutil"
)

var testFields = []testutil.DBFField{
	{Name: "PROD_TYPE", Type: 'C', Length: 30},
	{Name: "WFO", Type: 'C', Length: 20},
	{Name: "SIG_LEVEL", Type: 'N', Length: 8, Decimals: 2},
	{Name: "ISSUED_ON", Type: 'D', Length: 8},
}

func TestRead_RoundTrip(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"Heat Advisory", "NWS Gray ME", "  2.50", "20230722"}},
		{Cells: []string{"Winter Storm Warning", "NWS Caribou ME", "", ""}},
	})

	table, err := Read(buf)
	require.NoError(t, err)
	require.Len(t, table.Records, 2)
	assert.Equal(t, 2, table.Live())

	require.Len(t, table.Fields, 4)
	assert.Equal(t, "PROD_TYPE", table.Fields[0].Name)
	assert.Equal(t, byte('N'), table.Fields[2].Type)
	assert.Equal(t, 2, table.Fields[2].Decimals)

	rec := table.Records[0]
	assert.Equal(t, 0, rec.Index)
	assert.Equal(t, "Heat Advisory", rec.Text(models.FieldProdType))
	assert.Equal(t, "NWS Gray ME", rec.Text(models.FieldOffice))
	assert.Equal(t, models.NumberValue(2.5), rec.Fields["SIG_LEVEL"])
	assert.Equal(t,
		models.DateValue(time.Date(2023, 7, 22, 0, 0, 0, 0, time.UTC)),
		rec.Fields["ISSUED_ON"])

	// Blank numeric and date cells are absent values, not zero values.
	rec = table.Records[1]
	_, ok := rec.Fields["SIG_LEVEL"]
	assert.False(t, ok)
	_, ok = rec.Fields["ISSUED_ON"]
	assert.False(t, ok)
}

func TestRead_SoftDeletedPreservesSlot(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"First", "AAA", "", ""}},
		{Deleted: true, Cells: []string{"Gone", "BBB", "", ""}},
		{Cells: []string{"Third", "CCC", "", ""}},
	})

	table, err := Read(buf)
	require.NoError(t, err)

	require.Len(t, table.Records, 3)
	assert.Equal(t, 2, table.Live())
	assert.Nil(t, table.Records[1])

	// The live record after the deleted slot keeps its ordinal index.
	require.NotNil(t, table.Records[2])
	assert.Equal(t, 2, table.Records[2].Index)
	assert.Equal(t, "Third", table.Records[2].Text(models.FieldProdType))
}

func TestRead_BadNumericField(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"First", "AAA", "oops", ""}},
	})

	_, err := Read(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBadField)

	var ferr *models.FormatError
	require.ErrorAs(t, err, &ferr)
	assert.Equal(t, "dbf", ferr.Payload)
	assert.Equal(t, 0, ferr.Record)
}

func TestRead_BadDateField(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"First", "AAA", "", "2023XX22"}},
	})

	_, err := Read(buf)
	assert.ErrorIs(t, err, models.ErrBadField)
}

func TestRead_UnknownTypeTag(t *testing.T) {
	fields := []testutil.DBFField{
		{Name: "BLOB_COL", Type: 'M', Length: 10},
	}
	buf := testutil.BuildDBF(fields, nil)

	_, err := Read(buf)
	assert.ErrorIs(t, err, models.ErrBadField)
}

func TestRead_Truncated(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"First", "AAA", "", ""}},
		{Cells: []string{"Second", "BBB", "", ""}},
	})

	// Cut into the last record (the payload ends with a 1-byte EOF marker).
	_, err := Read(buf[:len(buf)-2])
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)

	_, err = Read(buf[:16])
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)
}

func TestRead_RecordSizeMismatch(t *testing.T) {
	buf := testutil.BuildDBF(testFields, nil)
	buf[10]++ // inflate declared record size

	_, err := Read(buf)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrLengthMismatch)
}

func TestRead_DoesNotPanicOnArbitraryTruncation(t *testing.T) {
	buf := testutil.BuildDBF(testFields, []testutil.DBFRecord{
		{Cells: []string{"First", "AAA", "1.5", "20230722"}},
	})

	// Stop short of cutting only the trailing EOF marker, which still
	// leaves a complete table.
	for cut := 0; cut < len(buf)-1; cut++ {
		_, err := Read(buf[:cut])
		if err == nil {
			t.Fatalf("cut at %d: expected an error", cut)
		}
		var ferr *models.FormatError
		if !errors.As(err, &ferr) {
			t.Fatalf("cut at %d: expected FormatError, got %v", cut, err)
		}
	}
}
