package dataset

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/testutil"
)

var alertFields = []testutil.DBFField{
	{Name: "CAP_ID", Type: 'C', Length: 50},
	{Name: "PROD_TYPE", Type: 'C', Length: 30},
	{Name: "ISSUANCE", Type: 'C', Length: 25},
	{Name: "EXPIRATION", Type: 'C', Length: 25},
	{Name: "WFO", Type: 'C', Length: 20},
	{Name: "AREA_DESC", Type: 'C', Length: 100},
}

func rect(minX, minY, maxX, maxY float64) orb.Ring {
	return orb.Ring{
		{minX, minY},
		{maxX, minY},
		{maxX, maxY},
		{minX, maxY},
		{minX, minY},
	}
}

// nhCoastPayloads builds the New Hampshire / Maine coastal scenario: one
// rectangular Heat Advisory shape with its attribute record.
func nhCoastPayloads(t *testing.T, deleted bool) ([]byte, []byte) {
	t.Helper()

	shp := testutil.BuildSHP([][]orb.Ring{
		{rect(-71.5, 42.5, -70.5, 43.5)},
	})
	dbf := testutil.BuildDBF(alertFields, []testutil.DBFRecord{
		{
			Deleted: deleted,
			Cells: []string{
				"urn:oid:2.49.0.1.840.0.123",
				"Heat Advisory",
				"2023-07-22T14:51:00-04:00",
				"2023-07-24T20:00:00-04:00",
				"NWS Gray ME",
				"Interior York;Strafford",
			},
		},
	})
	return shp, dbf
}

func TestParse_RecordCountMismatch(t *testing.T) {
	shp := testutil.BuildSHP([][]orb.Ring{
		{rect(0, 0, 1, 1)},
		{rect(2, 2, 3, 3)},
	})
	dbf := testutil.BuildDBF(alertFields, []testutil.DBFRecord{
		{Cells: []string{"", "Only One", "", "", "", ""}},
	})

	_, err := Parse(shp, dbf)
	require.Error(t, err)

	var integrity *models.DataIntegrityError
	assert.ErrorAs(t, err, &integrity)
}

func TestParse_DeletedSlotStillCounts(t *testing.T) {
	// A soft-deleted attribute record keeps its slot, so counts align.
	shp, dbf := nhCoastPayloads(t, true)

	ds, err := Parse(shp, dbf)
	require.NoError(t, err)
	require.Len(t, ds.Records, 1)
	assert.Nil(t, ds.Records[0])
}

func TestLookup_EndToEnd(t *testing.T) {
	shp, dbf := nhCoastPayloads(t, false)

	ds, err := Parse(shp, dbf)
	require.NoError(t, err)

	blocks, err := ds.LookupText(43.2683199, -70.8635506)
	require.NoError(t, err)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0], "Heat Advisory issued 2023-07-22T14:51:00-04:00 until 2023-07-24T20:00:00-04:00 by NWS Gray ME")
	assert.Contains(t, blocks[0], "Interior York; Strafford")

	// A point far outside yields an empty result, not an error.
	blocks, err = ds.LookupText(0, 0)
	require.NoError(t, err)
	assert.Empty(t, blocks)
}

func TestLookup_HitOnDeletedRecord(t *testing.T) {
	shp, dbf := nhCoastPayloads(t, true)

	ds, err := Parse(shp, dbf)
	require.NoError(t, err)

	_, err = ds.Lookup(43.2683199, -70.8635506)
	require.Error(t, err)

	var integrity *models.DataIntegrityError
	assert.ErrorAs(t, err, &integrity)
}

func TestParse_PropagatesFormatErrors(t *testing.T) {
	shp, dbf := nhCoastPayloads(t, false)

	_, err := Parse(shp[:len(shp)-1], dbf)
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)

	_, err = Parse(shp, dbf[:30])
	assert.ErrorIs(t, err, models.ErrUnexpectedEOF)
}
