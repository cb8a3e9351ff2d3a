// Package dataset ties the two alert payloads together into an immutable
// in-memory Dataset and runs point lookups against it.
package dataset

import (
	"github.com/paulmach/orb"

	"github.com/mr1hm/go-wx-alerts/internal/dbase"
	"github.com/mr1hm/go-wx-alerts/internal/match"
	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/shapefile"
)

// Dataset holds both parsed payloads. Nothing is mutated after Parse;
// concurrent lookups need no locking.
type Dataset struct {
	Shapes  []shapefile.Shape
	Records []*models.AlertRecord
}

// Parse decodes both payloads and enforces the 1:1 ordinal join: the shape
// count must equal the attribute slot count (live plus soft-deleted), or
// any containment hit could resolve to the wrong alert text.
func Parse(shpBuf, dbfBuf []byte) (*Dataset, error) {
	shapes, err := shapefile.Read(shpBuf)
	if err != nil {
		return nil, err
	}

	table, err := dbase.Read(dbfBuf)
	if err != nil {
		return nil, err
	}

	if len(shapes) != len(table.Records) {
		return nil, &models.DataIntegrityError{
			Index:  len(table.Records),
			Detail: "shape and attribute payloads disagree on record count",
		}
	}

	return &Dataset{Shapes: shapes, Records: table.Records}, nil
}

// Lookup returns the matches for a coordinate, in shape storage order.
// Zero matches is a normal empty result, not an error.
func (d *Dataset) Lookup(lat, lon float64) ([]models.MatchResult, error) {
	return match.Alerts(d.Shapes, d.Records, orb.Point{lon, lat})
}

// LookupText returns each match rendered as its display block.
func (d *Dataset) LookupText(lat, lon float64) ([]string, error) {
	results, err := d.Lookup(lat, lon)
	if err != nil {
		return nil, err
	}
	blocks := make([]string, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, match.Format(res))
	}
	return blocks, nil
}
