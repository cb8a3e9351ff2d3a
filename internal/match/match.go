// Package match joins shapes to their attribute records for a query point
// and renders each hit as a display block.
package match

import (
	"fmt"
	"strings"

	"github.com/paulmach/orb"

	"github.com/mr1hm/go-wx-alerts/internal/geo"
	"github.com/mr1hm/go-wx-alerts/internal/models"
	"github.com/mr1hm/go-wx-alerts/internal/shapefile"
)

// Alerts tests pt against every shape in storage order and resolves each
// hit's attribute record by ordinal index. Results preserve storage order;
// no deduplication or reordering happens. A hit at an index with no live
// attribute record is a DataIntegrityError: the payloads promise a 1:1
// join, so a missing record means the dataset is corrupt and partial
// results would risk attaching the wrong text to a shape.
func Alerts(shapes []shapefile.Shape, records []*models.AlertRecord, pt orb.Point) ([]models.MatchResult, error) {
	var results []models.MatchResult
	for _, s := range shapes {
		// The record bounding box is a cheap pre-filter only; containment
		// is decided by the rings.
		if !s.BBox.Contains(pt) {
			continue
		}
		if !geo.Contains(s.Rings, pt) {
			continue
		}

		if s.Index >= len(records) {
			return nil, &models.DataIntegrityError{
				Index:  s.Index,
				Detail: "matched shape index beyond attribute record count",
			}
		}
		rec := records[s.Index]
		if rec == nil {
			return nil, &models.DataIntegrityError{
				Index:  s.Index,
				Detail: "matched shape joins to a soft-deleted attribute record",
			}
		}
		results = append(results, models.MatchResult{Index: s.Index, Record: rec})
	}
	return results, nil
}

// Format renders one match as a multi-line block: a headline line, the
// warning body when present, and the affected-area list.
func Format(res models.MatchResult) string {
	rec := res.Record

	var b strings.Builder
	fmt.Fprintf(&b, "%s issued %s until %s by %s\n",
		rec.Text(models.FieldProdType),
		rec.Text(models.FieldIssuance),
		rec.Text(models.FieldExpiration),
		rec.Text(models.FieldOffice),
	)

	if msg := rec.Text(models.FieldMessage); msg != "" {
		b.WriteString("\n")
		b.WriteString(msg)
		b.WriteString("\n")
	}

	if areas := FormatAreas(rec.Text(models.FieldAreas)); areas != "" {
		b.WriteString("\n")
		b.WriteString(areas)
		b.WriteString("\n")
	}

	return b.String()
}

// FormatAreas normalizes the semicolon-packed affected-area field into a
// "name; name" list.
func FormatAreas(raw string) string {
	if raw == "" {
		return ""
	}
	parts := strings.Split(raw, ";")
	names := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return strings.Join(names, "; ")
}
