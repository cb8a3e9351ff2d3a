package models

// Attribute field names carried by the NWS watch/warning/advisory shapefile
// sidecar table.
const (
	FieldCAPID      = "CAP_ID"
	FieldProdType   = "PROD_TYPE"
	FieldIssuance   = "ISSUANCE"
	FieldExpiration = "EXPIRATION"
	FieldOffice     = "WFO"
	FieldAreas      = "AREA_DESC"
	FieldMessage    = "MSG"
	FieldURL        = "URL"
)

// AlertRecord is one attribute-table row, keyed by the same ordinal index
// as its shape.
type AlertRecord struct {
	Index  int
	Fields map[string]Value
}

// Text returns the string rendering of a named field, or "" when the field
// is absent.
func (r *AlertRecord) Text(name string) string {
	v, ok := r.Fields[name]
	if !ok {
		return ""
	}
	return v.String()
}

// MatchResult pairs a shape's ordinal index with its resolved attribute
// record. Emitted only when containment succeeds.
type MatchResult struct {
	Index  int
	Record *AlertRecord
}
