package models

import (
	"strconv"
	"time"
)

type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindDate
)

// Value is a tagged variant for decoded attribute fields. The attribute
// table declares a type tag per column; the tag is preserved here all the
// way through formatting instead of flattening everything to strings.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
	Date   time.Time
}

func TextValue(s string) Value {
	return Value{Kind: KindText, Text: s}
}

func NumberValue(f float64) Value {
	return Value{Kind: KindNumber, Number: f}
}

func DateValue(t time.Time) Value {
	return Value{Kind: KindDate, Date: t}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindDate:
		return v.Date.Format("2006-01-02")
	default:
		return v.Text
	}
}
