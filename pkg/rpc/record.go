package rpc

import (
	"encoding/json"
	"math"
)

// Record is an untyped key/value record returned by the remote system.
// Unknown fields are carried opaquely; accessors validate only the fields a
// caller explicitly asks for. The remote side reports unset fields as a JSON
// false rather than null or an empty string, and the accessors treat that
// sentinel as absence.
type Record map[string]any

// DecodeRecords decodes a raw result into a record list. A result that is not
// a JSON array decodes to an empty list, never an error.
func DecodeRecords(raw json.RawMessage) []Record {
	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return []Record{}
	}
	if records == nil {
		return []Record{}
	}
	return records
}

// String returns the named field as a string. The false sentinel and missing
// fields yield the empty string.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}

// Int returns the named field as an int64. Only integral JSON numbers
// qualify; the false sentinel, fractions, and missing fields yield 0.
func (r Record) Int(field string) int64 {
	v, ok := r[field]
	if !ok {
		return 0
	}
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) {
		return 0
	}
	return int64(f)
}

// Float returns the named field as a float64, or 0 when absent or unset.
func (r Record) Float(field string) float64 {
	v, ok := r[field]
	if !ok {
		return 0
	}
	f, ok := v.(float64)
	if !ok {
		return 0
	}
	return f
}

// Bool returns the named field as a boolean.
func (r Record) Bool(field string) bool {
	v, ok := r[field]
	if !ok {
		return false
	}
	b, ok := v.(bool)
	if !ok {
		return false
	}
	return b
}

// ID returns the record's id field.
func (r Record) ID() int64 {
	return r.Int("id")
}

// Many2One returns the id and display name of a relational field, which the
// remote side encodes as a two-element [id, name] array (or false when
// unset). ok is false when the field is unset or malformed.
func (r Record) Many2One(field string) (id int64, name string, ok bool) {
	v, present := r[field]
	if !present {
		return 0, "", false
	}
	pair, isList := v.([]any)
	if !isList || len(pair) != 2 {
		return 0, "", false
	}
	f, isNum := pair[0].(float64)
	if !isNum {
		return 0, "", false
	}
	name, _ = pair[1].(string)
	return int64(f), name, true
}
