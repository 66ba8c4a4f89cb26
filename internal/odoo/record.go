package odoo

import (
	"reflect"
	"time"
)

// odooTimeLayout is how Odoo formats write_date and friends over XML-RPC.
const odooTimeLayout = "2006-01-02 15:04:05"

// Record is one row returned by the ERP. Odoo's wire format is dynamically
// typed: empty text fields come back as boolean false, many2one references
// as [id, display_name] pairs. The accessors below absorb that.
type Record map[string]interface{}

// ID returns the record's id field.
func (r Record) ID() int64 {
	n, _ := toInt64(r["id"])
	return n
}

// Str returns a text field, mapping Odoo's false-for-empty to "".
func (r Record) Str(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	default:
		return ""
	}
}

// Float returns a numeric field as float64.
func (r Record) Float(key string) float64 {
	switch v := r[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		n, _ := toInt64(r[key])
		return float64(n)
	}
}

// Int returns a numeric field truncated to int64.
func (r Record) Int(key string) int64 {
	if f, ok := r[key].(float64); ok {
		return int64(f)
	}
	n, _ := toInt64(r[key])
	return n
}

// Many2One unpacks an [id, name] reference field. ok is false when the
// field is unset (Odoo sends false).
func (r Record) Many2One(key string) (id int64, name string, ok bool) {
	pair, isSlice := r[key].([]interface{})
	if !isSlice || len(pair) < 2 {
		return 0, "", false
	}
	id, ok = toInt64(pair[0])
	if !ok {
		return 0, "", false
	}
	name, _ = pair[1].(string)
	return id, name, true
}

// Time parses a datetime field. Odoo usually sends strings, but the XML-RPC
// layer may decode dateTime values natively.
func (r Record) Time(key string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case string:
		t, err := time.Parse(odooTimeLayout, v)
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	default:
		return time.Time{}, false
	}
}

// toInt64 converts any numeric kind to int64.
func toInt64(v interface{}) (int64, bool) {
	if v == nil {
		return 0, false
	}
	val := reflect.ValueOf(v)
	switch val.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return val.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(val.Uint()), true
	case reflect.Float32, reflect.Float64:
		return int64(val.Float()), true
	}
	return 0, false
}
