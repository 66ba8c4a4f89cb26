package odoo

import (
	"testing"
	"time"
)

func TestRecordStrMapsFalseToEmpty(t *testing.T) {
	rec := Record{"name": "Intro Biology", "description_sale": false}

	if got := rec.Str("name"); got != "Intro Biology" {
		t.Errorf("Str(name) = %q", got)
	}
	if got := rec.Str("description_sale"); got != "" {
		t.Errorf("Str on false field = %q, want empty", got)
	}
	if got := rec.Str("missing"); got != "" {
		t.Errorf("Str on missing field = %q, want empty", got)
	}
}

func TestRecordNumeric(t *testing.T) {
	rec := Record{"id": int64(42), "list_price": 12.5, "qty_available": 5.0}

	if got := rec.ID(); got != 42 {
		t.Errorf("ID() = %d", got)
	}
	if got := rec.Float("list_price"); got != 12.5 {
		t.Errorf("Float(list_price) = %v", got)
	}
	if got := rec.Int("qty_available"); got != 5 {
		t.Errorf("Int(qty_available) = %d", got)
	}

	// The XML-RPC layer may decode ids as int rather than int64.
	rec2 := Record{"id": 7}
	if got := rec2.ID(); got != 7 {
		t.Errorf("ID() on int = %d", got)
	}
}

func TestRecordMany2One(t *testing.T) {
	rec := Record{
		"categ_id": []interface{}{int64(3), "Textbooks"},
		"unset":    false,
	}

	id, name, ok := rec.Many2One("categ_id")
	if !ok || id != 3 || name != "Textbooks" {
		t.Errorf("Many2One = (%d, %q, %v)", id, name, ok)
	}

	if _, _, ok := rec.Many2One("unset"); ok {
		t.Error("Many2One on false field should report not ok")
	}
	if _, _, ok := rec.Many2One("missing"); ok {
		t.Error("Many2One on missing field should report not ok")
	}
}

func TestRecordTime(t *testing.T) {
	rec := Record{
		"write_date": "2025-06-01 10:30:00",
		"native":     time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC),
		"unset":      false,
		"garbage":    "not a date",
	}

	got, ok := rec.Time("write_date")
	want := time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)
	if !ok || !got.Equal(want) {
		t.Errorf("Time(write_date) = (%v, %v)", got, ok)
	}

	got, ok = rec.Time("native")
	if !ok || !got.Equal(want) {
		t.Errorf("Time(native) = (%v, %v)", got, ok)
	}

	if _, ok := rec.Time("unset"); ok {
		t.Error("Time on false field should report not ok")
	}
	if _, ok := rec.Time("garbage"); ok {
		t.Error("Time on malformed string should report not ok")
	}
}
