package models

import (
	"strconv"
	"time"
)

// FieldChange is one field's before and after value, rendered as opaque strings.
// A nil value means the field was unset.
type FieldChange struct {
	Field    string  `json:"field"`
	OldValue *string `json:"old_value"`
	NewValue *string `json:"new_value"`
}

// changeCollector accumulates field changes in the order they are checked.
type changeCollector struct {
	changes []FieldChange
}

func (c *changeCollector) add(field string, oldValue, newValue *string) {
	if equalPtr(oldValue, newValue) {
		return
	}
	c.changes = append(c.changes, FieldChange{Field: field, OldValue: oldValue, NewValue: newValue})
}

func (c *changeCollector) str(field string, dst *string, src *string) {
	if src == nil {
		return
	}
	c.add(field, textValue(*dst), textValue(*src))
	*dst = *src
}

func (c *changeCollector) ref(field string, dst **string, src *string) {
	if src == nil {
		return
	}
	next := nonEmpty(src)
	c.add(field, derefCopy(*dst), derefCopy(next))
	*dst = next
}

func (c *changeCollector) num(field string, dst *float64, src *float64) {
	if src == nil {
		return
	}
	c.add(field, FormatNumber(*dst), FormatNumber(*src))
	*dst = *src
}

func (c *changeCollector) date(field string, dst **time.Time, src *time.Time) {
	if src == nil {
		return
	}
	c.add(field, formatDate(*dst), formatDate(src))
	t := *src
	*dst = &t
}

// FormatNumber renders a number the way audit rows store it.
func FormatNumber(v float64) *string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	return &s
}

func textValue(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefCopy(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format("2006-01-02")
	return &s
}

func equalPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }
