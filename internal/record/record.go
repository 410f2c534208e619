// Package record defines the generic row representation exchanged with the
// storage layer. A Record is a flat field-name → value map; typed entities in
// internal/model are encoded to and decoded from Records at the persistence
// boundary, so storage backends never depend on entity shapes.
package record

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Record is a single flat row keyed by column name.
type Record map[string]any

// String returns the value under key rendered as a string, or "" when the
// field is absent or nil.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	return Format(v)
}

// FloatPtr returns the value under key as an optional float64. Absent, nil,
// empty, and unparseable values all yield nil; downstream imputation treats
// nil as missing.
func (r Record) FloatPtr(key string) *float64 {
	v, ok := r[key]
	if !ok || v == nil {
		return nil
	}
	switch t := v.(type) {
	case float64:
		f := t
		return &f
	case int:
		f := float64(t)
		return &f
	case int64:
		f := float64(t)
		return &f
	case *float64:
		if t == nil {
			return nil
		}
		f := *t
		return &f
	case *int:
		if t == nil {
			return nil
		}
		f := float64(*t)
		return &f
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return &f
		}
		return nil
	default:
		return nil
	}
}

// Int returns the value under key as an int; non-numeric values yield 0.
func (r Record) Int(key string) int {
	if f := r.FloatPtr(key); f != nil {
		return int(*f)
	}
	return 0
}

// Has reports whether the field exists with a non-nil, non-empty value.
// Typed nil pointers and values rendering to "" count as absent.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	return Format(v) != ""
}

// Format renders a value as the canonical string stored by backends. It
// avoids fmt.Sprint for the common scalar types on the hot path.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format(time.RFC3339)
	case *float64:
		if t == nil {
			return ""
		}
		return strconv.FormatFloat(*t, 'g', -1, 64)
	case *int:
		if t == nil {
			return ""
		}
		return strconv.Itoa(*t)
	case *time.Time:
		if t == nil {
			return ""
		}
		return t.Format(time.RFC3339)
	case *string:
		if t == nil {
			return ""
		}
		return *t
	default:
		return fmt.Sprint(t)
	}
}
