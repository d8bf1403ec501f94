package factory

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	apierrors "github.com/takedah/ash-unofficial-covid19-sub000/internal/errors"
	"github.com/takedah/ash-unofficial-covid19-sub000/internal/extract"
)

func invalid(field string, value any, reason string) error {
	return &apierrors.ValidationError{Field: field, Value: value, Reason: reason}
}

// intField accepts an int or a string holding a base-10 integer.
func intField(row extract.Row, field string) (int, error) {
	switch v := row[field].(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalid(field, v, "not an integer")
		}
		return n, nil
	case nil:
		return 0, invalid(field, nil, "required")
	default:
		return 0, invalid(field, v, fmt.Sprintf("unexpected type %T", v))
	}
}

// dateField accepts a time.Time, a *time.Time or nil. Strings are rejected
// even when they look like dates.
func dateField(row extract.Row, field string) (*time.Time, error) {
	switch v := row[field].(type) {
	case nil:
		return nil, nil
	case *time.Time:
		if v == nil {
			return nil, nil
		}
		d := *v
		return &d, nil
	case time.Time:
		return &v, nil
	default:
		return nil, invalid(field, v, "not a date")
	}
}

// requiredDate is dateField for key columns.
func requiredDate(row extract.Row, field string) (time.Time, error) {
	d, err := dateField(row, field)
	if err != nil {
		return time.Time{}, err
	}
	if d == nil {
		return time.Time{}, invalid(field, nil, "required")
	}
	return *d, nil
}

// triState accepts true, false or nil.
func triState(row extract.Row, field string) (*bool, error) {
	switch v := row[field].(type) {
	case nil:
		return nil, nil
	case *bool:
		if v == nil {
			return nil, nil
		}
		b := *v
		return &b, nil
	case bool:
		return &v, nil
	default:
		return nil, invalid(field, v, "not true, false or null")
	}
}

// boolField is a two-state flag; an absent value is false.
func boolField(row extract.Row, field string) (bool, error) {
	b, err := triState(row, field)
	if err != nil || b == nil {
		return false, err
	}
	return *b, nil
}

func stringField(row extract.Row, field string) (string, error) {
	switch v := row[field].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", invalid(field, v, fmt.Sprintf("unexpected type %T", v))
	}
}

// floatField accepts a float, a *float or nil.
func floatField(row extract.Row, field string) (*float64, error) {
	switch v := row[field].(type) {
	case nil:
		return nil, nil
	case *float64:
		if v == nil {
			return nil, nil
		}
		f := *v
		return &f, nil
	case float64:
		return &v, nil
	default:
		return nil, invalid(field, v, "not a number")
	}
}

// reader reads typed columns from a row and keeps the first error.
type reader struct {
	row extract.Row
	err error
}

func (r *reader) str(field string) string {
	if r.err != nil {
		return ""
	}
	s, err := stringField(r.row, field)
	r.err = err
	return s
}

func (r *reader) integer(field string) int {
	if r.err != nil {
		return 0
	}
	n, err := intField(r.row, field)
	r.err = err
	return n
}

func (r *reader) date(field string) *time.Time {
	if r.err != nil {
		return nil
	}
	d, err := dateField(r.row, field)
	r.err = err
	return d
}

func (r *reader) requiredDate(field string) time.Time {
	if r.err != nil {
		return time.Time{}
	}
	d, err := requiredDate(r.row, field)
	r.err = err
	return d
}

func (r *reader) triState(field string) *bool {
	if r.err != nil {
		return nil
	}
	b, err := triState(r.row, field)
	r.err = err
	return b
}

func (r *reader) flag(field string) bool {
	if r.err != nil {
		return false
	}
	b, err := boolField(r.row, field)
	r.err = err
	return b
}

func (r *reader) float(field string) *float64 {
	if r.err != nil {
		return nil
	}
	f, err := floatField(r.row, field)
	r.err = err
	return f
}
