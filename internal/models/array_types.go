package models

import (
	"database/sql/driver"

	"github.com/lib/pq"
)

// IntArray is a custom type for handling INTEGER[] arrays in PostgreSQL
type IntArray []int

// Value implements the driver.Valuer interface
func (a IntArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	out := make(pq.Int64Array, len(a))
	for i, v := range a {
		out[i] = int64(v)
	}
	return out.Value()
}

// Scan implements the sql.Scanner interface
func (a *IntArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var raw pq.Int64Array
	if err := raw.Scan(src); err != nil {
		return err
	}
	out := make(IntArray, len(raw))
	for i, v := range raw {
		out[i] = int(v)
	}
	*a = out
	return nil
}

// StringArray is a custom type for handling TEXT[] arrays in PostgreSQL
type StringArray []string

// Value implements the driver.Valuer interface
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return nil, nil
	}
	return pq.StringArray(a).Value()
}

// Scan implements the sql.Scanner interface
func (a *StringArray) Scan(src interface{}) error {
	if src == nil {
		*a = nil
		return nil
	}
	var raw pq.StringArray
	if err := raw.Scan(src); err != nil {
		return err
	}
	*a = StringArray(raw)
	return nil
}
