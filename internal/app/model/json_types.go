package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is a string list stored as a JSON array column. Scanning
// tolerates NULL and malformed payloads by yielding the empty slice, so
// rows damaged by manual edits still load; the repair script rewrites
// such columns to '[]'.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *StringSlice) Scan(value interface{}) error {
	b, err := jsonColumnBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*s = StringSlice{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(b, &out); err != nil {
		*s = StringSlice{}
		return nil
	}
	*s = out
	return nil
}

func (StringSlice) GormDataType() string {
	return "json"
}

// UintSlice is an id list stored as a JSON array column, used for the
// denormalized ProductIDs and ChildCollectionIDs caches on collections.
type UintSlice []uint

func (s UintSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]uint(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (s *UintSlice) Scan(value interface{}) error {
	b, err := jsonColumnBytes(value)
	if err != nil {
		return err
	}
	if len(b) == 0 {
		*s = UintSlice{}
		return nil
	}
	var out []uint
	if err := json.Unmarshal(b, &out); err != nil {
		*s = UintSlice{}
		return nil
	}
	*s = out
	return nil
}

func (UintSlice) GormDataType() string {
	return "json"
}

// Contains reports whether id is present in the slice.
func (s UintSlice) Contains(id uint) bool {
	for _, v := range s {
		if v == id {
			return true
		}
	}
	return false
}

// EqualSet reports order-independent equality with other.
func (s UintSlice) EqualSet(other UintSlice) bool {
	if len(s) != len(other) {
		return false
	}
	seen := make(map[uint]int, len(s))
	for _, v := range s {
		seen[v]++
	}
	for _, v := range other {
		seen[v]--
		if seen[v] < 0 {
			return false
		}
	}
	return true
}

func jsonColumnBytes(value interface{}) ([]byte, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported JSON column type %T", value)
	}
}
