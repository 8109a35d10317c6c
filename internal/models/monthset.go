package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

// MonthSet is an optional set of calendar months (1..12). A nil set means
// "every month" and is stored as NULL; otherwise it is stored as a JSON array.
type MonthSet []int

// Applies reports whether month m is covered by the set.
func (s MonthSet) Applies(m int) bool {
	if len(s) == 0 {
		return true
	}
	return slices.Contains(s, m)
}

// Valid reports whether every entry is a month number.
func (s MonthSet) Valid() bool {
	for _, m := range s {
		if m < 1 || m > 12 {
			return false
		}
	}
	return true
}

// Value implements driver.Valuer.
func (s MonthSet) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	data, err := json.Marshal([]int(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (s *MonthSet) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("month set: unsupported column type %T", src)
	}
	if len(raw) == 0 || string(raw) == "null" {
		*s = nil
		return nil
	}
	var months []int
	if err := json.Unmarshal(raw, &months); err != nil {
		return fmt.Errorf("month set: %w", err)
	}
	*s = months
	return nil
}

// GormDataType keeps the column as text on every dialect.
func (MonthSet) GormDataType() string {
	return "text"
}
