package dbmodels

import (
	"database/sql/driver"
	"encoding/json"
)

// EntityChanges captures the before/after diff recorded with every asset
// mutation.
type EntityChanges struct {
	Description string         `json:"description"`
	Data        []FieldChanges `json:"data"`
}

type FieldChanges struct {
	Field    string `json:"field"`
	OldValue any    `json:"old_value"`
	NewValue any    `json:"new_value"`
}

func (j EntityChanges) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *EntityChanges) Scan(value any) error {
	return scanJSON(value, j)
}

// StringSlice stores a list of opaque keys (for example uploaded receipt
// object names) as a JSON column.
type StringSlice []string

func (j StringSlice) Value() (driver.Value, error) {
	valueString, err := json.Marshal(j)
	return string(valueString), err
}

func (j *StringSlice) Scan(value any) error {
	return scanJSON(value, j)
}

func scanJSON(value any, out any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, out)
	case string:
		return json.Unmarshal([]byte(v), out)
	}
	return nil
}
