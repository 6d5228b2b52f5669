package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// RateTable maps a bucket key (country code or DEFAULT) to a rate, stored as jsonb.
type RateTable map[string]decimal.Decimal

// Value implements the driver.Valuer interface
func (t RateTable) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]decimal.Decimal(t))
}

// Scan implements the sql.Scanner interface
func (t *RateTable) Scan(value interface{}) error {
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	case nil:
		*t = RateTable{}
		return nil
	default:
		return fmt.Errorf("unsupported rate table type %T", value)
	}
	out := map[string]decimal.Decimal{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*t = out
	return nil
}

// UnmarshalJSON sets the JSON encoding
func (t *RateTable) UnmarshalJSON(data []byte) error {
	if t == nil {
		return errors.New("nil pointer")
	}
	out := map[string]decimal.Decimal{}
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	*t = out
	return nil
}

// Clone returns an independent copy of the table.
func (t RateTable) Clone() RateTable {
	out := make(RateTable, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
