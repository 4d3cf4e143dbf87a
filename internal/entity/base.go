package entity

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type SnowFlakeBase struct {
	ID        int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Array[T any] []T

func (a *Array[T]) Scan(obj any) error {
	switch t := obj.(type) {
	case string:
		return json.Unmarshal([]byte(t), a)
	case []byte:
		return json.Unmarshal(t, a)
	case nil:
		*a = nil
		return nil
	}

	return fmt.Errorf("cannot scan invalid data type %T", obj)
}

func (a Array[T]) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}

	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}

// Flags is a set of string keys stored as a JSON object of booleans.
type Flags map[string]bool

func (m *Flags) Scan(value any) error {
	switch t := value.(type) {
	case string:
		return json.Unmarshal([]byte(t), m)
	case []byte:
		return json.Unmarshal(t, m)
	case nil:
		*m = nil
		return nil
	default:
		return fmt.Errorf("cannot scan invalid data type %T", value)
	}
}

func (m Flags) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}

	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}

	return string(b), nil
}
