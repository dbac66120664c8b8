package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Project is an opaque submitted payload. The bot never inspects the data,
// it only stores it and reads it back most-recent-first.
type Project struct {
	ID        uint    `gorm:"primaryKey"`
	Data      JSONMap `gorm:"type:jsonb"`
	CreatedAt time.Time
}

// JSONMap stores an arbitrary JSON object in a jsonb column.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		m = JSONMap{}
	}
	return json.Marshal(m)
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}
