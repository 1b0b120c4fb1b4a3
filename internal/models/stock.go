package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Condition is stored as a small integer and exposed as a string in the API.
type Condition int

const (
	ConditionUnused Condition = 0
	ConditionUsed   Condition = 1
)

func (c Condition) String() string {
	if c == ConditionUsed {
		return "used"
	}
	return "unused"
}

func ParseCondition(s string) (Condition, error) {
	switch s {
	case "unused":
		return ConditionUnused, nil
	case "used":
		return ConditionUsed, nil
	}
	return 0, fmt.Errorf("unknown condition %q", s)
}

func (c Condition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseCondition(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type Stock struct {
	ID                uint   `gorm:"primaryKey"`
	Name              string `gorm:"size:255;uniqueIndex"`
	ColorNumber       string `gorm:"size:255"`
	Quantity          int
	ManufacturingDate time.Time
	Condition         Condition `gorm:"not null;default:0"`
	StorehouseID      uint      `gorm:"index;not null"`
	Storehouse        Storehouse
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Files []StockFile `gorm:"constraint:OnDelete:CASCADE"`
}
