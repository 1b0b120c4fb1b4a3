package models

import "time"

// StockFile is a binary attachment owned by a stock. Only the first attachment
// is surfaced in API responses; attachments are removed with their stock.
type StockFile struct {
	ID        uint   `gorm:"primaryKey"`
	StockID   uint   `gorm:"index;not null"`
	Filename  string `gorm:"size:255"`
	Data      []byte
	CreatedAt time.Time
}
