package models

import (
	"time"
)

// Factory represents a known production facility an order can be assigned to
type Factory struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Location  string    `json:"location"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Factory model
func (Factory) TableName() string {
	return "factories"
}
