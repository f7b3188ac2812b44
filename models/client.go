package models

import (
	"time"
)

// Client represents a customer company whose orders are tracked in the CRM
type Client struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Company   string    `json:"company"`
	Email     string    `gorm:"index" json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clients"
}

// DisplayName is the company name, or the contact name when no company is set
func (c Client) DisplayName() string {
	if c.Company != "" {
		return c.Company
	}
	return c.Name
}
