package model

import "time"

// AgentAddress is the registered-agent mailing address for one U.S. state.
// State holds the full state name and is unique across the registry.
type AgentAddress struct {
	ID            string    `json:"id"`
	State         string    `json:"state"`
	StreetAddress string    `json:"street_address"`
	City          string    `json:"city"`
	ZipCode       string    `json:"zip_code"`
	PhoneNumber   string    `json:"phone_number"`
	BusinessHours string    `json:"business_hours"`
	IsActive      bool      `json:"is_active"`
	VerifiedDate  time.Time `json:"verified_date"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
