package model

import "time"

// BusinessEntity is the client company the agent acts for. It is owned by the host
// application; this service only reads it and records the mailbox address it configures.
type BusinessEntity struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	EntityType       string    `json:"entity_type"`
	State            string    `json:"state"`
	ContactEmail     string    `json:"contact_email"`
	MailboxAddress   string    `json:"mailbox_address,omitempty"`
	MailboxAddressID string    `json:"mailbox_address_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// MailboxAddress is the result of configuring a virtual mailbox address for an entity.
type MailboxAddress struct {
	AddressID       string `json:"addressId"`
	PhysicalAddress string `json:"physicalAddress"`
	SetupComplete   bool   `json:"setupComplete"`
	Simulated       bool   `json:"simulated,omitempty"`
}
