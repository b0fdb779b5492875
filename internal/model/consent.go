package model

import "time"

// ConsentMethodElectronic is the only consent method the service records.
const ConsentMethodElectronic = "electronic"

// AgentConsent authorizes the registered agent to accept service of process for one entity.
// An entity may accumulate several consents over time; at most one is active.
type AgentConsent struct {
	ID               string    `json:"id"`
	BusinessEntityID string    `json:"business_entity_id"`
	AgentName        string    `json:"agent_name"`
	AgentAddressID   string    `json:"agent_address_id"`
	ConsentMethod    string    `json:"consent_method"`
	IsActive         bool      `json:"is_active"`
	DocumentPath     string    `json:"document_path,omitempty"`
	ConsentDate      time.Time `json:"consent_date"`
	CreatedAt        time.Time `json:"created_at"`
}
