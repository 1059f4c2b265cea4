package rabbitmq_adapter

import "time"

// LeadEventDTO - формат события о принятой заявке для downstream-потребителей.
type LeadEventDTO struct {
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	City        string    `json:"city,omitempty"`
	ObjectType  string    `json:"objectType,omitempty"`
	Description string    `json:"description,omitempty"`
	AcceptedAt  time.Time `json:"acceptedAt"`
}
