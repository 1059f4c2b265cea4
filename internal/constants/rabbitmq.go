package constants

// Константы для обмена событиями о лидах.
const (
	LeadsExchangeName = "leads_exchange"
	LeadsExchangeType = "direct"

	RoutingKeyUrgentSaleLead = "leads.urgent_sale"
)
