package dto

type AnalyticsRequest struct {
	From string `form:"from"` // YYYY-MM-DD
	To   string `form:"to"`   // YYYY-MM-DD, inclusive
}

type AnalyticsOverview struct {
	From               string           `json:"from,omitempty"`
	To                 string           `json:"to,omitempty"`
	TotalConversations int64            `json:"total_conversations"`
	TotalLeads         int64            `json:"total_leads"`
	LeadsByStatus      map[string]int64 `json:"leads_by_status"`
	ConversionRate     float64          `json:"conversion_rate"`
	TotalOrders        int64            `json:"total_orders"`
	OrdersByStatus     map[string]int64 `json:"orders_by_status"`
	Revenue            float64          `json:"revenue"`
	AverageOrderValue  float64          `json:"average_order_value"`
}

type ExportResponse struct {
	URL string `json:"url"`
}
