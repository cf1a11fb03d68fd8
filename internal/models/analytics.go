package models

// Analytics is the per-store dashboard snapshot. It is derived locally
// (recomputed whenever the product list changes or a counter increments) and
// only best-effort mirrored, so it is never authoritative across devices.
type Analytics struct {
	TotalProducts  int     `json:"totalProducts"`
	TotalClicks    int     `json:"totalClicks"`
	TotalOrders    int     `json:"totalOrders"`
	ConversionRate float64 `json:"conversionRate"`
	LastUpdated    string  `json:"lastUpdated,omitempty"`
}
