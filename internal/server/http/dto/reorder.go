package dto

// ReportSection lists products sharing a reorder problem.
type ReportSection struct {
	Title    string   `json:"title"`
	Products []string `json:"products"`
}

// ReorderResponse is the outcome of a reorder.
type ReorderResponse struct {
	Outcome                 string          `json:"outcome"`
	Message                 string          `json:"message"`
	Summary                 string          `json:"summary"`
	Order                   *OrderResponse  `json:"order"`
	OutOfStockProducts      []string        `json:"outOfStockProducts"`
	PartiallyFilledProducts []string        `json:"partiallyFilledProducts"`
	Sections                []ReportSection `json:"sections"`
}
