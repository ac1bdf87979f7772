package model

import "strings"

// ReorderOutcome classifies a reorder attempt.
type ReorderOutcome string

const (
	ReorderOutcomeFull    ReorderOutcome = "FULL"
	ReorderOutcomePartial ReorderOutcome = "PARTIAL"
	ReorderOutcomeNone    ReorderOutcome = "NONE"
)

// ReorderReport describes how a past order was recreated against current stock.
type ReorderReport struct {
	Order                   *Order
	Message                 string
	OutOfStockProducts      []string
	PartiallyFilledProducts []string
}

// Outcome distinguishes a full, partial and failed reorder.
func (r *ReorderReport) Outcome() ReorderOutcome {
	switch {
	case r == nil || r.Order == nil:
		return ReorderOutcomeNone
	case len(r.OutOfStockProducts) == 0 && len(r.PartiallyFilledProducts) == 0:
		return ReorderOutcomeFull
	default:
		return ReorderOutcomePartial
	}
}

// ReportSection is a titled list of products rendered separately in reorder messages.
type ReportSection struct {
	Title    string
	Products []string
}

// Sections returns the out-of-stock and partially filled lists as separate
// sections, omitting empty ones.
func (r *ReorderReport) Sections() []ReportSection {
	if r == nil {
		return nil
	}
	var sections []ReportSection
	if len(r.OutOfStockProducts) > 0 {
		sections = append(sections, ReportSection{Title: "Out of stock", Products: r.OutOfStockProducts})
	}
	if len(r.PartiallyFilledProducts) > 0 {
		sections = append(sections, ReportSection{Title: "Partially available", Products: r.PartiallyFilledProducts})
	}
	return sections
}

// Summary renders the message followed by each section.
func (r *ReorderReport) Summary() string {
	if r == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.Message)
	for _, s := range r.Sections() {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(s.Title)
		b.WriteString(":")
		for _, p := range s.Products {
			b.WriteString("\n- ")
			b.WriteString(p)
		}
	}
	return b.String()
}
