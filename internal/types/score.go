package types

// ContentTier buckets a data completeness score into how much content the
// generator can ground on real facts versus how much it must infer or ask for.
type ContentTier string

const (
	// TierMinimal means little usable data; generation leans on defaults.
	TierMinimal ContentTier = "minimal"
	// TierPartial means enough data for core sections only.
	TierPartial ContentTier = "partial"
	// TierRich means the full template can be populated from real facts.
	TierRich ContentTier = "rich"
)

// Tier thresholds over the 0-100 score total.
const (
	TierPartialMin = 31
	TierRichMin    = 61
)

// DataScore is a derived completeness metric over a business's available
// facts. It has no identity or lifecycle: recomputed on demand, never stored
// as a source of truth.
type DataScore struct {
	Total     int            `json:"total"` // clamped to [0,100]
	Breakdown map[string]int `json:"breakdown"`
	Tier      ContentTier    `json:"content_tier"`
}

// TierForTotal maps a score total to its content tier. Pure function of the
// total so identical totals always land in the same tier.
func TierForTotal(total int) ContentTier {
	switch {
	case total >= TierRichMin:
		return TierRich
	case total >= TierPartialMin:
		return TierPartial
	default:
		return TierMinimal
	}
}
