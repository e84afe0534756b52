package models

// CostTier classifies how a learning resource is priced.
type CostTier string

const (
	CostTierFree     CostTier = "free"
	CostTierFreemium CostTier = "freemium"
	CostTierPaid     CostTier = "paid"
)

// IsFree reports whether the tier satisfies a no-cost constraint.
// Freemium counts as free because the course content is accessible without
// payment; only the certificate costs money.
func (t CostTier) IsFree() bool {
	return t == CostTierFree || t == CostTierFreemium
}

// ResourceCandidate is a single learning item considered for a phase.
// Candidates are deduplicated by (title, platform).
type ResourceCandidate struct {
	Title         string   `json:"title"`
	Platform      string   `json:"platform"`
	SkillTags     []string `json:"skill_tags"`
	DurationHours int      `json:"duration_hours"`
	Rating        float64  `json:"rating"` // 0-5
	CostTier      CostTier `json:"cost_tier"`
	URL           string   `json:"url,omitempty"`

	// Relevance is the weighted ranking score assigned by the researcher.
	// Not persisted with the catalog row.
	Relevance float64 `json:"relevance,omitempty"`
}

// MarketInsights summarizes job-market conditions for the target role.
// Optional on the final artifact; absent when the enrichment lookup fails
// and no fallback trend is known.
type MarketInsights struct {
	Role          string `json:"role"`
	DemandTrend   string `json:"demand_trend"`
	MarketGrowth  string `json:"market_growth"`
	AverageSalary string `json:"average_salary,omitempty"`
	Commentary    string `json:"commentary,omitempty"`
}
