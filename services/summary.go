package services

import (
	"strings"

	"backlink-radar/models"
)

// Anchor-text buckets used by the distribution chart.
const (
	AnchorBranded      = "Branded"
	AnchorExactMatch   = "Exact Match"
	AnchorPartialMatch = "Partial Match"
	AnchorGeneric      = "Generic"
	AnchorNakedURL     = "Naked URL"
)

var (
	genericPhrases = []string{"click here", "read more", "visit site"}
	brandedMarkers = []string{"brand", "inc", "llc"}
)

// SummaryCards holds the headline numbers of the dashboard.
type SummaryCards struct {
	TotalBacklinks   int `json:"total_backlinks"`
	ReferringDomains int `json:"referring_domains"`
	AverageDA        int `json:"average_da"`
	ToxicLinks       int `json:"toxic_links"`
}

// HealthScorecard counts links per risk tier.
type HealthScorecard struct {
	Healthy int `json:"healthy"`
	Warning int `json:"warning"`
	Toxic   int `json:"toxic"`
}

// SummaryReport is the aggregate view over the current backlink set. The risk
// tier counts and the anchor bucket counts each sum to TotalBacklinks.
type SummaryReport struct {
	Cards              SummaryCards    `json:"cards"`
	HealthScorecard    HealthScorecard `json:"health_scorecard"`
	AnchorDistribution map[string]int  `json:"anchor_distribution"`
}

// Summarize computes the dashboard aggregates in a single pass. It is a pure
// function: absent fields are substituted (DA nil counts as 0), never raised.
func Summarize(records []models.Backlink) *SummaryReport {
	byRisk := map[string]int{models.RiskLow: 0, models.RiskMedium: 0, models.RiskHigh: 0}
	anchors := map[string]int{
		AnchorBranded:      0,
		AnchorExactMatch:   0,
		AnchorPartialMatch: 0,
		AnchorGeneric:      0,
		AnchorNakedURL:     0,
	}

	daSum := 0
	domains := make(map[string]struct{})
	for _, r := range records {
		byRisk[r.RiskLevel]++
		anchors[BucketAnchor(r.AnchorText)]++
		if r.DomainAuthority != nil {
			daSum += *r.DomainAuthority
		}
		if r.SourceDomain != "" {
			domains[r.SourceDomain] = struct{}{}
		}
	}

	total := len(records)
	avgDA := 0
	if total > 0 {
		avgDA = daSum / total
	}

	return &SummaryReport{
		Cards: SummaryCards{
			TotalBacklinks:   total,
			ReferringDomains: len(domains),
			AverageDA:        avgDA,
			ToxicLinks:       byRisk[models.RiskHigh],
		},
		HealthScorecard: HealthScorecard{
			Healthy: byRisk[models.RiskLow],
			Warning: byRisk[models.RiskMedium],
			Toxic:   byRisk[models.RiskHigh],
		},
		AnchorDistribution: anchors,
	}
}

// BucketAnchor categorizes an anchor text by apparent intent. The checks run
// in precedence order and the first match wins.
func BucketAnchor(anchor string) string {
	a := strings.ToLower(anchor)

	if a == "" || strings.HasPrefix(a, "http") {
		return AnchorNakedURL
	}
	if len(strings.Fields(a)) == 1 {
		return AnchorExactMatch
	}
	for _, phrase := range genericPhrases {
		if strings.Contains(a, phrase) {
			return AnchorGeneric
		}
	}
	for _, marker := range brandedMarkers {
		if strings.Contains(a, marker) {
			return AnchorBranded
		}
	}
	return AnchorPartialMatch
}
