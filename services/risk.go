package services

import "backlink-radar/models"

// riskyPlacements are the page regions whose links are discounted by search
// engines and attract the placement rules below.
var riskyPlacements = map[string]bool{
	"footer":  true,
	"sidebar": true,
}

// ClassifyRisk assigns a risk tier to a backlink from its attributes. A nil
// domain authority counts as 0. The rules are evaluated strictly top to
// bottom and the first match wins; the thresholds overlap on purpose (a
// footer link at DA 25 is high via the placement rule before the generic
// DA<30 rule is reached), so the order is part of the contract and must not
// be rearranged.
func ClassifyRisk(domainAuthority *int, nofollow *bool, linkType string) string {
	da := 0
	if domainAuthority != nil {
		da = *domainAuthority
	}

	if da < 10 {
		return models.RiskHigh
	}
	if nofollow != nil && *nofollow && da < 20 {
		return models.RiskHigh
	}
	if riskyPlacements[linkType] && da < 30 {
		return models.RiskHigh
	}

	if da < 30 {
		return models.RiskMedium
	}
	if riskyPlacements[linkType] {
		return models.RiskMedium
	}

	return models.RiskLow
}
