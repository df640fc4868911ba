package services

import (
	"hash/fnv"
	"sort"
	"strings"

	"backlink-radar/models"
	"backlink-radar/storage"

	"go.uber.org/zap"
)

// Outreach effort tiers, derived from the simulated authority score.
const (
	EffortEasy   = "Easy"
	EffortMedium = "Medium"
	EffortHard   = "Hard"
)

// candidatePool is the static set of well-known domains the simulator draws
// from. It is configuration data, not logic: swapping the pool changes the
// output, never the algorithm. Only the first maxOpportunities entries are
// evaluated per analysis.
var candidatePool = []string{
	"techcrunch.com", "forbes.com", "entrepreneur.com", "inc.com", "fastcompany.com",
	"businessinsider.com", "mashable.com", "venturebeat.com", "wired.com", "arstechnica.com",
	"industryblog.net", "smallbusiness.com", "startupnews.com", "digitaltrends.com",
	"marketingland.com", "searchengineland.com", "moz.com", "semrush.com", "hubspot.com",
	"contentmarketinginstitute.com", "socialmediaexaminer.com", "copyblogger.com",
}

const maxOpportunities = 15

// majorOutlets skew the simulated authority towards the top of the scale.
var majorOutlets = []string{"techcrunch", "forbes", "cnn", "bbc"}

// GapOpportunity is one simulated competitor-linking domain: a domain where
// at least one competitor holds a link and the tracked site does not.
type GapOpportunity struct {
	LinkingDomain  string `json:"linking_domain"`
	DA             int    `json:"da"`
	YourSite       bool   `json:"your_site"`
	CompetitorA    bool   `json:"competitor_a"`
	CompetitorB    bool   `json:"competitor_b"`
	EffortLevel    string `json:"effort_level"`
	PotentialValue int    `json:"potential_value"`
}

// BubblePoint positions one opportunity on the effort-vs-reward chart.
type BubblePoint struct {
	Effort int    `json:"effort"`
	Value  int    `json:"value"`
	Radius int    `json:"radius"`
	Domain string `json:"domain"`
}

// ContentOpportunity is a link-worthy content suggestion returned alongside
// the gap list.
type ContentOpportunity struct {
	Type        string `json:"type"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
	TargetCount int    `json:"target_count"`
	AvgDA       int    `json:"avg_da"`
}

// hashString is the stable FNV-1a hash all simulator decisions derive from.
// Go's built-in string hashing is salted per process; determinism across runs
// is a requirement here, so the hash is pinned explicitly.
func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// SimulateAuthority derives a deterministic pseudo domain-authority score
// (0-100) from the domain string. It stands in for a real authority API:
// .edu/.gov domains land in 85-99, major outlets in 80-99, domains with an
// overlong first label in 20-49, everything else in 30-79.
func SimulateAuthority(domain string) int {
	h := int(hashString(domain))
	switch {
	case strings.HasSuffix(domain, ".edu") || strings.HasSuffix(domain, ".gov"):
		return 85 + h%15
	case isMajorOutlet(domain):
		return 80 + h%20
	case len(strings.Split(domain, ".")[0]) > 15:
		return 20 + h%30
	default:
		return 30 + h%50
	}
}

func isMajorOutlet(domain string) bool {
	for _, outlet := range majorOutlets {
		if strings.Contains(domain, outlet) {
			return true
		}
	}
	return false
}

// effortLevel maps an authority score to an outreach effort tier.
func effortLevel(da int) string {
	switch {
	case da >= 80:
		return EffortHard
	case da >= 50:
		return EffortMedium
	default:
		return EffortEasy
	}
}

// GenerateGaps simulates competitor link presence over the candidate pool and
// returns the gap opportunities sorted by authority, descending; ties keep
// the pool order. The function is pure and deterministic: identical arguments
// always produce identical results, across runs and processes.
//
// A candidate surfaces only when at least one competitor flag is true and the
// own-site flag is false. Presence flags come from the stable hash of the
// candidate concatenated with the respective domain.
func GenerateGaps(yourDomain string, competitors []string, minAuthority int) []GapOpportunity {
	if len(competitors) > 5 {
		competitors = competitors[:5]
	}

	pool := candidatePool
	if len(pool) > maxOpportunities {
		pool = pool[:maxOpportunities]
	}

	var gaps []GapOpportunity
	for _, domain := range pool {
		da := SimulateAuthority(domain)
		if da < minAuthority {
			continue
		}

		hasCompA := len(competitors) > 0 && hashString(domain+competitors[0])%3 == 0
		hasCompB := len(competitors) > 1 && hashString(domain+competitors[1])%3 == 0
		yourSiteLinked := hashString(domain+yourDomain)%5 == 0

		if !(hasCompA || hasCompB) || yourSiteLinked {
			continue
		}

		value := da
		if value > 100 {
			value = 100
		}
		gaps = append(gaps, GapOpportunity{
			LinkingDomain:  domain,
			DA:             da,
			YourSite:       yourSiteLinked,
			CompetitorA:    hasCompA,
			CompetitorB:    hasCompB,
			EffortLevel:    effortLevel(da),
			PotentialValue: value,
		})
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].DA > gaps[j].DA
	})
	return gaps
}

// BubblePoints maps each opportunity to a point on the effort-vs-reward
// bubble chart.
func BubblePoints(gaps []GapOpportunity) []BubblePoint {
	effortScores := map[string]int{EffortEasy: 20, EffortMedium: 50, EffortHard: 80}

	points := make([]BubblePoint, 0, len(gaps))
	for _, gap := range gaps {
		radius := gap.DA / 5
		if radius < 8 {
			radius = 8
		}
		if radius > 20 {
			radius = 20
		}
		points = append(points, BubblePoint{
			Effort: effortScores[gap.EffortLevel],
			Value:  gap.PotentialValue,
			Radius: radius,
			Domain: gap.LinkingDomain,
		})
	}
	return points
}

// ContentOpportunities returns link-worthy content suggestions for the
// tracked domain. These are curated suggestions, not generated text.
func ContentOpportunities(yourDomain string) []ContentOpportunity {
	name := strings.Split(yourDomain, ".")[0]
	if name == "" {
		name = "your"
	}
	name = strings.ToUpper(name[:1]) + name[1:]
	return []ContentOpportunity{
		{
			Type:        "Comparison Guide",
			Topic:       "Best " + name + " Alternatives",
			Description: "Comprehensive comparison including competitor analysis to attract resource page links.",
			TargetCount: 15,
			AvgDA:       58,
		},
		{
			Type:        "Industry Report",
			Topic:       "State of the Industry 2024",
			Description: "Data-driven report with original research that journalists and bloggers will reference.",
			TargetCount: 23,
			AvgDA:       67,
		},
		{
			Type:        "Resource Collection",
			Topic:       "Ultimate Toolkit for Professionals",
			Description: "Curated list of tools and resources that other sites will link to as a reference.",
			TargetCount: 31,
			AvgDA:       41,
		},
	}
}

// GapAnalysis is the full payload of one competitor analysis.
type GapAnalysis struct {
	YourDomain           string               `json:"your_domain"`
	CompetitorsAnalyzed  int                  `json:"competitors_analyzed"`
	Gaps                 []GapOpportunity     `json:"gaps"`
	Bubbles              []BubblePoint        `json:"bubbles"`
	ContentOpportunities []ContentOpportunity `json:"content_opportunities"`
	Summary              GapSummary           `json:"summary"`
}

// GapSummary aggregates one analysis for the dashboard cards.
type GapSummary struct {
	TotalOpportunities int `json:"total_opportunities"`
	EasyTargets        int `json:"easy_targets"`
	MediumTargets      int `json:"medium_targets"`
	HardTargets        int `json:"hard_targets"`
	AvgDA              int `json:"avg_da"`
}

// GapService runs gap analyses and records surfaced domains for dedup.
type GapService struct {
	Store  storage.GapStore
	Logger *zap.Logger
}

// NewGapService creates a new GapService.
func NewGapService(store storage.GapStore, logger *zap.Logger) *GapService {
	return &GapService{Store: store, Logger: logger}
}

// Analyze generates the gap opportunities for a domain and persists any not
// yet recorded. Already-recorded domains are skipped on insert but still
// included in the response.
func (s *GapService) Analyze(yourDomain string, competitors []string, minAuthority int) (*GapAnalysis, error) {
	if len(competitors) > 5 {
		competitors = competitors[:5]
	}
	gaps := GenerateGaps(yourDomain, competitors, minAuthority)

	for _, gap := range gaps {
		exists, err := s.Store.Exists(gap.LinkingDomain)
		if err != nil {
			return nil, err
		}
		if exists {
			continue
		}
		err = s.Store.Append(&models.GapLink{
			LinkingDomain:  gap.LinkingDomain,
			DA:             gap.DA,
			YourSite:       gap.YourSite,
			CompetitorA:    gap.CompetitorA,
			CompetitorB:    gap.CompetitorB,
			EffortLevel:    gap.EffortLevel,
			PotentialValue: gap.PotentialValue,
		})
		if err != nil {
			return nil, err
		}
	}

	summary := GapSummary{TotalOpportunities: len(gaps)}
	daSum := 0
	for _, gap := range gaps {
		daSum += gap.DA
		switch gap.EffortLevel {
		case EffortEasy:
			summary.EasyTargets++
		case EffortMedium:
			summary.MediumTargets++
		case EffortHard:
			summary.HardTargets++
		}
	}
	if len(gaps) > 0 {
		summary.AvgDA = daSum / len(gaps)
	}

	s.Logger.Info("Competitor gap analysis completed",
		zap.String("your_domain", yourDomain),
		zap.Int("competitors", len(competitors)),
		zap.Int("opportunities", len(gaps)))

	return &GapAnalysis{
		YourDomain:           yourDomain,
		CompetitorsAnalyzed:  len(competitors),
		Gaps:                 gaps,
		Bubbles:              BubblePoints(gaps),
		ContentOpportunities: ContentOpportunities(yourDomain),
		Summary:              summary,
	}, nil
}
