package services

import (
	"reflect"
	"testing"

	"backlink-radar/models"

	"go.uber.org/zap"
)

func TestSimulateAuthority_Buckets(t *testing.T) {
	tests := []struct {
		domain   string
		min, max int
	}{
		{"stanford.edu", 85, 99},
		{"usa.gov", 85, 99},
		{"techcrunch.com", 80, 99},
		{"forbes.com", 80, 99},
		{"averyverylongfirstlabelname.com", 20, 49},
		{"example.com", 30, 79},
		{"moz.com", 30, 79},
	}

	for _, tt := range tests {
		got := SimulateAuthority(tt.domain)
		if got < tt.min || got > tt.max {
			t.Errorf("SimulateAuthority(%q) = %d, want within [%d,%d]", tt.domain, got, tt.min, tt.max)
		}
	}
}

func TestSimulateAuthority_Deterministic(t *testing.T) {
	for _, domain := range candidatePool {
		first := SimulateAuthority(domain)
		for i := 0; i < 5; i++ {
			if got := SimulateAuthority(domain); got != first {
				t.Fatalf("authority for %q changed between calls: %d vs %d", domain, first, got)
			}
		}
	}
}

func TestGenerateGaps_Deterministic(t *testing.T) {
	competitors := []string{"competitor-one.com", "competitor-two.com"}

	first := GenerateGaps("yourdomain.com", competitors, 0)
	second := GenerateGaps("yourdomain.com", competitors, 0)

	if !reflect.DeepEqual(first, second) {
		t.Error("two identical calls returned different results")
	}
}

func TestGenerateGaps_OnlySurfacesGaps(t *testing.T) {
	gaps := GenerateGaps("yourdomain.com", []string{"competitor-one.com", "competitor-two.com"}, 0)

	for _, gap := range gaps {
		if !gap.CompetitorA && !gap.CompetitorB {
			t.Errorf("%s surfaced without any competitor link", gap.LinkingDomain)
		}
		if gap.YourSite {
			t.Errorf("%s surfaced although the tracked site already links", gap.LinkingDomain)
		}
	}
}

func TestGenerateGaps_SortedByAuthorityDescending(t *testing.T) {
	gaps := GenerateGaps("yourdomain.com", []string{"competitor-one.com", "competitor-two.com"}, 0)

	for i := 1; i < len(gaps); i++ {
		if gaps[i].DA > gaps[i-1].DA {
			t.Fatalf("gap list not sorted descending at index %d: %d > %d", i, gaps[i].DA, gaps[i-1].DA)
		}
	}
}

func TestGenerateGaps_MinAuthorityFilter(t *testing.T) {
	gaps := GenerateGaps("yourdomain.com", []string{"competitor-one.com"}, 60)

	for _, gap := range gaps {
		if gap.DA < 60 {
			t.Errorf("%s has DA %d below the minimum of 60", gap.LinkingDomain, gap.DA)
		}
	}
}

func TestGenerateGaps_EffortAndValue(t *testing.T) {
	gaps := GenerateGaps("yourdomain.com", []string{"competitor-one.com", "competitor-two.com"}, 0)

	for _, gap := range gaps {
		var want string
		switch {
		case gap.DA >= 80:
			want = EffortHard
		case gap.DA >= 50:
			want = EffortMedium
		default:
			want = EffortEasy
		}
		if gap.EffortLevel != want {
			t.Errorf("%s (DA %d): effort %q, want %q", gap.LinkingDomain, gap.DA, gap.EffortLevel, want)
		}
		if gap.PotentialValue != gap.DA || gap.PotentialValue > 100 {
			t.Errorf("%s: potential value %d, want min(DA=%d, 100)", gap.LinkingDomain, gap.PotentialValue, gap.DA)
		}
	}
}

func TestGenerateGaps_NoCompetitorsMeansNoGaps(t *testing.T) {
	if gaps := GenerateGaps("yourdomain.com", nil, 0); len(gaps) != 0 {
		t.Errorf("expected no gaps without competitors, got %d", len(gaps))
	}
}

func TestBubblePoints(t *testing.T) {
	gaps := []GapOpportunity{
		{LinkingDomain: "easy.com", DA: 30, EffortLevel: EffortEasy, PotentialValue: 30},
		{LinkingDomain: "medium.com", DA: 65, EffortLevel: EffortMedium, PotentialValue: 65},
		{LinkingDomain: "hard.com", DA: 95, EffortLevel: EffortHard, PotentialValue: 95},
	}

	points := BubblePoints(gaps)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	wantEffort := []int{20, 50, 80}
	wantRadius := []int{8, 13, 19}
	for i, p := range points {
		if p.Effort != wantEffort[i] {
			t.Errorf("point %d: effort %d, want %d", i, p.Effort, wantEffort[i])
		}
		if p.Radius != wantRadius[i] {
			t.Errorf("point %d: radius %d, want %d", i, p.Radius, wantRadius[i])
		}
		if p.Value != gaps[i].PotentialValue {
			t.Errorf("point %d: value %d, want %d", i, p.Value, gaps[i].PotentialValue)
		}
	}
}

func TestBubblePoints_RadiusClamped(t *testing.T) {
	points := BubblePoints([]GapOpportunity{
		{DA: 5, EffortLevel: EffortEasy, PotentialValue: 5},
		{DA: 100, EffortLevel: EffortHard, PotentialValue: 100},
	})
	if points[0].Radius != 8 {
		t.Errorf("low-DA radius should clamp to 8, got %d", points[0].Radius)
	}
	if points[1].Radius != 20 {
		t.Errorf("high-DA radius should clamp to 20, got %d", points[1].Radius)
	}
}

type fakeGapStore struct {
	existing map[string]bool
	appended []models.GapLink
	appends  int
}

func (f *fakeGapStore) Exists(domain string) (bool, error) {
	return f.existing[domain], nil
}

func (f *fakeGapStore) Append(gap *models.GapLink) error {
	f.appended = append(f.appended, *gap)
	f.appends++
	return nil
}

func TestGapService_Analyze_DedupesButStillResponds(t *testing.T) {
	competitors := []string{"competitor-one.com", "competitor-two.com"}
	expected := GenerateGaps("yourdomain.com", competitors, 0)
	if len(expected) == 0 {
		t.Skip("simulator produced no gaps for this fixture")
	}

	store := &fakeGapStore{existing: map[string]bool{expected[0].LinkingDomain: true}}
	svc := NewGapService(store, zap.NewNop())

	analysis, err := svc.Analyze("yourdomain.com", competitors, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The already-recorded domain is not re-inserted...
	if store.appends != len(expected)-1 {
		t.Errorf("expected %d appends, got %d", len(expected)-1, store.appends)
	}
	// ...but the response still contains every opportunity.
	if len(analysis.Gaps) != len(expected) {
		t.Errorf("expected %d gaps in response, got %d", len(expected), len(analysis.Gaps))
	}
	if analysis.Summary.TotalOpportunities != len(expected) {
		t.Errorf("summary total %d, want %d", analysis.Summary.TotalOpportunities, len(expected))
	}

	easy, medium, hard := 0, 0, 0
	for _, gap := range analysis.Gaps {
		switch gap.EffortLevel {
		case EffortEasy:
			easy++
		case EffortMedium:
			medium++
		case EffortHard:
			hard++
		}
	}
	if analysis.Summary.EasyTargets != easy || analysis.Summary.MediumTargets != medium || analysis.Summary.HardTargets != hard {
		t.Errorf("summary effort counts %+v do not match gaps (%d/%d/%d)", analysis.Summary, easy, medium, hard)
	}
}
