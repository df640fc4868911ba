package services

import (
	"testing"

	"backlink-radar/models"
)

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func TestClassifyRisk_RulePrecedence(t *testing.T) {
	tests := []struct {
		name     string
		da       *int
		nofollow *bool
		linkType string
		want     string
	}{
		{"very low DA is high regardless of placement", intPtr(5), boolPtr(false), "editorial", models.RiskHigh},
		{"nofollow below 20 is high", intPtr(15), boolPtr(true), "editorial", models.RiskHigh},
		{"footer below 30 is high, not medium", intPtr(25), boolPtr(false), "footer", models.RiskHigh},
		{"sidebar below 30 is high", intPtr(29), nil, "sidebar", models.RiskHigh},
		{"nofollow at 25 falls through to the DA rule", intPtr(25), boolPtr(true), "contextual", models.RiskMedium},
		{"DA below 30 is medium", intPtr(29), boolPtr(false), "editorial", models.RiskMedium},
		{"high-DA footer is medium via the placement rule", intPtr(60), boolPtr(false), "footer", models.RiskMedium},
		{"high-DA sidebar is medium", intPtr(80), nil, "sidebar", models.RiskMedium},
		{"solid editorial link is low", intPtr(60), boolPtr(false), "editorial", models.RiskLow},
		{"nofollow alone does not raise a strong link", intPtr(60), boolPtr(true), "editorial", models.RiskLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRisk(tt.da, tt.nofollow, tt.linkType)
			if got != tt.want {
				t.Errorf("ClassifyRisk(%v, %v, %q) = %q, want %q", tt.da, tt.nofollow, tt.linkType, got, tt.want)
			}
		})
	}
}

func TestClassifyRisk_MissingDATreatedAsZero(t *testing.T) {
	if got := ClassifyRisk(nil, nil, ""); got != models.RiskHigh {
		t.Errorf("expected high for missing DA, got %q", got)
	}
	if got := ClassifyRisk(nil, boolPtr(false), "editorial"); got != models.RiskHigh {
		t.Errorf("expected high for missing DA on editorial link, got %q", got)
	}
}

func TestClassifyRisk_Idempotent(t *testing.T) {
	da := intPtr(25)
	nofollow := boolPtr(true)
	first := ClassifyRisk(da, nofollow, "contextual")
	for i := 0; i < 10; i++ {
		if got := ClassifyRisk(da, nofollow, "contextual"); got != first {
			t.Fatalf("classification changed between calls: %q vs %q", first, got)
		}
	}
}

func TestClassifyRisk_AlwaysReturnsKnownTier(t *testing.T) {
	das := []*int{nil, intPtr(0), intPtr(9), intPtr(10), intPtr(19), intPtr(20), intPtr(29), intPtr(30), intPtr(75), intPtr(100)}
	nofollows := []*bool{nil, boolPtr(true), boolPtr(false)}
	linkTypes := []string{"", "footer", "sidebar", "editorial", "contextual"}

	valid := map[string]bool{models.RiskLow: true, models.RiskMedium: true, models.RiskHigh: true}
	for _, da := range das {
		for _, nf := range nofollows {
			for _, lt := range linkTypes {
				if got := ClassifyRisk(da, nf, lt); !valid[got] {
					t.Fatalf("ClassifyRisk returned unknown tier %q", got)
				}
			}
		}
	}
}
