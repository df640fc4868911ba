package models

import "time"

// GapLink stores one simulated competitor-linking domain so repeated gap
// analyses do not re-insert the same opportunity.
type GapLink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	LinkingDomain  string `json:"linking_domain" gorm:"uniqueIndex;not null"`
	DA             int    `json:"da"`
	YourSite       bool   `json:"your_site" gorm:"default:false"`
	CompetitorA    bool   `json:"competitor_a" gorm:"default:false"`
	CompetitorB    bool   `json:"competitor_b" gorm:"default:false"`
	EffortLevel    string `json:"effort_level" gorm:"default:'Medium'"` // Easy/Medium/Hard
	PotentialValue int    `json:"potential_value" gorm:"default:50"`
}

// TableName sets the explicit table name for GORM.
func (GapLink) TableName() string {
	return "gap_links"
}
