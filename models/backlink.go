package models

import (
	"time"
)

// Risk tiers assigned to every imported backlink.
const (
	RiskLow    = "low"
	RiskMedium = "medium"
	RiskHigh   = "high"
)

// Backlink represents one discovered link pointing at the tracked site.
// RiskLevel is always derived at ingestion time from domain authority,
// nofollow and link type; it is never taken from the input file.
type Backlink struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	BacklinkSource  string     `json:"backlink_source" gorm:"not null"`
	AnchorText      string     `json:"anchor_text,omitempty"`
	TargetURL       string     `json:"target_url,omitempty"`
	DomainAuthority *int       `json:"domain_authority,omitempty"`
	Nofollow        *bool      `json:"nofollow,omitempty"`
	DateFound       *time.Time `json:"date_found,omitempty"`
	LinkType        string     `json:"link_type,omitempty" gorm:"index"` // footer, sidebar, editorial, contextual
	SourceDomain    string     `json:"source_domain,omitempty" gorm:"index"`
	RiskLevel       string     `json:"risk_level" gorm:"index"`
}

// TableName sets the explicit table name for GORM.
func (Backlink) TableName() string {
	return "backlinks"
}
