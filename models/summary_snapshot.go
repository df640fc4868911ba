package models

import "time"

// SummarySnapshot is a stored aggregate over the backlink set, written by the
// scheduled snapshot job so dashboards can chart health over time.
type SummarySnapshot struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`

	TotalBacklinks   int `json:"total_backlinks"`
	ReferringDomains int `json:"referring_domains"`
	AverageDA        int `json:"average_da"`
	HealthyLinks     int `json:"healthy_links"`
	WarningLinks     int `json:"warning_links"`
	ToxicLinks       int `json:"toxic_links"`
}

// TableName sets the explicit table name for GORM.
func (SummarySnapshot) TableName() string {
	return "summary_snapshots"
}
