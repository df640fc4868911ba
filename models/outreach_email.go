package models

import "time"

// OutreachEmail stores one generated email of a 3-step outreach sequence.
type OutreachEmail struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	CampaignID *uint  `json:"campaign_id,omitempty" gorm:"index"`
	Step       int    `json:"step"`
	Subject    string `json:"subject"`
	Body       string `json:"body" gorm:"type:text"`
}

// TableName sets the explicit table name for GORM.
func (OutreachEmail) TableName() string {
	return "outreach_emails"
}
