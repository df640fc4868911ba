package models

import "time"

// OutreachCampaign groups generated outreach emails around one promotion target.
type OutreachCampaign struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Name           string `json:"name" gorm:"not null"`
	URLToPromote   string `json:"url_to_promote,omitempty"`
	TargetKeywords string `json:"target_keywords,omitempty"`
	ProspectType   string `json:"prospect_type,omitempty"`
	EmailTone      string `json:"email_tone,omitempty"`
	Status         string `json:"status" gorm:"default:'Active'"`
}

// TableName sets the explicit table name for GORM.
func (OutreachCampaign) TableName() string {
	return "outreach_campaigns"
}
