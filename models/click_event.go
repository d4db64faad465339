package models

import "time"

// ClickEvent is one row per incoming click, appended regardless of the
// classification outcome. Suspicious clicks stay in this audit trail but are
// excluded from monetized counters. Rows are never deleted by the core.
type ClickEvent struct {
	ID             uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	ReferralLinkID uint    `gorm:"not null;index:idx_click_events_referral_link_id" json:"referral_link_id"`
	IPAddress      string  `gorm:"size:64;not null;index:idx_click_events_ip_address" json:"ip_address"`
	UserAgent      *string `gorm:"type:text" json:"user_agent,omitempty"`
	IsSuspicious   bool    `gorm:"not null;default:false;index" json:"is_suspicious"`
	Reasons        *string `gorm:"type:text" json:"reasons,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_click_events_created_at" json:"created_at"`

	ReferralLink *ReferralLink `gorm:"foreignKey:ReferralLinkID;references:ID;constraint:OnDelete:CASCADE" json:"referral_link,omitempty"`
}

// TableName returns the table name for ClickEvent
func (ClickEvent) TableName() string { return "click_events" }

// ClickEventFilter provides filter fields for repository queries
type ClickEventFilter struct {
	ID             *uint      `json:"id,omitempty"`
	ReferralLinkID *uint      `json:"referral_link_id,omitempty"`
	IPAddress      *string    `json:"ip_address,omitempty"`
	IsSuspicious   *bool      `json:"is_suspicious,omitempty"`
	CreatedAfter   *time.Time `json:"created_after,omitempty"`
	CreatedBefore  *time.Time `json:"created_before,omitempty"`
}
