package models

import "gorm.io/gorm"

// ModLog is the audit trail for moderation actions.
type ModLog struct {
	gorm.Model
	ID          uint   `gorm:"primaryKey"`
	GuildID     string `gorm:"size:64"`
	TargetID    string `gorm:"size:64"`
	ModeratorID string `gorm:"size:64"`
	Action      string `gorm:"size:32"`
	Reason      string `gorm:"type:text"`
}
