package models

import (
	"gorm.io/gorm"
	"time"
)

// Mute is one row of mute history. At most one row per (user, guild) is
// active at a time; lifted mutes stay around with Active=false.
type Mute struct {
	gorm.Model
	ID        uint   `gorm:"primaryKey"`
	UserID    string `gorm:"index:active_mutes_idx; size:64"`
	GuildID   string `gorm:"index:active_mutes_idx; size:64"`
	Reason    string `gorm:"type:text"`
	MutedBy   string `gorm:"size:64"`
	MuteStart time.Time
	MuteEnd   *time.Time // nil means indefinite
	Active    bool       `gorm:"index:active_mutes_idx; default:true"`
}
