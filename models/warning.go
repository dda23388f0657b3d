package models

import (
	"gorm.io/gorm"
	"time"
)

type Warning struct {
	gorm.Model
	ID      uint   `gorm:"primaryKey"`
	UserID  string `gorm:"index:warn_user_guild_idx; size:64"`
	GuildID string `gorm:"index:warn_user_guild_idx; size:64"`
	Reason  string `gorm:"type:text"`
	Date    time.Time
}
