package models

// XPRecord tracks per-member experience. One row per member per guild.
// XP always stays below the next level threshold; overflow rolls into a
// level-up carrying the remainder.
type XPRecord struct {
	UserID  string `gorm:"primaryKey; size:64"`
	GuildID string `gorm:"primaryKey; size:64"`
	XP      int    `gorm:"column:xp"`
	Level   int    `gorm:"default:1"`
}

func (XPRecord) TableName() string {
	return "xp"
}
