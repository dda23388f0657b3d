package levelService

import (
	"errors"
	"fmt"

	"crystalModBot/models"
	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const MessageXP = 5

// RequiredXP is the amount of XP needed to advance past the given level.
func RequiredXP(level int) int {
	return 5*level*level + 50*level + 100
}

type AwardResult struct {
	LeveledUp bool
	Level     int
	XP        int
}

// Award adds amount XP to the member's record, rolling overflow into level
// increments. Fresh members start at level 1. Multiple levels can be gained
// in one call; the result reports only the final level.
func Award(db *gorm.DB, userID, guildID string, amount int) (*AwardResult, error) {
	var record models.XPRecord
	result := db.Where("user_id = ? AND guild_id = ?", userID, guildID).First(&record)

	created := false
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		record = models.XPRecord{UserID: userID, GuildID: guildID, XP: 0, Level: 1}
		created = true
	} else if result.Error != nil {
		return nil, result.Error
	}

	record.XP += amount
	leveledUp := false
	for record.XP >= RequiredXP(record.Level) {
		record.XP -= RequiredXP(record.Level)
		record.Level++
		leveledUp = true
	}

	var err error
	if created {
		err = db.Create(&record).Error
	} else {
		err = db.Model(&models.XPRecord{}).
			Where("user_id = ? AND guild_id = ?", userID, guildID).
			Updates(map[string]interface{}{"xp": record.XP, "level": record.Level}).Error
	}
	if err != nil {
		return nil, err
	}

	return &AwardResult{LeveledUp: leveledUp, Level: record.Level, XP: record.XP}, nil
}

// HandleMessage awards XP for a qualifying guild message and announces
// level-ups. Runs on every message, command or not.
func HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB) {
	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	result, err := Award(db, m.Author.ID, m.GuildID, MessageXP)
	if err != nil {
		common.RecordError(db, m.GuildID, "xp", err)
		return
	}

	if result.LeveledUp {
		_, err := common.SendEmbed(s, m.ChannelID, "Level Up!",
			fmt.Sprintf("<@%s> reached level %d!", m.Author.ID, result.Level), common.ColorBlue)
		if err != nil {
			log.WithError(err).Warn("failed to announce level up")
		}
	}
}

func LevelCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		target = m.Author
	}

	var record models.XPRecord
	result := db.Where("user_id = ? AND guild_id = ?", target.ID, m.GuildID).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		_, err := common.SendEmbed(s, m.ChannelID, "Level",
			fmt.Sprintf("%s has no XP yet!", common.DisplayName(target)), common.ColorBlue)
		if err != nil {
			return common.Platform("Failed to send level info", err)
		}
		return nil
	}
	if result.Error != nil {
		return common.Internal(result.Error)
	}

	required := RequiredXP(record.Level)
	progress := 0
	if required > 0 {
		progress = record.XP * 100 / required
	}

	_, err := common.SendEmbed(s, m.ChannelID,
		fmt.Sprintf("%s's Level", common.DisplayName(target)), "", common.ColorBlue,
		&discordgo.MessageEmbedField{Name: "Level", Value: fmt.Sprintf("%d", record.Level), Inline: true},
		&discordgo.MessageEmbedField{Name: "XP", Value: fmt.Sprintf("%d/%d", record.XP, required), Inline: true},
		&discordgo.MessageEmbedField{Name: "Progress", Value: fmt.Sprintf("%d%%", progress)},
	)
	if err != nil {
		return common.Platform("Failed to send level info", err)
	}
	return nil
}
