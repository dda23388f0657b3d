package common

import (
	"fmt"
	"strings"

	"crystalModBot/models"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	ColorBlue   = 0x3498db
	ColorRed    = 0xe74c3c
	ColorGreen  = 0x2ecc71
	ColorOrange = 0xe67e22
	ColorYellow = 0xf1c40f
)

var devIDs []string

// SetDevIDs installs the bot-owner id list parsed from the environment.
func SetDevIDs(ids []string) {
	devIDs = ids
}

func IsDev(userID string) bool {
	for _, id := range devIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func SendEmbed(s *discordgo.Session, channelID, title, description string, color int, fields ...*discordgo.MessageEmbedField) (*discordgo.Message, error) {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: description,
		Color:       color,
	}
	if len(fields) > 0 {
		embed.Fields = fields
	}
	return s.ChannelMessageSendEmbed(channelID, embed)
}

func ErrorEmbed(s *discordgo.Session, channelID, description string) {
	_, err := SendEmbed(s, channelID, "Error", fmt.Sprintf("❌ %s", description), ColorRed)
	if err != nil {
		log.WithError(err).Warn("failed to send error embed")
	}
}

func SuccessEmbed(s *discordgo.Session, channelID, description string) {
	_, err := SendEmbed(s, channelID, "Success", fmt.Sprintf("✅ %s", description), ColorGreen)
	if err != nil {
		log.WithError(err).Warn("failed to send success embed")
	}
}

func memberPermissions(s *discordgo.Session, m *discordgo.MessageCreate) (int64, error) {
	if perms, err := s.State.MessagePermissions(m.Message); err == nil {
		return perms, nil
	}
	return s.UserChannelPermissions(m.Author.ID, m.ChannelID)
}

// RequirePermission is the capability check every handler runs on entry.
// Administrators pass every check.
func RequirePermission(s *discordgo.Session, m *discordgo.MessageCreate, permission int64) error {
	perms, err := memberPermissions(s, m)
	if err != nil {
		return Platform("Could not resolve your permissions", err)
	}
	if perms&discordgo.PermissionAdministrator != 0 {
		return nil
	}
	if perms&permission == 0 {
		return Permission()
	}
	return nil
}

// FirstMention returns the first mentioned user, excluding the bot itself.
func FirstMention(s *discordgo.Session, m *discordgo.MessageCreate) *discordgo.User {
	for _, user := range m.Mentions {
		if s.State.User != nil && user.ID == s.State.User.ID {
			continue
		}
		return user
	}
	return nil
}

// StripMention removes every mention form of user from tail.
func StripMention(tail string, user *discordgo.User) string {
	if user == nil {
		return strings.TrimSpace(tail)
	}
	tail = strings.ReplaceAll(tail, fmt.Sprintf("<@%s>", user.ID), "")
	tail = strings.ReplaceAll(tail, fmt.Sprintf("<@!%s>", user.ID), "")
	return strings.TrimSpace(tail)
}

func DisplayName(user *discordgo.User) string {
	if user == nil {
		return "Unknown User"
	}
	if user.GlobalName != "" {
		return user.GlobalName
	}
	if user.Username != "" {
		return user.Username
	}
	return "Unknown User"
}

// RecordError writes a platform or internal failure to the log and the
// error_logs table. User-visible responses are the caller's job.
func RecordError(db *gorm.DB, guildID, source string, err error) {
	log.WithFields(log.Fields{"guild": guildID, "source": source}).Error(err)

	if db == nil {
		return
	}
	errLog := models.ErrorLog{
		GuildID: guildID,
		Source:  source,
		Message: fmt.Sprintf("%v", err),
	}
	db.Create(&errLog)
}

// ModLog appends an audit row for a moderation action.
func ModLog(db *gorm.DB, guildID, targetID, moderatorID, action, reason string) {
	entry := models.ModLog{
		GuildID:     guildID,
		TargetID:    targetID,
		ModeratorID: moderatorID,
		Action:      action,
		Reason:      reason,
	}
	if err := db.Create(&entry).Error; err != nil {
		log.WithError(err).Warn("failed to write modlog entry")
	}
}
