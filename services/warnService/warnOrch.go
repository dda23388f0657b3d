package warnService

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"crystalModBot/models"
	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

var ErrOutOfRange = errors.New("warning number out of range")

// AddWarning appends a warning row. Storage ids are never reused; display
// ordinals are derived at read time.
func AddWarning(db *gorm.DB, userID, guildID, reason string) (*models.Warning, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, errors.New("warning reason must not be empty")
	}

	warning := models.Warning{
		UserID:  userID,
		GuildID: guildID,
		Reason:  reason,
		Date:    time.Now(),
	}
	if err := db.Create(&warning).Error; err != nil {
		return nil, err
	}
	return &warning, nil
}

// ListWarnings returns warnings most recent first. A limit of 0 means
// unbounded.
func ListWarnings(db *gorm.DB, userID, guildID string, limit int) ([]models.Warning, error) {
	var warnings []models.Warning
	query := db.Where("user_id = ? AND guild_id = ?", userID, guildID).
		Order("date DESC, id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&warnings).Error; err != nil {
		return nil, err
	}
	return warnings, nil
}

// ClearWarnings deletes every warning for the member and reports how many
// rows went away. Zero is not an error here; callers turn it into a
// user-facing "no warnings" notice.
func ClearWarnings(db *gorm.DB, userID, guildID string) (int64, error) {
	result := db.Where("user_id = ? AND guild_id = ?", userID, guildID).
		Delete(&models.Warning{})
	return result.RowsAffected, result.Error
}

// DeleteWarning removes the warning at the 1-based ordinal of the current
// most-recent-first listing. The listing is re-derived, unbounded, right
// before the ordinal is resolved so a stale view is never used.
func DeleteWarning(db *gorm.DB, userID, guildID string, ordinal int) (*models.Warning, error) {
	warnings, err := ListWarnings(db, userID, guildID, 0)
	if err != nil {
		return nil, err
	}
	if len(warnings) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	if ordinal < 1 || ordinal > len(warnings) {
		return nil, fmt.Errorf("%w: valid range 1-%d", ErrOutOfRange, len(warnings))
	}

	target := warnings[ordinal-1]
	if err := db.Delete(&models.Warning{}, target.ID).Error; err != nil {
		return nil, err
	}
	return &target, nil
}

func WarnCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionModerateMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}

	reason := common.StripMention(argTail, target)
	if reason == "" {
		return common.Validation("Specify a reason")
	}

	if _, err := AddWarning(db, target.ID, m.GuildID, reason); err != nil {
		return common.Internal(err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "warn", reason)

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Warned %s. Reason: %s", common.DisplayName(target), reason))
	return nil
}

func WarnsCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		target = m.Author
	}

	warnings, err := ListWarnings(db, target.ID, m.GuildID, 10)
	if err != nil {
		return common.Internal(err)
	}

	if len(warnings) == 0 {
		_, err := common.SendEmbed(s, m.ChannelID, "Warnings",
			fmt.Sprintf("%s has no warnings.", common.DisplayName(target)), common.ColorBlue)
		if err != nil {
			return common.Platform("Failed to send warning list", err)
		}
		return nil
	}

	lines := make([]string, 0, len(warnings))
	for i, w := range warnings {
		lines = append(lines, fmt.Sprintf("%d. %s - %s", i+1, w.Reason, w.Date.Format("Jan 2, 2006 15:04")))
	}

	_, err = common.SendEmbed(s, m.ChannelID,
		fmt.Sprintf("Warnings for %s", common.DisplayName(target)),
		strings.Join(lines, "\n"), common.ColorYellow)
	if err != nil {
		return common.Platform("Failed to send warning list", err)
	}
	return nil
}

func ClearWarnsCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionModerateMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}

	count, err := ClearWarnings(db, target.ID, m.GuildID)
	if err != nil {
		return common.Internal(err)
	}
	if count == 0 {
		return common.NotFound("User has no warnings")
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "clearwarns", fmt.Sprintf("%d warnings cleared", count))

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Cleared %d warnings for %s", count, common.DisplayName(target)))
	return nil
}

func DelWarnCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionModerateMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}

	ordinalPart := common.StripMention(argTail, target)
	if ordinalPart == "" {
		return common.Validation("Specify the warning number to remove")
	}
	ordinal, err := strconv.Atoi(ordinalPart)
	if err != nil {
		return common.Validation("Invalid warning number")
	}

	deleted, err := DeleteWarning(db, target.ID, m.GuildID, ordinal)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return common.NotFound("User has no warnings")
	case errors.Is(err, ErrOutOfRange):
		return common.Validation("Invalid warning number")
	case err != nil:
		return common.Internal(err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "delwarn", deleted.Reason)

	common.SuccessEmbed(s, m.ChannelID,
		fmt.Sprintf("Removed warning #%d from %s:\n\"%s\"", ordinal, common.DisplayName(target), deleted.Reason))
	return nil
}
