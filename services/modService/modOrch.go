package modService

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var idCleaner = regexp.MustCompile(`[<@!>]`)

func KickCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionKickMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}

	reason := common.StripMention(argTail, target)
	if reason == "" {
		reason = "No reason provided"
	}

	if err := s.GuildMemberDeleteWithReason(m.GuildID, target.ID, reason); err != nil {
		return common.Platform("Cannot kick this user", err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "kick", reason)

	_, err := common.SendEmbed(s, m.ChannelID, "User Kicked", "", common.ColorOrange,
		&discordgo.MessageEmbedField{Name: "User", Value: common.DisplayName(target), Inline: true},
		&discordgo.MessageEmbedField{Name: "Moderator", Value: common.DisplayName(m.Author), Inline: true},
		&discordgo.MessageEmbedField{Name: "Reason", Value: reason},
	)
	if err != nil {
		return common.Platform("Failed to send kick notice", err)
	}
	return nil
}

func BanCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionBanMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}
	if target.ID == m.Author.ID {
		return common.Validation("You cannot ban yourself")
	}

	reason := common.StripMention(argTail, target)
	if reason == "" {
		reason = "No reason provided"
	}

	if err := s.GuildBanCreateWithReason(m.GuildID, target.ID, reason, 0); err != nil {
		return common.Platform("Cannot ban this user", err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "ban", reason)

	embed := &discordgo.MessageEmbed{
		Title: "User Banned",
		Color: common.ColorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: common.DisplayName(target), Inline: true},
			{Name: "Moderator", Value: common.DisplayName(m.Author), Inline: true},
			{Name: "Reason", Value: reason},
		},
	}
	unbanButton := discordgo.ActionsRow{
		Components: []discordgo.MessageComponent{
			discordgo.Button{
				CustomID: fmt.Sprintf("unban_%s", target.ID),
				Label:    "Unban",
				Style:    discordgo.DangerButton,
			},
		},
	}
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{unbanButton},
	})
	if err != nil {
		return common.Platform("Failed to send ban notice", err)
	}
	return nil
}

func UnbanCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionBanMembers); err != nil {
		return err
	}

	if len(args) == 0 {
		return common.Validation("Provide user ID")
	}
	userID := idCleaner.ReplaceAllString(args[0], "")
	if userID == "" {
		return common.Validation("Provide user ID")
	}

	if err := s.GuildBanDelete(m.GuildID, userID); err != nil {
		return common.Platform("Failed to unban user", err)
	}
	common.ModLog(db, m.GuildID, userID, m.Author.ID, "unban", "")

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Unbanned user <@%s>", userID))
	return nil
}

func PurgeCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionManageMessages); err != nil {
		return err
	}

	amount, err := strconv.Atoi(strings.TrimSpace(argTail))
	if err != nil || amount < 1 || amount > 100 {
		return common.Validation("Please provide a valid number between 1 and 100")
	}

	// Fetch one extra so the command message itself goes too.
	messages, err := s.ChannelMessages(m.ChannelID, amount+1, "", "", "")
	if err != nil {
		return common.Platform("Failed to fetch messages", err)
	}
	ids := make([]string, 0, len(messages))
	for _, msg := range messages {
		ids = append(ids, msg.ID)
	}
	if err := s.ChannelMessagesBulkDelete(m.ChannelID, ids); err != nil {
		return common.Platform("Failed to delete messages", err)
	}

	confirm, err := common.SendEmbed(s, m.ChannelID, "Success",
		fmt.Sprintf("✅ Deleted %d messages", amount), common.ColorGreen)
	if err == nil && confirm != nil {
		time.AfterFunc(5*time.Second, func() {
			if err := s.ChannelMessageDelete(m.ChannelID, confirm.ID); err != nil {
				log.WithError(err).Debug("purge confirmation cleanup failed")
			}
		})
	}
	return nil
}

func AddRoleCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionManageRoles); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}
	if len(m.MentionRoles) == 0 {
		return common.Validation("Mention a role")
	}
	roleID := m.MentionRoles[0]

	if err := s.GuildMemberRoleAdd(m.GuildID, target.ID, roleID); err != nil {
		return common.Platform("Failed to add role", err)
	}

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Added <@&%s> role to %s", roleID, common.DisplayName(target)))
	return nil
}

func RemoveRoleCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionManageRoles); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}
	if len(m.MentionRoles) == 0 {
		return common.Validation("Mention a role")
	}
	roleID := m.MentionRoles[0]

	if err := s.GuildMemberRoleRemove(m.GuildID, target.ID, roleID); err != nil {
		return common.Platform("Failed to remove role", err)
	}

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Removed <@&%s> role from %s", roleID, common.DisplayName(target)))
	return nil
}

func SlowmodeCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionManageChannels); err != nil {
		return err
	}

	seconds := 0
	if len(args) > 0 && !strings.EqualFold(args[0], "off") {
		if plain, err := strconv.Atoi(args[0]); err == nil {
			seconds = plain
		} else if d, err := common.ParseDuration(args[0]); err == nil {
			seconds = int(d.Seconds())
		} else {
			return common.Validation("Invalid time format! Use seconds (10), minutes (5m), or hours (2h)")
		}
	}
	if seconds < 0 || seconds > 21600 {
		return common.Validation("Slowmode must be between 0 and 6 hours (21600 seconds)")
	}

	_, err := s.ChannelEdit(m.ChannelID, &discordgo.ChannelEdit{RateLimitPerUser: &seconds})
	if err != nil {
		return common.Platform("Failed to set slowmode", err)
	}

	if seconds == 0 {
		common.SuccessEmbed(s, m.ChannelID, "Slowmode has been turned off in this channel")
		return nil
	}
	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Slowmode set to %d seconds", seconds))
	return nil
}
