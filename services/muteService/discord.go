package muteService

import (
	"errors"
	"fmt"
	"strings"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	mutedRoleName   = "Muted"
	auditLogChannel = "admins-log"
)

type sessionRoles struct {
	s *discordgo.Session
}

// DiscordRoles returns the RoleManager backed by the live session.
func DiscordRoles(s *discordgo.Session) RoleManager {
	return &sessionRoles{s: s}
}

func (r *sessionRoles) EnsureMutedRole(guildID string) (string, error) {
	roles, err := r.s.GuildRoles(guildID)
	if err != nil {
		return "", err
	}
	for _, role := range roles {
		if role.Name == mutedRoleName {
			return role.ID, nil
		}
	}

	perms := int64(0)
	role, err := r.s.GuildRoleCreate(guildID, &discordgo.RoleParams{
		Name:        mutedRoleName,
		Permissions: &perms,
	})
	if err != nil {
		return "", err
	}

	// Deny speaking in existing text and voice channels. Channels that
	// refuse the overwrite are skipped; the role itself is still usable.
	channels, err := r.s.GuildChannels(guildID)
	if err != nil {
		return role.ID, nil
	}
	deny := int64(discordgo.PermissionSendMessages | discordgo.PermissionAddReactions | discordgo.PermissionVoiceSpeak)
	for _, channel := range channels {
		err := r.s.ChannelPermissionSet(channel.ID, role.ID, discordgo.PermissionOverwriteTypeRole, 0, deny)
		if err != nil {
			log.WithFields(log.Fields{"guild": guildID, "channel": channel.ID}).
				WithError(err).Warn("failed to set muted role overwrite")
		}
	}

	return role.ID, nil
}

func (r *sessionRoles) AddRole(guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleAdd(guildID, userID, roleID)
}

func (r *sessionRoles) RemoveRole(guildID, userID, roleID string) error {
	return r.s.GuildMemberRoleRemove(guildID, userID, roleID)
}

type sessionNotifier struct {
	s *discordgo.Session
}

// DiscordNotifier returns the best-effort Notifier backed by the live
// session.
func DiscordNotifier(s *discordgo.Session) Notifier {
	return &sessionNotifier{s: s}
}

func (n *sessionNotifier) AuditLog(guildID string, embed *discordgo.MessageEmbed) {
	channels, err := n.s.GuildChannels(guildID)
	if err != nil {
		log.WithField("guild", guildID).WithError(err).Warn("audit log channel lookup failed")
		return
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && channel.Name == auditLogChannel {
			if _, err := n.s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
				log.WithField("guild", guildID).WithError(err).Warn("audit log send failed")
			}
			return
		}
	}
}

func (n *sessionNotifier) DirectMessage(userID string, embed *discordgo.MessageEmbed) {
	channel, err := n.s.UserChannelCreate(userID)
	if err != nil {
		log.WithField("user", userID).WithError(err).Debug("could not open DM channel")
		return
	}
	if _, err := n.s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		log.WithField("user", userID).WithError(err).Debug("could not send DM")
	}
}

func MuteCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionModerateMembers); err != nil {
		return err
	}

	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention a user")
	}

	rest := strings.Fields(common.StripMention(argTail, target))
	durationToken := ""
	reason := "No reason provided"
	if len(rest) > 0 {
		if _, err := common.ParseDuration(rest[0]); err == nil {
			durationToken = rest[0]
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		reason = strings.Join(rest, " ")
	}

	result, err := Mute(db, sched, DiscordRoles(s), DiscordNotifier(s), m.GuildID, target.ID, m.Author.ID, durationToken, reason)
	switch {
	case errors.Is(err, ErrAlreadyMuted):
		return common.Validation("User already muted")
	case errors.Is(err, ErrRoleUnavailable):
		return common.Platform("Muted role missing", err)
	case err != nil:
		return common.Platform("Failed to mute user", err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "mute", reason)

	fields := []*discordgo.MessageEmbedField{
		{Name: "User", Value: common.DisplayName(target), Inline: true},
		{Name: "Duration", Value: result.DurationText, Inline: true},
		{Name: "Reason", Value: reason, Inline: true},
	}
	if result.ExpiresAt != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  "Will be unmuted",
			Value: fmt.Sprintf("<t:%d:R>", result.ExpiresAt.Unix()),
		})
	}
	if _, err := common.SendEmbed(s, m.ChannelID, "User Muted", "", common.ColorOrange, fields...); err != nil {
		return common.Platform("Failed to send mute notice", err)
	}

	dmEmbed := &discordgo.MessageEmbed{
		Title: "You were muted",
		Color: common.ColorOrange,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Duration", Value: result.DurationText, Inline: true},
			{Name: "Reason", Value: reason, Inline: true},
		},
	}
	if result.ExpiresAt != nil {
		dmEmbed.Fields = append(dmEmbed.Fields, &discordgo.MessageEmbedField{
			Name:  "Will be unmuted",
			Value: fmt.Sprintf("<t:%d:R>", result.ExpiresAt.Unix()),
		})
	}
	DiscordNotifier(s).DirectMessage(target.ID, dmEmbed)
	return nil
}

func UnmuteCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := common.RequirePermission(s, m, discordgo.PermissionModerateMembers); err != nil {
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

	err := Unmute(db, sched, DiscordRoles(s), DiscordNotifier(s), m.GuildID, target.ID, reason, SourceManual)
	switch {
	case errors.Is(err, ErrNotMuted):
		return common.NotFound("User not muted")
	case errors.Is(err, ErrRoleUnavailable):
		return common.Platform("Muted role missing", err)
	case err != nil:
		return common.Platform("Failed to unmute user", err)
	}
	common.ModLog(db, m.GuildID, target.ID, m.Author.ID, "unmute", reason)

	_, err = common.SendEmbed(s, m.ChannelID, "User Unmuted", "", common.ColorGreen,
		&discordgo.MessageEmbedField{Name: "User", Value: common.DisplayName(target), Inline: true},
		&discordgo.MessageEmbedField{Name: "Reason", Value: reason, Inline: true},
	)
	if err != nil {
		return common.Platform("Failed to send unmute notice", err)
	}
	return nil
}
