package infoService

import (
	"fmt"
	"strings"
	"time"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

func guildFor(s *discordgo.Session, guildID string) (*discordgo.Guild, error) {
	if guild, err := s.State.Guild(guildID); err == nil {
		return guild, nil
	}
	return s.Guild(guildID)
}

func memberFor(s *discordgo.Session, guildID, userID string) (*discordgo.Member, error) {
	if member, err := s.State.Member(guildID, userID); err == nil {
		return member, nil
	}
	return s.GuildMember(guildID, userID)
}

func UserInfoCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		target = m.Author
	}

	member, err := memberFor(s, m.GuildID, target.ID)
	if err != nil {
		return common.Platform("Could not look up that member", err)
	}

	roleNames := make([]string, 0, len(member.Roles))
	if guild, err := guildFor(s, m.GuildID); err == nil {
		for _, roleID := range member.Roles {
			for _, role := range guild.Roles {
				if role.ID == roleID && role.ID != m.GuildID {
					roleNames = append(roleNames, role.Name)
				}
			}
		}
	}
	roles := "None"
	if len(roleNames) > 0 {
		roles = strings.Join(roleNames, ", ")
	}

	created, err := discordgo.SnowflakeTimestamp(target.ID)
	if err != nil {
		created = time.Time{}
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s Info", common.DisplayName(target)),
		Color:     common.ColorBlue,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: target.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "ID", Value: target.ID, Inline: true},
			{Name: "Joined", Value: fmt.Sprintf("<t:%d:R>", member.JoinedAt.Unix()), Inline: true},
			{Name: "Created", Value: fmt.Sprintf("<t:%d:R>", created.Unix()), Inline: true},
			{Name: "Roles", Value: roles},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send user info", err)
	}
	return nil
}

func ServerInfoCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	guild, err := guildFor(s, m.GuildID)
	if err != nil {
		return common.Platform("Could not look up this server", err)
	}

	ownerName := guild.OwnerID
	if owner, err := s.User(guild.OwnerID); err == nil {
		ownerName = common.DisplayName(owner)
	}

	channels := guild.Channels
	if len(channels) == 0 {
		channels, _ = s.GuildChannels(m.GuildID)
	}
	textChannels, voiceChannels := 0, 0
	for _, channel := range channels {
		switch channel.Type {
		case discordgo.ChannelTypeGuildText:
			textChannels++
		case discordgo.ChannelTypeGuildVoice:
			voiceChannels++
		}
	}

	created, err := discordgo.SnowflakeTimestamp(guild.ID)
	if err != nil {
		created = time.Time{}
	}
	// Exclude @everyone from the role count.
	roleCount := len(guild.Roles) - 1
	if roleCount < 0 {
		roleCount = 0
	}

	embed := &discordgo.MessageEmbed{
		Title:     fmt.Sprintf("%s Information", guild.Name),
		Color:     common.ColorBlue,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: guild.IconURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Owner", Value: ownerName, Inline: true},
			{Name: "Created", Value: fmt.Sprintf("<t:%d:R>", created.Unix()), Inline: true},
			{Name: "Members", Value: fmt.Sprintf("%d", guild.MemberCount), Inline: true},
			{Name: "Roles", Value: fmt.Sprintf("%d", roleCount), Inline: true},
			{Name: "Text Channels", Value: fmt.Sprintf("%d", textChannels), Inline: true},
			{Name: "Voice Channels", Value: fmt.Sprintf("%d", voiceChannels), Inline: true},
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send server info", err)
	}
	return nil
}

func AvatarCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		target = m.Author
	}

	// Prefer the per-server avatar when the member has one.
	avatar := target.AvatarURL("1024")
	if member, err := memberFor(s, m.GuildID, target.ID); err == nil && member.Avatar != "" {
		avatar = member.AvatarURL("1024")
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s's Avatar", target.Username),
		Description: fmt.Sprintf("[Download](%s)", avatar),
		Color:       common.ColorBlue,
		Image:       &discordgo.MessageEmbedImage{URL: avatar},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send avatar", err)
	}
	return nil
}

func ServerIconCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	guild, err := guildFor(s, m.GuildID)
	if err != nil {
		return common.Platform("Could not look up this server", err)
	}
	if guild.Icon == "" {
		return common.NotFound("Server has no icon")
	}

	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s Server Icon", guild.Name),
		Color: common.ColorBlue,
		Image: &discordgo.MessageEmbedImage{URL: guild.IconURL("1024")},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send server icon", err)
	}
	return nil
}

func PingCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	sent, err := s.ChannelMessageSend(m.ChannelID, "Pinging...")
	if err != nil {
		return common.Platform("Failed to ping", err)
	}

	sentAt, err := discordgo.SnowflakeTimestamp(sent.ID)
	if err != nil {
		sentAt = time.Now()
	}
	createdAt, err := discordgo.SnowflakeTimestamp(m.ID)
	if err != nil {
		createdAt = sentAt
	}

	embed := &discordgo.MessageEmbed{
		Title: "🏓 Pong!",
		Color: common.ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Bot Latency", Value: fmt.Sprintf("%dms", sentAt.Sub(createdAt).Milliseconds()), Inline: true},
			{Name: "API Latency", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
		},
	}
	empty := ""
	_, err = s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: m.ChannelID,
		ID:      sent.ID,
		Content: &empty,
		Embeds:  &[]*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		return common.Platform("Failed to update ping message", err)
	}
	return nil
}

func WebsiteCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	_, err := common.SendEmbed(s, m.ChannelID, "Website", "[Visit our website](https://crystal-mc.xyz)", common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send website link", err)
	}
	return nil
}

func InviteCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	invite, err := s.ChannelInviteCreate(m.ChannelID, discordgo.Invite{
		MaxAge:  86400,
		MaxUses: 10,
	})
	if err != nil {
		return common.Platform("Failed to create invite", err)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Server Invite",
		Description: fmt.Sprintf("Here's your invite link: https://discord.gg/%s", invite.Code),
		Color:       0x9b59b6,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Expires in 24 hours or after 10 uses"},
	}
	channel, err := s.UserChannelCreate(m.Author.ID)
	if err != nil {
		return common.Platform("Couldn't send DM. Check your privacy settings!", err)
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return common.Platform("Couldn't send DM. Check your privacy settings!", err)
	}

	common.SuccessEmbed(s, m.ChannelID, "Invite sent to your DMs!")
	return nil
}
