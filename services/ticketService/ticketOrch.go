package ticketService

import (
	"fmt"
	"strings"
	"time"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const channelPrefix = "ticket-"

func ticketChannelName(username string) string {
	return channelPrefix + strings.ToLower(username)
}

// TicketCommand opens a private text channel visible only to the opener
// and the bot. One open ticket per user.
func TicketCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	name := ticketChannelName(m.Author.Username)

	channels, err := s.GuildChannels(m.GuildID)
	if err != nil {
		return common.Platform("Failed to look up channels", err)
	}
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText && channel.Name == name {
			_, err := common.SendEmbed(s, m.ChannelID, "Ticket", "🎫 You already have an open ticket.", common.ColorBlue)
			if err != nil {
				return common.Platform("Failed to send ticket notice", err)
			}
			return nil
		}
	}

	allow := int64(discordgo.PermissionViewChannel | discordgo.PermissionSendMessages)
	overwrites := []*discordgo.PermissionOverwrite{
		{
			// @everyone shares the guild's id.
			ID:   m.GuildID,
			Type: discordgo.PermissionOverwriteTypeRole,
			Deny: int64(discordgo.PermissionViewChannel),
		},
		{
			ID:    m.Author.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: allow,
		},
		{
			ID:    s.State.User.ID,
			Type:  discordgo.PermissionOverwriteTypeMember,
			Allow: allow,
		},
	}

	ticket, err := s.GuildChannelCreateComplex(m.GuildID, discordgo.GuildChannelCreateData{
		Name:                 name,
		Type:                 discordgo.ChannelTypeGuildText,
		PermissionOverwrites: overwrites,
	})
	if err != nil {
		return common.Platform("Failed to create ticket channel", err)
	}

	_, err = common.SendEmbed(s, ticket.ID, "New Ticket",
		fmt.Sprintf("👋 Hello <@%s>, staff will be with you shortly. Use `close` to close the ticket.", m.Author.ID),
		common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send ticket greeting", err)
	}
	return nil
}

// HandleClose watches for a bare "close" inside a ticket channel from the
// ticket's opener and tears the channel down. Reports whether the message
// was consumed.
func HandleClose(s *discordgo.Session, m *discordgo.MessageCreate) bool {
	if m.Author == nil || m.Author.Bot {
		return false
	}
	if !strings.EqualFold(strings.TrimSpace(m.Content), "close") {
		return false
	}

	channel, err := s.Channel(m.ChannelID)
	if err != nil || channel.Type != discordgo.ChannelTypeGuildText {
		return false
	}
	if channel.Name != ticketChannelName(m.Author.Username) {
		return false
	}

	_, err = common.SendEmbed(s, channel.ID, "Closing Ticket", "🚪 This ticket will close in 5 seconds...", common.ColorBlue)
	if err != nil {
		log.WithError(err).Warn("failed to send ticket close notice")
	}
	time.AfterFunc(5*time.Second, func() {
		if _, err := s.ChannelDelete(channel.ID); err != nil {
			log.WithField("channel", channel.ID).WithError(err).Warn("failed to delete ticket channel")
		}
	})
	return true
}
