package services

import (
	"fmt"
	"strings"

	"crystalModBot/services/common"
	"crystalModBot/services/funService"
	"crystalModBot/services/infoService"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// HandleComponentInteraction routes button presses by custom id prefix:
// unban_<userID>, ttt_<gameID>_<cell> and help_<userID>_<page>.
func HandleComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, "unban_"):
		handleUnbanButton(s, i, db, strings.TrimPrefix(customID, "unban_"))
	case strings.HasPrefix(customID, "ttt_"):
		parts := strings.Split(customID, "_")
		if len(parts) != 3 {
			return
		}
		funService.HandleMove(s, i, parts[1], parts[2])
	case strings.HasPrefix(customID, "help_"):
		parts := strings.Split(customID, "_")
		if len(parts) != 3 {
			return
		}
		infoService.HandleHelpPage(s, i, parts[1], parts[2])
	}
}

// handleUnbanButton re-checks ban permission at click time; the button can
// outlive the moderator who posted it.
func handleUnbanButton(s *discordgo.Session, i *discordgo.InteractionCreate, db *gorm.DB, userID string) {
	if i.Member == nil || i.Member.Permissions&(discordgo.PermissionBanMembers|discordgo.PermissionAdministrator) == 0 {
		ephemeral(s, i, "Missing permissions")
		return
	}

	moderator := ""
	if i.Member.User != nil {
		moderator = i.Member.User.ID
	}

	if err := s.GuildBanDelete(i.GuildID, userID); err != nil {
		log.WithFields(log.Fields{"guild": i.GuildID, "user": userID}).WithError(err).Error("unban button failed")
		ephemeral(s, i, "Failed to unban user")
		return
	}
	common.ModLog(db, i.GuildID, userID, moderator, "unban", "")

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: fmt.Sprintf("Unbanned <@%s>", userID),
		},
	})
	if err != nil {
		log.WithError(err).Warn("failed to acknowledge unban")
	}
}

func ephemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Debug("failed to send ephemeral response")
	}
}
