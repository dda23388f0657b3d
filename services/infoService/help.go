package infoService

import (
	"fmt"
	"strconv"
	"strings"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type helpPage struct {
	title       string
	description string
	commands    []string
}

var helpPages = []helpPage{
	{
		title:       "Moderation Commands",
		description: "Commands for server moderation",
		commands: []string{
			"`kick <user> [reason]` - Kick a user",
			"`ban <user> [reason]` - Ban a user",
			"`unban <userID>` - Unban a user",
			"`mute <user> [time] [reason]` - Mute a user",
			"`unmute <user>` - Unmute a user",
			"`purge <amount>` - Delete messages",
			"`warn <user> <reason>` - Warn a user",
			"`warns [user]` - View warnings",
			"`clearwarns <user>` - Clear warnings",
			"`delwarn <user> <num>` - Delete a specific warning",
			"`addrole <user> <role>` - Add role to user",
			"`removerole <user> <role>` - Remove role from user",
			"`slowmode [time]` - Set slowmode",
		},
	},
	{
		title:       "Information Commands",
		description: "Commands for server information",
		commands: []string{
			"`userinfo [user]` - Show user details",
			"`serverinfo` - Show server information",
			"`avatar [user]` - Show user avatar",
			"`servericon` - Show server icon",
			"`level [user]` - Show level/XP",
			"`website` - Show website link",
			"`ping` - Check bot latency",
			"`invite` - Get server invite",
		},
	},
	{
		title:       "Fun Commands",
		description: "Entertainment commands",
		commands: []string{
			"`joke` - Tell a random joke",
			"`8ball <question>` - Magic 8-ball",
			"`flip` - Flip a coin",
			"`cat` - Show random cat image",
			"`dog` - Show random dog image",
			"`weight` - Generate random weight",
			"`bald` - Baldness checker",
			"`eat [user]` - Eat someone (roleplay)",
			"`kiss [user]` - Kiss someone (roleplay)",
			"`tictactoe @user` - Play Tic Tac Toe",
			"`hug [user]` - Hug someone (roleplay)",
			"`rate <thing>` - Rates anything out of 10",
			"`meme` - Sends a random meme",
		},
	},
}

var devHelpPage = helpPage{
	title:       "Developer Commands",
	description: "Bot owner only commands",
	commands: []string{
		"`devcommands` - List developer commands",
		"`devinfo` - Show bot info",
		"`botinfo` - Detailed bot information",
		"`dm <userID> <message>` - DM a user",
		"`servers` - List all servers",
		"`shutdown` - Shutdown bot",
		"`restart` - Restart bot",
		"`setactivity <text>` - Set bot activity",
		"`stats` - Show system stats",
	},
}

func pagesFor(userID string) []helpPage {
	pages := helpPages
	if common.IsDev(userID) {
		pages = append(append([]helpPage{}, helpPages...), devHelpPage)
	}
	return pages
}

func helpEmbed(pages []helpPage, page int) *discordgo.MessageEmbed {
	current := pages[page]
	return &discordgo.MessageEmbed{
		Title:       current.title,
		Description: current.description,
		Color:       common.ColorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Commands", Value: strings.Join(current.commands, "\n")},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", page+1, len(pages)),
		},
	}
}

// Paging buttons carry the invoking user's id and the target page so the
// handler is stateless.
func helpButtons(userID string, page, total int) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					CustomID: fmt.Sprintf("help_%s_%d", userID, page-1),
					Label:    "Previous",
					Style:    discordgo.PrimaryButton,
					Disabled: page == 0,
				},
				discordgo.Button{
					CustomID: fmt.Sprintf("help_%s_%d", userID, page+1),
					Label:    "Next",
					Style:    discordgo.PrimaryButton,
					Disabled: page == total-1,
				},
			},
		},
	}
}

func HelpCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	pages := pagesFor(m.Author.ID)
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{helpEmbed(pages, 0)},
		Components: helpButtons(m.Author.ID, 0, len(pages)),
	})
	if err != nil {
		return common.Platform("Failed to send help", err)
	}
	return nil
}

// HandleHelpPage flips the help message to the requested page. Only the
// user who invoked the command can page through it.
func HandleHelpPage(s *discordgo.Session, i *discordgo.InteractionCreate, ownerID, pageToken string) {
	userID := ""
	if i.Member != nil && i.Member.User != nil {
		userID = i.Member.User.ID
	} else if i.User != nil {
		userID = i.User.ID
	}
	if userID != ownerID {
		return
	}

	pages := pagesFor(ownerID)
	page, err := strconv.Atoi(pageToken)
	if err != nil || page < 0 || page >= len(pages) {
		return
	}

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{helpEmbed(pages, page)},
			Components: helpButtons(ownerID, page, len(pages)),
		},
	})
	if err != nil {
		log.WithError(err).Warn("failed to update help page")
	}
}
