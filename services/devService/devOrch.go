package devService

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var startTime = time.Now()

func uptime() string {
	return time.Since(startTime).Round(time.Second).String()
}

func requireDev(m *discordgo.MessageCreate) error {
	if !common.IsDev(m.Author.ID) {
		return common.Permission()
	}
	return nil
}

func DevCommandsCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	commands := []string{
		"devcommands - List developer commands",
		"devinfo - Bot information",
		"botinfo - Detailed bot information",
		"dm <id> <msg> - DM a user",
		"servers - List servers",
		"shutdown - Stop bot",
		"restart - Restart bot",
		"setactivity <text> - Change status",
		"stats - System stats",
	}
	_, err := common.SendEmbed(s, m.ChannelID, "Developer Commands", strings.Join(commands, "\n"), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send command list", err)
	}
	return nil
}

func StatsCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	_, err := common.SendEmbed(s, m.ChannelID, "System Stats", "", common.ColorBlue,
		&discordgo.MessageEmbedField{Name: "RAM Usage", Value: fmt.Sprintf("%.2f MB", float64(mem.Sys)/1024/1024), Inline: true},
		&discordgo.MessageEmbedField{Name: "Heap", Value: fmt.Sprintf("%.2f MB", float64(mem.HeapAlloc)/1024/1024), Inline: true},
		&discordgo.MessageEmbedField{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		&discordgo.MessageEmbedField{Name: "Uptime", Value: uptime(), Inline: true},
	)
	if err != nil {
		return common.Platform("Failed to send stats", err)
	}
	return nil
}

func botInfoFields(s *discordgo.Session) []*discordgo.MessageEmbedField {
	totalGuilds := len(s.State.Guilds)
	totalUsers := 0
	for _, guild := range s.State.Guilds {
		totalUsers += guild.MemberCount
	}

	return []*discordgo.MessageEmbedField{
		{Name: "Bot Tag", Value: common.DisplayName(s.State.User), Inline: true},
		{Name: "Bot ID", Value: s.State.User.ID, Inline: true},
		{Name: "Ping", Value: fmt.Sprintf("%dms", s.HeartbeatLatency().Milliseconds()), Inline: true},
		{Name: "Uptime", Value: uptime(), Inline: true},
		{Name: "Servers", Value: fmt.Sprintf("%d", totalGuilds), Inline: true},
		{Name: "Users", Value: fmt.Sprintf("%d", totalUsers), Inline: true},
		{Name: "Platform", Value: fmt.Sprintf("%s (%s)", runtime.GOOS, runtime.GOARCH), Inline: true},
		{Name: "Go", Value: runtime.Version(), Inline: true},
	}
}

func DevInfoCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	_, err := common.SendEmbed(s, m.ChannelID, "Bot Information", "", common.ColorBlue, botInfoFields(s)...)
	if err != nil {
		return common.Platform("Failed to send bot info", err)
	}
	return nil
}

func BotInfoCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	embed := &discordgo.MessageEmbed{
		Title:     "🤖 Crystal Bot Info",
		Color:     common.ColorBlue,
		Thumbnail: &discordgo.MessageEmbedThumbnail{URL: s.State.User.AvatarURL("")},
		Fields:    botInfoFields(s),
		Footer:    &discordgo.MessageEmbedFooter{Text: "Crystal Bot • v2.0"},
		Timestamp: time.Now().Format(time.RFC3339),
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send bot info", err)
	}
	return nil
}

func DMCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	if len(args) < 2 {
		return common.Validation("Usage: ;dm <userID> <message>")
	}
	targetID := args[0]
	content := strings.TrimSpace(strings.TrimPrefix(argTail, targetID))
	if content == "" {
		return common.Validation("Usage: ;dm <userID> <message>")
	}

	user, err := s.User(targetID)
	if err != nil {
		return common.NotFound("Could not find that user")
	}
	if user.Bot {
		return common.Validation("Cannot DM bots")
	}

	footer := fmt.Sprintf("Sent by %s", common.DisplayName(m.Author))
	if guild, err := s.State.Guild(m.GuildID); err == nil {
		footer = fmt.Sprintf("Sent by %s from %s", common.DisplayName(m.Author), guild.Name)
	}
	embed := &discordgo.MessageEmbed{
		Description: content,
		Color:       0x5865f2,
		Footer:      &discordgo.MessageEmbedFooter{Text: footer},
		Timestamp:   time.Now().Format(time.RFC3339),
	}

	channel, err := s.UserChannelCreate(user.ID)
	if err != nil {
		return common.Platform("Failed to send DM", err)
	}
	if _, err := s.ChannelMessageSendEmbed(channel.ID, embed); err != nil {
		return common.Platform("User has DMs disabled", err)
	}

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Message sent to %s", common.DisplayName(user)))
	return nil
}

func ServersCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	lines := make([]string, 0, len(s.State.Guilds))
	for _, guild := range s.State.Guilds {
		lines = append(lines, fmt.Sprintf("%s (%s)", guild.Name, guild.ID))
	}
	list := strings.Join(lines, "\n")
	if len(list) > 2000 {
		list = list[:2000]
	}
	if list == "" {
		list = "No servers"
	}

	_, err := common.SendEmbed(s, m.ChannelID, "Server List", list, common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send server list", err)
	}
	return nil
}

func ShutdownCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	if _, err := common.SendEmbed(s, m.ChannelID, "Shutting Down", "Bot is shutting down...", common.ColorBlue); err != nil {
		log.WithError(err).Warn("failed to send shutdown notice")
	}
	log.WithField("requested_by", m.Author.ID).Info("shutdown requested")
	os.Exit(0)
	return nil
}

// RestartCommand exits nonzero so a supervisor restarts the process.
func RestartCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	if _, err := common.SendEmbed(s, m.ChannelID, "Restarting", "Bot is restarting...", common.ColorBlue); err != nil {
		log.WithError(err).Warn("failed to send restart notice")
	}
	log.WithField("requested_by", m.Author.ID).Info("restart requested")
	os.Exit(1)
	return nil
}

var activityTypes = map[string]discordgo.ActivityType{
	"PLAYING":   discordgo.ActivityTypeGame,
	"STREAMING": discordgo.ActivityTypeStreaming,
	"LISTENING": discordgo.ActivityTypeListening,
	"WATCHING":  discordgo.ActivityTypeWatching,
	"COMPETING": discordgo.ActivityTypeCompeting,
}

func SetActivityCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	if err := requireDev(m); err != nil {
		return err
	}

	input := strings.TrimSpace(argTail)
	if input == "" {
		return common.Validation("Usage: ;setactivity [type] <text>")
	}

	activityType := discordgo.ActivityTypeGame
	typeName := "PLAYING"
	text := input
	parts := strings.Fields(input)
	if t, ok := activityTypes[strings.ToUpper(parts[0])]; ok {
		activityType = t
		typeName = strings.ToUpper(parts[0])
		text = strings.TrimSpace(strings.TrimPrefix(input, parts[0]))
	}
	if text == "" {
		return common.Validation("Please provide activity text")
	}

	activity := &discordgo.Activity{Name: text, Type: activityType}
	if activityType == discordgo.ActivityTypeStreaming {
		activity.URL = "https://twitch.tv/crystal_mc"
	}
	err := s.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{activity},
	})
	if err != nil {
		return common.Platform("Failed to set activity", err)
	}

	common.SuccessEmbed(s, m.ChannelID, fmt.Sprintf("Activity set to: %s %s", typeName, text))
	return nil
}
