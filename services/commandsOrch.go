package services

import (
	"fmt"
	"runtime/debug"
	"strings"

	"crystalModBot/services/common"
	"crystalModBot/services/devService"
	"crystalModBot/services/funService"
	"crystalModBot/services/infoService"
	"crystalModBot/services/levelService"
	"crystalModBot/services/modService"
	"crystalModBot/services/muteService"
	"crystalModBot/services/ticketService"
	"crystalModBot/services/warnService"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type commandFunc func(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error

var prefixes = []string{";", "c."}

// SetPrefixes installs the command prefix list. Prefixes are tried in
// order; the first match wins.
func SetPrefixes(list []string) {
	if len(list) > 0 {
		prefixes = list
	}
}

// command carries the declared capability for a verb. The dispatcher
// gates on it; handlers still re-check on entry so they stay safe when
// called from anywhere else.
type command struct {
	permission int64
	devOnly    bool
	run        commandFunc
}

var commandTable = map[string]command{
	// Moderation
	"kick":       {permission: discordgo.PermissionKickMembers, run: modService.KickCommand},
	"ban":        {permission: discordgo.PermissionBanMembers, run: modService.BanCommand},
	"unban":      {permission: discordgo.PermissionBanMembers, run: modService.UnbanCommand},
	"purge":      {permission: discordgo.PermissionManageMessages, run: modService.PurgeCommand},
	"clear":      {permission: discordgo.PermissionManageMessages, run: modService.PurgeCommand},
	"addrole":    {permission: discordgo.PermissionManageRoles, run: modService.AddRoleCommand},
	"removerole": {permission: discordgo.PermissionManageRoles, run: modService.RemoveRoleCommand},
	"slowmode":   {permission: discordgo.PermissionManageChannels, run: modService.SlowmodeCommand},
	"mute":       {permission: discordgo.PermissionModerateMembers, run: muteService.MuteCommand},
	"unmute":     {permission: discordgo.PermissionModerateMembers, run: muteService.UnmuteCommand},
	"warn":       {permission: discordgo.PermissionModerateMembers, run: warnService.WarnCommand},
	"warns":      {run: warnService.WarnsCommand},
	"clearwarns": {permission: discordgo.PermissionModerateMembers, run: warnService.ClearWarnsCommand},
	"delwarn":    {permission: discordgo.PermissionModerateMembers, run: warnService.DelWarnCommand},

	// Information
	"userinfo":   {run: infoService.UserInfoCommand},
	"serverinfo": {run: infoService.ServerInfoCommand},
	"avatar":     {run: infoService.AvatarCommand},
	"servericon": {run: infoService.ServerIconCommand},
	"ping":       {run: infoService.PingCommand},
	"website":    {run: infoService.WebsiteCommand},
	"invite":     {run: infoService.InviteCommand},
	"help":       {run: infoService.HelpCommand},
	"level":      {run: levelService.LevelCommand},

	// Fun
	"joke":      {run: funService.JokeCommand},
	"8ball":     {run: funService.EightBallCommand},
	"flip":      {run: funService.FlipCommand},
	"weight":    {run: funService.WeightCommand},
	"height":    {run: funService.HeightCommand},
	"bodycount": {run: funService.BodyCountCommand},
	"bald":      {run: funService.BaldCommand},
	"eat":       {run: funService.EatCommand},
	"kiss":      {run: funService.KissCommand},
	"hug":       {run: funService.HugCommand},
	"rate":      {run: funService.RateCommand},
	"cat":       {run: funService.CatCommand},
	"dog":       {run: funService.DogCommand},
	"meme":      {run: funService.MemeCommand},
	"tictactoe": {run: funService.TicTacToeCommand},
	"ttt":       {run: funService.TicTacToeCommand},

	// Tickets
	"ticket": {run: ticketService.TicketCommand},

	// Developer
	"devcommands": {devOnly: true, run: devService.DevCommandsCommand},
	"devinfo":     {devOnly: true, run: devService.DevInfoCommand},
	"botinfo":     {devOnly: true, run: devService.BotInfoCommand},
	"stats":       {devOnly: true, run: devService.StatsCommand},
	"dm":          {devOnly: true, run: devService.DMCommand},
	"servers":     {devOnly: true, run: devService.ServersCommand},
	"setactivity": {devOnly: true, run: devService.SetActivityCommand},
	"shutdown":    {devOnly: true, run: devService.ShutdownCommand},
	"restart":     {devOnly: true, run: devService.RestartCommand},
}

// splitCommand strips the first matching prefix and breaks the remainder
// into a lowercased verb, whitespace-split args and the raw tail after the
// verb. ok is false when no prefix matches or nothing follows it.
func splitCommand(content string) (verb string, args []string, argTail string, ok bool) {
	for _, prefix := range prefixes {
		if !strings.HasPrefix(content, prefix) {
			continue
		}
		rest := strings.TrimSpace(content[len(prefix):])
		if rest == "" {
			return "", nil, "", false
		}
		fields := strings.Fields(rest)
		verb = strings.ToLower(fields[0])
		args = fields[1:]
		argTail = strings.TrimSpace(strings.TrimPrefix(rest, fields[0]))
		return verb, args, argTail, true
	}
	return "", nil, "", false
}

// HandleMessage is the MessageCreate entrypoint: XP accrual runs on every
// guild message, then ticket close handling, then command dispatch.
// Unknown verbs are ignored so prefixed chatter does not produce noise.
func HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB) {
	levelService.HandleMessage(s, m, db)

	if m.Author == nil || m.Author.Bot || m.GuildID == "" {
		return
	}

	if ticketService.HandleClose(s, m) {
		return
	}

	verb, args, argTail, ok := splitCommand(m.Content)
	if !ok {
		return
	}
	cmd, known := commandTable[verb]
	if !known {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			log.WithFields(log.Fields{"command": verb, "guild": m.GuildID}).
				Errorf("recovered from panic: %v\n%s", r, debug.Stack())
			common.RecordError(db, m.GuildID, "command:"+verb, fmt.Errorf("panic: %v", r))
			common.ErrorEmbed(s, m.ChannelID, "An error occurred while executing that command")
		}
	}()

	if cmd.devOnly && !common.IsDev(m.Author.ID) {
		respondError(s, m, db, verb, common.Permission())
		return
	}
	if cmd.permission != 0 {
		if err := common.RequirePermission(s, m, cmd.permission); err != nil {
			respondError(s, m, db, verb, err)
			return
		}
	}

	if err := cmd.run(s, m, db, args, argTail); err != nil {
		respondError(s, m, db, verb, err)
	}
}

// respondError maps a command failure to the channel response. Platform and
// internal failures also land in the error log.
func respondError(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, verb string, err error) {
	switch common.KindOf(err) {
	case common.KindValidation, common.KindPermission, common.KindNotFound:
		common.ErrorEmbed(s, m.ChannelID, common.UserMessage(err))
	default:
		common.RecordError(db, m.GuildID, "command:"+verb, err)
		common.ErrorEmbed(s, m.ChannelID, common.UserMessage(err))
	}
}
