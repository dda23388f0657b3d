package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"

	"crystalModBot/models"
	"crystalModBot/scheduler"
	"crystalModBot/services"
	"crystalModBot/services/common"
	"crystalModBot/services/muteService"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/xo/dburl"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var db *gorm.DB

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using process environment")
	}

	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if level, err := log.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		connString = "sqlite:crystalbot.db"
	}

	var err error
	db, err = openDatabase(connString)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	err = db.AutoMigrate(&models.Warning{}, &models.Mute{}, &models.XPRecord{}, &models.ModLog{}, &models.ErrorLog{})
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

// openDatabase picks the gorm driver from the URL scheme, so the same
// binary runs against sqlite, mysql or sqlserver.
func openDatabase(connString string) (*gorm.DB, error) {
	u, err := dburl.Parse(connString)
	if err != nil {
		return nil, err
	}

	config := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}
	switch u.Driver {
	case "mysql":
		dsn := u.DSN
		if !strings.Contains(dsn, "parseTime") {
			dsn += "?charset=utf8mb4&parseTime=True&loc=Local"
		}
		return gorm.Open(mysql.Open(dsn), config)
	case "sqlserver":
		return gorm.Open(sqlserver.Open(u.DSN), config)
	default:
		return gorm.Open(sqlite.Open(u.DSN), config)
	}
}

func splitEnvList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func main() {
	token := os.Getenv("DISCORD_BOT_TOKEN")
	if token == "" {
		log.Fatal("DISCORD_BOT_TOKEN not set in environment variables")
	}

	common.SetDevIDs(splitEnvList("DEV_IDS"))
	services.SetPrefixes(splitEnvList("COMMAND_PREFIXES"))

	dg, err := discordgo.New("Bot " + token)
	if err != nil {
		log.Fatalf("Error creating Discord session: %v", err)
	}

	dg.AddHandler(messageCreate)
	dg.AddHandler(interactionCreate)
	dg.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		if err := s.UpdateGameStatus(0, "Keeping the server tidy"); err != nil {
			log.WithError(err).Warn("failed to set initial status")
		}
	})

	dg.Identify.Intents = discordgo.IntentGuilds |
		discordgo.IntentGuildMembers |
		discordgo.IntentGuildMessages |
		discordgo.IntentGuildModeration |
		discordgo.IntentMessageContent

	if err := dg.Open(); err != nil {
		log.Fatalf("Error opening Discord session: %v", err)
	}
	defer func() {
		if err := dg.Close(); err != nil {
			log.WithError(err).Warn("error closing Discord session")
		}
	}()

	// Timers do not survive restarts; re-arm pending unmutes from the store.
	sched := muteService.DefaultScheduler()
	err = muteService.Reconcile(db, sched, muteService.DiscordRoles(dg), muteService.DiscordNotifier(dg))
	if err != nil {
		log.WithError(err).Error("startup mute reconciliation failed")
	}

	scheduler.SetupCron(dg, db)

	log.Info("Bot is running. Press CTRL+C to exit.")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	sched.Stop()
}

func messageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	services.HandleMessage(s, m, db)
}

func interactionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type == discordgo.InteractionMessageComponent {
		services.HandleComponentInteraction(s, i, db)
	}
}
