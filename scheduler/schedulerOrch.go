package scheduler

import (
	"fmt"

	"crystalModBot/models"
	"crystalModBot/scheduler/scheduler_jobs"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func SetupCron(s *discordgo.Session, db *gorm.DB) {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc("0 * * * * *", func() {
		// Every minute: pick up timed mutes whose timer was lost
		err := scheduler_jobs.CheckExpiredMutes(s, db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 0 * * * *", func() {
		// Every hour: drop abandoned tic-tac-toe boards
		err := scheduler_jobs.CleanupGameSessions(s, db)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 0 4 * * *", func() {
		// At 4am every day: prune old error log rows
		err := scheduler_jobs.PruneErrorLogs(s, db)
		if err != nil {
			fmt.Println(err)
		}
	})

	if err != nil {
		errLog := models.ErrorLog{
			GuildID: "CRON ERR",
			Source:  "cron",
			Message: fmt.Sprintf("%v", err),
		}
		db.Create(&errLog)
	}

	cronService.Start()
}
