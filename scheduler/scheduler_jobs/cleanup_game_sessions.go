package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"crystalModBot/services/funService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

const gameSessionMaxAge = time.Hour

// CleanupGameSessions drops tic-tac-toe boards nobody finished.
func CleanupGameSessions(s *discordgo.Session, db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CleanupGameSessions", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CleanupGameSessions: %v", r)
		}
	}()

	removed := funService.Games().Cleanup(gameSessionMaxAge)
	if removed > 0 {
		log.Printf("cleaned up %d abandoned tic-tac-toe games", removed)
	}
	return nil
}
