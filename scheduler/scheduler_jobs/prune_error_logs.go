package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"
	"time"

	"crystalModBot/models"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

const errorLogRetention = 30 * 24 * time.Hour

// PruneErrorLogs deletes error log rows past the retention window.
func PruneErrorLogs(s *discordgo.Session, db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in PruneErrorLogs", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in PruneErrorLogs: %v", r)
		}
	}()

	cutoff := time.Now().Add(-errorLogRetention)
	result := db.Unscoped().Where("created_at < ?", cutoff).Delete(&models.ErrorLog{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		log.Printf("pruned %d error log rows", result.RowsAffected)
	}
	return nil
}
