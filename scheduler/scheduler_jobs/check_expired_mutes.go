package scheduler_jobs

import (
	"fmt"
	"log"
	"runtime/debug"

	"crystalModBot/services/muteService"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

// CheckExpiredMutes re-runs mute reconciliation so a timed mute whose
// in-memory timer was lost still ends. Pairs with a pending timer or in
// the stuck state are left alone.
func CheckExpiredMutes(s *discordgo.Session, db *gorm.DB) (err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Println("Recovered in CheckExpiredMutes", r)
			debug.PrintStack()
			err = fmt.Errorf("panic recovered in CheckExpiredMutes: %v", r)
		}
	}()

	return muteService.Reconcile(db, muteService.DefaultScheduler(),
		muteService.DiscordRoles(s), muteService.DiscordNotifier(s))
}
