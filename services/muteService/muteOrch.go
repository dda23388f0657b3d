package muteService

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"crystalModBot/models"
	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrAlreadyMuted    = errors.New("user already muted")
	ErrNotMuted        = errors.New("user is not muted")
	ErrRoleUnavailable = errors.New("muted role unavailable")
)

// Source distinguishes a moderator-issued unmute from the scheduled expiry
// callback. Expiry notifies the audit log only; manual also notifies the
// target.
type Source int

const (
	SourceManual Source = iota
	SourceExpiry
)

// RoleManager is the platform side of muting: resolving the muted role and
// toggling it on members.
type RoleManager interface {
	EnsureMutedRole(guildID string) (string, error)
	AddRole(guildID, userID, roleID string) error
	RemoveRole(guildID, userID, roleID string) error
}

// Notifier delivers best-effort notifications. Failures are swallowed by
// the implementation; callers never treat them as fatal.
type Notifier interface {
	AuditLog(guildID string, embed *discordgo.MessageEmbed)
	DirectMessage(userID string, embed *discordgo.MessageEmbed)
}

type MuteResult struct {
	RoleID       string
	DurationText string
	ExpiresAt    *time.Time
}

var sched = NewScheduler()

// DefaultScheduler returns the process-wide scheduler instance.
func DefaultScheduler() *Scheduler {
	return sched
}

// ActiveMute fetches the active mute row for the pair, if any.
func ActiveMute(db *gorm.DB, userID, guildID string) (*models.Mute, error) {
	var mute models.Mute
	result := db.Where("user_id = ? AND guild_id = ? AND active = ?", userID, guildID, true).
		Order("id DESC").First(&mute)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if result.Error != nil {
		return nil, result.Error
	}
	return &mute, nil
}

// Mute applies the muted role and records an active mute row. A parseable
// duration token schedules a one-shot unmute; anything else makes the mute
// indefinite. The single-active-mute invariant is enforced under the
// pair lock.
func Mute(db *gorm.DB, sc *Scheduler, roles RoleManager, notify Notifier, guildID, userID, moderatorID, durationToken, reason string) (*MuteResult, error) {
	key := pairKey(userID, guildID)
	unlock := sc.lockPair(key)
	defer unlock()

	existing, err := ActiveMute(db, userID, guildID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyMuted
	}

	roleID, err := roles.EnsureMutedRole(guildID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRoleUnavailable, err)
	}

	durationText := "indefinitely"
	var expiresAt *time.Time
	var duration time.Duration
	if durationToken != "" {
		if parsed, parseErr := common.ParseDuration(durationToken); parseErr == nil {
			duration = parsed
			expiry := time.Now().Add(parsed)
			expiresAt = &expiry
			durationText = "for " + strings.ToLower(durationToken)
		}
	}

	if err := roles.AddRole(guildID, userID, roleID); err != nil {
		return nil, err
	}

	mute := models.Mute{
		UserID:    userID,
		GuildID:   guildID,
		Reason:    reason,
		MutedBy:   moderatorID,
		MuteStart: time.Now(),
		MuteEnd:   expiresAt,
		Active:    true,
	}
	if err := db.Create(&mute).Error; err != nil {
		return nil, err
	}

	sc.clearStuck(key)
	if expiresAt != nil {
		sc.schedule(key, duration, func() {
			expireMute(db, sc, roles, notify, guildID, userID)
		})
	}

	return &MuteResult{RoleID: roleID, DurationText: durationText, ExpiresAt: expiresAt}, nil
}

// Unmute lifts an active mute: removes the role, flips every active row for
// the pair to inactive and cancels any pending timer. Without an active row
// it returns ErrNotMuted and changes nothing, which is what makes a timer
// firing after a manual unmute a harmless no-op.
func Unmute(db *gorm.DB, sc *Scheduler, roles RoleManager, notify Notifier, guildID, userID, reason string, source Source) error {
	key := pairKey(userID, guildID)
	unlock := sc.lockPair(key)
	defer unlock()

	active, err := ActiveMute(db, userID, guildID)
	if err != nil {
		return err
	}
	if active == nil {
		return ErrNotMuted
	}

	roleID, err := roles.EnsureMutedRole(guildID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRoleUnavailable, err)
	}
	if err := roles.RemoveRole(guildID, userID, roleID); err != nil {
		// The row stays active; for expiry this is the stuck state that
		// needs a manual unmute.
		return err
	}

	err = db.Model(&models.Mute{}).
		Where("user_id = ? AND guild_id = ? AND active = ?", userID, guildID, true).
		Update("active", false).Error
	if err != nil {
		return err
	}

	sc.cancel(key)
	sc.clearStuck(key)

	title := "User Unmuted"
	description := fmt.Sprintf("Unmuted <@%s>. Reason: %s", userID, reason)
	if source == SourceExpiry {
		description = fmt.Sprintf("Unmuted <@%s> (mute time expired).", userID)
	}
	embed := &discordgo.MessageEmbed{Title: title, Description: description, Color: common.ColorGreen}
	notify.AuditLog(guildID, embed)

	if source == SourceManual {
		notify.DirectMessage(userID, &discordgo.MessageEmbed{
			Title:       "You were unmuted",
			Description: fmt.Sprintf("Reason: %s", reason),
			Color:       common.ColorGreen,
		})
	}

	return nil
}

// expireMute is the scheduled callback body. It always discards its timer
// entry; a platform failure leaves the row active and marks the pair stuck.
func expireMute(db *gorm.DB, sc *Scheduler, roles RoleManager, notify Notifier, guildID, userID string) {
	key := pairKey(userID, guildID)
	// Drop the fired timer's entry before anything else so a concurrent
	// re-mute can register a fresh timer without it being discarded here.
	sc.discard(key)

	err := Unmute(db, sc, roles, notify, guildID, userID, "Mute duration expired", SourceExpiry)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotMuted):
		// Manual unmute won the race.
	default:
		common.RecordError(db, guildID, "mute-expiry", err)
		sc.markStuck(key)
	}
}

// Reconcile walks every active timed mute and either expires it right away
// (endpoint already passed) or schedules the remaining duration. Runs at
// startup, where in-memory timers have been lost, and periodically as a
// sweep. Stuck pairs and pairs with a pending timer are left alone.
func Reconcile(db *gorm.DB, sc *Scheduler, roles RoleManager, notify Notifier) error {
	var mutes []models.Mute
	err := db.Where("active = ? AND mute_end IS NOT NULL", true).Find(&mutes).Error
	if err != nil {
		return err
	}

	now := time.Now()
	for _, mute := range mutes {
		mute := mute
		if sc.Pending(mute.UserID, mute.GuildID) || sc.Stuck(mute.UserID, mute.GuildID) {
			continue
		}

		key := pairKey(mute.UserID, mute.GuildID)
		remaining := mute.MuteEnd.Sub(now)
		if remaining <= 0 {
			go expireMute(db, sc, roles, notify, mute.GuildID, mute.UserID)
			continue
		}

		log.WithFields(log.Fields{"guild": mute.GuildID, "user": mute.UserID, "remaining": remaining}).
			Info("rescheduling mute expiry")
		sc.schedule(key, remaining, func() {
			expireMute(db, sc, roles, notify, mute.GuildID, mute.UserID)
		})
	}

	return nil
}
