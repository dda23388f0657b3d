package muteService

import (
	"errors"
	"sync"
	"testing"
	"time"

	"crystalModBot/models"

	"github.com/bwmarrin/discordgo"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeRoles struct {
	mu        sync.Mutex
	assigned  map[string]bool
	ensureErr error
	removeErr error
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{assigned: make(map[string]bool)}
}

func (f *fakeRoles) EnsureMutedRole(guildID string) (string, error) {
	if f.ensureErr != nil {
		return "", f.ensureErr
	}
	return "role-muted", nil
}

func (f *fakeRoles) AddRole(guildID, userID, roleID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.assigned[userID+":"+guildID] = true
	return nil
}

func (f *fakeRoles) RemoveRole(guildID, userID, roleID string) error {
	if f.removeErr != nil {
		return f.removeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.assigned, userID+":"+guildID)
	return nil
}

func (f *fakeRoles) hasRole(userID, guildID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.assigned[userID+":"+guildID]
}

type fakeNotifier struct {
	mu        sync.Mutex
	auditLogs int
	dms       int
}

func (f *fakeNotifier) AuditLog(guildID string, embed *discordgo.MessageEmbed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.auditLogs++
}

func (f *fakeNotifier) DirectMessage(userID string, embed *discordgo.MessageEmbed) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms++
}

func (f *fakeNotifier) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.auditLogs, f.dms
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.Mute{}, &models.ErrorLog{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestMuteIndefinite(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	result, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "", "spamming")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.DurationText != "indefinitely" {
		t.Errorf("Expected indefinite mute, got %q", result.DurationText)
	}
	if result.ExpiresAt != nil {
		t.Error("Indefinite mute must not have an expiry")
	}
	if !roles.hasRole("u1", "g1") {
		t.Error("Expected muted role assigned")
	}
	if sc.Pending("u1", "g1") {
		t.Error("Indefinite mute must not schedule a timer")
	}

	active, err := ActiveMute(db, "u1", "g1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if active == nil || !active.Active {
		t.Fatal("Expected an active mute row")
	}
	if active.MuteEnd != nil {
		t.Error("Indefinite mute row must have nil MuteEnd")
	}
}

func TestMuteAlreadyMuted(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "", "first"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	_, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "", "second")
	if !errors.Is(err, ErrAlreadyMuted) {
		t.Errorf("Expected ErrAlreadyMuted, got %v", err)
	}

	// Same user in another guild is a separate pair.
	if _, err := Mute(db, sc, roles, notify, "g2", "u1", "mod1", "", "elsewhere"); err != nil {
		t.Errorf("Unexpected error for other guild: %v", err)
	}
}

func TestMuteInvalidDurationIsIndefinite(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()

	result, err := Mute(db, sc, newFakeRoles(), &fakeNotifier{}, "g1", "u1", "mod1", "10x", "reason")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.ExpiresAt != nil {
		t.Error("Unparseable token must fall back to indefinite")
	}
}

func TestMuteRoleUnavailable(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	roles.ensureErr = errors.New("missing manage roles")

	_, err := Mute(db, sc, roles, &fakeNotifier{}, "g1", "u1", "mod1", "", "reason")
	if !errors.Is(err, ErrRoleUnavailable) {
		t.Errorf("Expected ErrRoleUnavailable, got %v", err)
	}

	active, err := ActiveMute(db, "u1", "g1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if active != nil {
		t.Error("Failed mute must not leave a row")
	}
}

func TestUnmute(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "1h", "reason"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !sc.Pending("u1", "g1") {
		t.Fatal("Timed mute must schedule a timer")
	}

	if err := Unmute(db, sc, roles, notify, "g1", "u1", "appealed", SourceManual); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if roles.hasRole("u1", "g1") {
		t.Error("Expected muted role removed")
	}
	if sc.Pending("u1", "g1") {
		t.Error("Manual unmute must cancel the timer")
	}

	active, err := ActiveMute(db, "u1", "g1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if active != nil {
		t.Error("Expected no active mute after unmute")
	}

	auditLogs, dms := notify.counts()
	if auditLogs != 1 {
		t.Errorf("Expected 1 audit log entry, got %d", auditLogs)
	}
	if dms == 0 {
		t.Error("Manual unmute should DM the target")
	}

	if err := Unmute(db, sc, roles, notify, "g1", "u1", "again", SourceManual); !errors.Is(err, ErrNotMuted) {
		t.Errorf("Expected ErrNotMuted, got %v", err)
	}
}

func TestUnmuteThenRemute(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "", "first"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := Unmute(db, sc, roles, notify, "g1", "u1", "done", SourceManual); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "", "second"); err != nil {
		t.Fatalf("Remute after unmute must succeed: %v", err)
	}
}

func TestTimedMuteExpires(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "1s", "reason"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Fire the expiry immediately instead of waiting out the token.
	sc.cancel(pairKey("u1", "g1"))
	expireMute(db, sc, roles, notify, "g1", "u1")

	active, err := ActiveMute(db, "u1", "g1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if active != nil {
		t.Error("Expected mute lifted after expiry")
	}
	if roles.hasRole("u1", "g1") {
		t.Error("Expected role removed after expiry")
	}

	auditLogs, dms := notify.counts()
	if auditLogs != 1 {
		t.Errorf("Expected expiry audit log entry, got %d", auditLogs)
	}
	if dms != 0 {
		t.Errorf("Expiry must not DM the target, got %d DMs", dms)
	}
}

func TestExpiryAfterManualUnmuteIsNoop(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "1h", "reason"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := Unmute(db, sc, roles, notify, "g1", "u1", "appealed", SourceManual); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	auditBefore, _ := notify.counts()
	expireMute(db, sc, roles, notify, "g1", "u1")
	auditAfter, _ := notify.counts()

	if auditAfter != auditBefore {
		t.Error("Expiry after manual unmute must be silent")
	}
	if sc.Stuck("u1", "g1") {
		t.Error("A raced no-op expiry must not mark the pair stuck")
	}
}

func TestFailedExpiryMarksStuck(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	if _, err := Mute(db, sc, roles, notify, "g1", "u1", "mod1", "1h", "reason"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	roles.removeErr = errors.New("api down")
	sc.cancel(pairKey("u1", "g1"))
	expireMute(db, sc, roles, notify, "g1", "u1")

	if !sc.Stuck("u1", "g1") {
		t.Error("Failed expiry must mark the pair stuck")
	}
	active, err := ActiveMute(db, "u1", "g1")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if active == nil {
		t.Fatal("Row must stay active after failed expiry")
	}

	var logCount int64
	db.Model(&models.ErrorLog{}).Count(&logCount)
	if logCount == 0 {
		t.Error("Failed expiry must be recorded in error_logs")
	}

	// Manual unmute clears the stuck state once the platform recovers.
	roles.removeErr = nil
	if err := Unmute(db, sc, roles, notify, "g1", "u1", "recovered", SourceManual); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sc.Stuck("u1", "g1") {
		t.Error("Manual unmute must clear the stuck state")
	}
}

func TestReconcile(t *testing.T) {
	db := newTestDB(t)
	sc := NewScheduler()
	defer sc.Stop()
	roles := newFakeRoles()
	notify := &fakeNotifier{}

	// Overdue timed mute: endpoint in the past, no timer.
	past := time.Now().Add(-time.Minute)
	overdue := models.Mute{
		UserID: "u1", GuildID: "g1", MutedBy: "mod1",
		MuteStart: time.Now().Add(-time.Hour), MuteEnd: &past, Active: true,
	}
	if err := db.Create(&overdue).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}
	roles.assigned["u1:g1"] = true

	// Future timed mute: should get a timer.
	future := time.Now().Add(time.Hour)
	pending := models.Mute{
		UserID: "u2", GuildID: "g1", MutedBy: "mod1",
		MuteStart: time.Now(), MuteEnd: &future, Active: true,
	}
	if err := db.Create(&pending).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	// Indefinite mute: must be ignored entirely.
	indefinite := models.Mute{
		UserID: "u3", GuildID: "g1", MutedBy: "mod1",
		MuteStart: time.Now(), Active: true,
	}
	if err := db.Create(&indefinite).Error; err != nil {
		t.Fatalf("Failed to seed: %v", err)
	}

	if err := Reconcile(db, sc, roles, notify); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Overdue expiry runs on its own goroutine.
	deadline := time.Now().Add(2 * time.Second)
	for {
		active, err := ActiveMute(db, "u1", "g1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if active == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Overdue mute was not expired by reconciliation")
		}
		time.Sleep(10 * time.Millisecond)
	}

	if !sc.Pending("u2", "g1") {
		t.Error("Future mute must be rescheduled")
	}
	if sc.Pending("u3", "g1") {
		t.Error("Indefinite mute must not be scheduled")
	}
}
