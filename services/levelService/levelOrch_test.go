package levelService

import (
	"testing"

	"crystalModBot/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}
	if err := db.AutoMigrate(&models.XPRecord{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func TestRequiredXP(t *testing.T) {
	tests := []struct {
		level    int
		expected int
	}{
		{level: 1, expected: 155},
		{level: 2, expected: 220},
		{level: 5, expected: 475},
		{level: 10, expected: 1100},
	}

	for _, tt := range tests {
		if got := RequiredXP(tt.level); got != tt.expected {
			t.Errorf("RequiredXP(%d) = %d, want %d", tt.level, got, tt.expected)
		}
	}
}

func TestAwardFreshMember(t *testing.T) {
	db := newTestDB(t)

	result, err := Award(db, "user1", "guild1", MessageXP)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Level != 1 {
		t.Errorf("Fresh member should start at level 1, got %d", result.Level)
	}
	if result.XP != MessageXP {
		t.Errorf("Expected %d XP, got %d", MessageXP, result.XP)
	}
	if result.LeveledUp {
		t.Error("First message must not level up")
	}
}

func TestAwardLevelUp(t *testing.T) {
	db := newTestDB(t)

	// 155 XP passes level 1 exactly; leftover carries into level 2.
	result, err := Award(db, "user1", "guild1", RequiredXP(1)+10)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !result.LeveledUp {
		t.Error("Expected a level up")
	}
	if result.Level != 2 {
		t.Errorf("Expected level 2, got %d", result.Level)
	}
	if result.XP != 10 {
		t.Errorf("Expected 10 XP carried over, got %d", result.XP)
	}
}

func TestAwardMultiLevelJump(t *testing.T) {
	db := newTestDB(t)

	// Enough for levels 1 and 2 in a single award.
	amount := RequiredXP(1) + RequiredXP(2) + 3
	result, err := Award(db, "user1", "guild1", amount)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Level != 3 {
		t.Errorf("Expected level 3, got %d", result.Level)
	}
	if result.XP != 3 {
		t.Errorf("Expected 3 XP remaining, got %d", result.XP)
	}
}

func TestAwardAccumulates(t *testing.T) {
	db := newTestDB(t)

	for i := 0; i < 3; i++ {
		if _, err := Award(db, "user1", "guild1", MessageXP); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}

	var record models.XPRecord
	if err := db.Where("user_id = ? AND guild_id = ?", "user1", "guild1").First(&record).Error; err != nil {
		t.Fatalf("Failed to load record: %v", err)
	}
	if record.XP != 3*MessageXP {
		t.Errorf("Expected %d XP persisted, got %d", 3*MessageXP, record.XP)
	}
	if record.Level != 1 {
		t.Errorf("Expected level 1, got %d", record.Level)
	}
}

func TestAwardGuildIsolation(t *testing.T) {
	db := newTestDB(t)

	if _, err := Award(db, "user1", "guild1", 50); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	result, err := Award(db, "user1", "guild2", MessageXP)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.XP != MessageXP {
		t.Errorf("Expected a separate record per guild, got %d XP", result.XP)
	}
}
