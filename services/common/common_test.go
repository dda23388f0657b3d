package common

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/bwmarrin/discordgo"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockDB() (*gorm.DB, sqlmock.Sqlmock, error) {
	db, mock, err := sqlmock.New()
	if err != nil {
		return nil, nil, err
	}

	gormDB, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{})

	return gormDB, mock, err
}

func TestRecordErrorWritesRow(t *testing.T) {
	db, mock, err := newMockDB()
	if err != nil {
		t.Fatalf("Failed to create mock DB: %v", err)
	}
	defer func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	}()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO `error_logs`").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	RecordError(db, "guild1", "mute-expiry", errTest)

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet expectations: %v", err)
	}
}

var errTest = &CommandError{Kind: KindPlatform, Message: "api broke"}

func TestRecordErrorNilDB(t *testing.T) {
	// Must not panic when there is no store to write to.
	RecordError(nil, "guild1", "test", errTest)
}

func TestStripMention(t *testing.T) {
	user := &discordgo.User{ID: "123"}

	tests := []struct {
		name     string
		tail     string
		expected string
	}{
		{name: "plain mention", tail: "<@123> spamming", expected: "spamming"},
		{name: "nickname mention", tail: "<@!123> spamming", expected: "spamming"},
		{name: "mention only", tail: "<@123>", expected: ""},
		{name: "no mention", tail: "spamming", expected: "spamming"},
		{name: "surrounding space", tail: "  <@123>  spamming  ", expected: "spamming"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripMention(tt.tail, user); got != tt.expected {
				t.Errorf("StripMention(%q) = %q, want %q", tt.tail, got, tt.expected)
			}
		})
	}

	if got := StripMention(" keep this ", nil); got != "keep this" {
		t.Errorf("nil user should only trim, got %q", got)
	}
}

func TestIsDev(t *testing.T) {
	SetDevIDs([]string{"111", "222"})
	defer SetDevIDs(nil)

	if !IsDev("111") {
		t.Error("expected 111 to be a dev")
	}
	if IsDev("333") {
		t.Error("did not expect 333 to be a dev")
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName(&discordgo.User{Username: "crystal", GlobalName: "Crystal"}); got != "Crystal" {
		t.Errorf("expected global name, got %q", got)
	}
	if got := DisplayName(&discordgo.User{Username: "crystal"}); got != "crystal" {
		t.Errorf("expected username fallback, got %q", got)
	}
	if got := DisplayName(nil); got != "Unknown User" {
		t.Errorf("expected placeholder for nil user, got %q", got)
	}
}
