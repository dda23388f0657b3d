package funService

import (
	"testing"
	"time"
)

func TestWinner(t *testing.T) {
	tests := []struct {
		name     string
		board    [9]string
		expected string
	}{
		{name: "empty board", board: [9]string{}, expected: ""},
		{name: "top row X", board: [9]string{"X", "X", "X", "O", "O", "", "", "", ""}, expected: "X"},
		{name: "middle row O", board: [9]string{"X", "", "X", "O", "O", "O", "X", "", ""}, expected: "O"},
		{name: "left column X", board: [9]string{"X", "O", "", "X", "O", "", "X", "", ""}, expected: "X"},
		{name: "diagonal X", board: [9]string{"X", "O", "", "O", "X", "", "", "", "X"}, expected: "X"},
		{name: "anti-diagonal O", board: [9]string{"X", "X", "O", "", "O", "", "O", "", ""}, expected: "O"},
		{name: "in progress", board: [9]string{"X", "O", "X", "", "", "", "", "", ""}, expected: ""},
		{name: "tie", board: [9]string{"X", "O", "X", "X", "O", "O", "O", "X", "X"}, expected: "Tie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := winner(tt.board); got != tt.expected {
				t.Errorf("winner() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSessionStoreCleanup(t *testing.T) {
	st := NewSessionStore()
	st.games["old"] = &gameSession{started: time.Now().Add(-2 * time.Hour)}
	st.games["fresh"] = &gameSession{started: time.Now()}

	removed := st.Cleanup(time.Hour)
	if removed != 1 {
		t.Errorf("Expected 1 removed, got %d", removed)
	}
	if _, ok := st.games["old"]; ok {
		t.Error("Stale game should be gone")
	}
	if _, ok := st.games["fresh"]; !ok {
		t.Error("Fresh game should survive")
	}
}
