package funService

import (
	"fmt"
	"strconv"
	"sync"
	"time"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type gameSession struct {
	players [2]string
	board   [9]string
	turn    int
	started time.Time
}

// SessionStore holds in-flight tic-tac-toe games keyed by game id. Games
// live only in memory; a restart abandons them.
type SessionStore struct {
	mu    sync.Mutex
	games map[string]*gameSession
}

func NewSessionStore() *SessionStore {
	return &SessionStore{games: make(map[string]*gameSession)}
}

var games = NewSessionStore()

// Games returns the process-wide session store.
func Games() *SessionStore {
	return games
}

// Cleanup drops games older than maxAge. Run periodically so abandoned
// boards do not pile up.
func (st *SessionStore) Cleanup(maxAge time.Duration) int {
	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxAge)
	for id, game := range st.games {
		if game.started.Before(cutoff) {
			delete(st.games, id)
			removed++
		}
	}
	return removed
}

func TicTacToeCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	opponent := common.FirstMention(s, m)
	if opponent == nil || opponent.ID == m.Author.ID {
		return common.Validation("Please mention a valid opponent to play against!")
	}
	if opponent.Bot {
		return common.Validation("You cannot play against a bot!")
	}

	gameID := uuid.NewString()
	games.mu.Lock()
	games.games[gameID] = &gameSession{
		players: [2]string{m.Author.ID, opponent.ID},
		turn:    0,
		started: time.Now(),
	}
	game := games.games[gameID]
	games.mu.Unlock()

	embed := &discordgo.MessageEmbed{
		Title: "Tic Tac Toe",
		Description: fmt.Sprintf("**<@%s> (X)** vs **<@%s> (O)**\n\nCurrent turn: <@%s>",
			m.Author.ID, opponent.ID, m.Author.ID),
		Color: common.ColorBlue,
	}
	_, err := s.ChannelMessageSendComplex(m.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: boardComponents(gameID, game, false),
	})
	if err != nil {
		games.mu.Lock()
		delete(games.games, gameID)
		games.mu.Unlock()
		return common.Platform("An error occurred while setting up the Tic-Tac-Toe game", err)
	}
	return nil
}

// HandleMove processes a board button press. gameID and cell come from the
// button's custom id.
func HandleMove(s *discordgo.Session, i *discordgo.InteractionCreate, gameID, cellToken string) {
	cell, err := strconv.Atoi(cellToken)
	if err != nil || cell < 0 || cell > 8 {
		return
	}

	games.mu.Lock()
	game, ok := games.games[gameID]
	if !ok {
		games.mu.Unlock()
		return
	}

	userID := interactionUserID(i)
	playerIndex := -1
	for idx, id := range game.players {
		if id == userID {
			playerIndex = idx
		}
	}
	if playerIndex == -1 || playerIndex != game.turn {
		games.mu.Unlock()
		ephemeralReply(s, i, "❌ It's not your turn!")
		return
	}
	if game.board[cell] != "" {
		games.mu.Unlock()
		ephemeralReply(s, i, "❌ This cell is already taken!")
		return
	}

	mark := "X"
	if playerIndex == 1 {
		mark = "O"
	}
	game.board[cell] = mark
	result := winner(game.board)

	embed := &discordgo.MessageEmbed{
		Title:       "Tic Tac Toe",
		Description: fmt.Sprintf("**<@%s> (X)** vs **<@%s> (O)**", game.players[0], game.players[1]),
		Color:       common.ColorBlue,
	}
	finished := result != ""
	switch result {
	case "":
		game.turn = 1 - game.turn
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Current Turn", Value: fmt.Sprintf("<@%s>", game.players[game.turn]),
		})
	case "Tie":
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Result", Value: "🏳️ It's a tie!",
		})
	default:
		winnerIndex := 0
		if result == "O" {
			winnerIndex = 1
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Result", Value: fmt.Sprintf("🎉 <@%s> wins!", game.players[winnerIndex]),
		})
	}

	components := boardComponents(gameID, game, finished)
	if finished {
		delete(games.games, gameID)
	}
	games.mu.Unlock()

	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	})
	if err != nil {
		log.WithError(err).Warn("failed to update tic-tac-toe board")
	}
}

func boardComponents(gameID string, game *gameSession, finished bool) []discordgo.MessageComponent {
	rows := make([]discordgo.MessageComponent, 0, 3)
	for row := 0; row < 3; row++ {
		buttons := make([]discordgo.MessageComponent, 0, 3)
		for col := 0; col < 3; col++ {
			cell := row*3 + col
			label := " "
			style := discordgo.SecondaryButton
			switch game.board[cell] {
			case "X":
				label = "X"
				style = discordgo.PrimaryButton
			case "O":
				label = "O"
				style = discordgo.DangerButton
			}
			buttons = append(buttons, discordgo.Button{
				CustomID: fmt.Sprintf("ttt_%s_%d", gameID, cell),
				Label:    label,
				Style:    style,
				Disabled: finished || game.board[cell] != "",
			})
		}
		rows = append(rows, discordgo.ActionsRow{Components: buttons})
	}
	return rows
}

// winner returns "X" or "O" for a completed line, "Tie" for a full board,
// or "" while the game is still open.
func winner(board [9]string) string {
	lines := [8][3]int{
		{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
		{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
		{0, 4, 8}, {2, 4, 6},
	}
	for _, line := range lines {
		if board[line[0]] != "" && board[line[0]] == board[line[1]] && board[line[1]] == board[line[2]] {
			return board[line[0]]
		}
	}
	for _, cell := range board {
		if cell == "" {
			return ""
		}
	}
	return "Tie"
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func ephemeralReply(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.WithError(err).Debug("failed to send ephemeral reply")
	}
}
