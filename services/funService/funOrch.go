package funService

import (
	"fmt"
	"math/rand"
	"strings"

	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

var jokes = []string{
	"Why don't scientists trust atoms? Because they make up everything!",
	"What do you call a fake noodle? An impasta!",
	"Why did the scarecrow win an award? Because he was outstanding in his field!",
}

var eightBallResponses = []string{
	"It is certain.", "Without a doubt.", "You may rely on it.",
	"Ask again later.", "Don't count on it.", "My reply is no.",
}

func JokeCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	_, err := common.SendEmbed(s, m.ChannelID, "Joke", jokes[rand.Intn(len(jokes))], common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send joke", err)
	}
	return nil
}

func EightBallCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	question := strings.TrimSpace(argTail)
	if question == "" {
		return common.Validation("Ask a question")
	}

	answer := eightBallResponses[rand.Intn(len(eightBallResponses))]
	_, err := common.SendEmbed(s, m.ChannelID, "Magic 8-Ball",
		fmt.Sprintf("**Question:** %s\n**Answer:** %s", question, answer), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send answer", err)
	}
	return nil
}

func FlipCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	result := "Heads"
	if rand.Intn(2) == 1 {
		result = "Tails"
	}
	_, err := common.SendEmbed(s, m.ChannelID, "Coin Flip", fmt.Sprintf("It's %s!", result), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send flip", err)
	}
	return nil
}

func WeightCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	subject := common.FirstMention(s, m)
	if subject == nil {
		subject = m.Author
	}
	weight := rand.Intn(600) + 1
	_, err := common.SendEmbed(s, m.ChannelID, "Weight Check",
		fmt.Sprintf("%s weighs **%d lbs**.", subject.Username, weight), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send weight", err)
	}
	return nil
}

func HeightCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	subject := common.FirstMention(s, m)
	if subject == nil {
		subject = m.Author
	}
	height := rand.Intn(800) + 1
	_, err := common.SendEmbed(s, m.ChannelID, "Height Check",
		fmt.Sprintf("%s is **%d inches**.", subject.Username, height), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send height", err)
	}
	return nil
}

func BodyCountCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	subject := common.FirstMention(s, m)
	if subject == nil {
		subject = m.Author
	}
	count := rand.Intn(900) + 1
	_, err := common.SendEmbed(s, m.ChannelID, "Body Count",
		fmt.Sprintf("%s has **%d bodys**.", subject.Username, count), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send body count", err)
	}
	return nil
}

func BaldCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	roll := rand.Intn(100) + 1
	var status string
	switch {
	case roll <= 10:
		status = "completely bald 💡"
	case roll <= 30:
		status = "balding like a middle-aged professor 👨‍🦲"
	case roll <= 60:
		status = "thinning suspiciously 🧐"
	case roll <= 85:
		status = "rocking a full head of hair 💇‍♂️"
	default:
		status = "secretly wearing a wig! 🤫"
	}

	_, err := common.SendEmbed(s, m.ChannelID, "Baldness Checker",
		fmt.Sprintf("**You are %s**", status), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send result", err)
	}
	return nil
}

var (
	eatBodyParts = []string{
		"left foot", "right arm", "nose", "ears", "liver", "thigh",
		"eyeballs", "fingers", "spleen", "toes", "kidneys", "tongue",
	}
	eatStyles = []string{
		"deep-fried", "stir-fried", "raw", "steamed", "boiled", "grilled",
		"microwaved", "sous-vide", "blended", "fermented", "freeze-dried",
	}
	eatSauces = []string{
		"ketchup", "mayonnaise", "soy sauce", "ranch dressing", "BBQ sauce",
		"sriracha", "honey mustard", "teriyaki glaze", "buffalo sauce",
	}
	eatSides = []string{
		"with a side of fries", "with mashed potatoes", "on a bed of rice",
		"with coleslaw", "in a taco", "on pizza", "in a salad", "as sushi",
	}
)

func EatCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		target = m.Author
	}

	// Occasionally too full.
	if rand.Intn(100) < 5 {
		_, err := common.SendEmbed(s, m.ChannelID, "Hungry Bot",
			"*patpat* I'm too full to eat anyone right now! Maybe try again later? 🥺", common.ColorBlue)
		if err != nil {
			return common.Platform("Failed to send result", err)
		}
		return nil
	}

	part := eatBodyParts[rand.Intn(len(eatBodyParts))]
	style := eatStyles[rand.Intn(len(eatStyles))]
	sauce := eatSauces[rand.Intn(len(eatSauces))]
	side := eatSides[rand.Intn(len(eatSides))]

	_, err := common.SendEmbed(s, m.ChannelID, "Nom Nom Nom!",
		fmt.Sprintf("**%s** just ate **%s's %s**!\n*Prepared %s %s, topped with %s.* 😋🍽️",
			m.Author.Username, target.Username, part, style, side, sauce), common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send result", err)
	}
	return nil
}

func KissCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Who are you trying to kiss? Mention someone!")
	}

	kisses := []string{
		fmt.Sprintf("💋 %s planted a soft kiss on %s's cheek!", m.Author.Username, target.Username),
		fmt.Sprintf("😘 %s gave %s a passionate french kiss!", m.Author.Username, target.Username),
		fmt.Sprintf("👩‍❤️‍💋‍👨 %s surprised %s with a romantic kiss!", m.Author.Username, target.Username),
		fmt.Sprintf("😚 %s blew a kiss to %s from across the room!", m.Author.Username, target.Username),
		fmt.Sprintf("💏 %s shared a tender kiss with %s!", m.Author.Username, target.Username),
	}

	_, err := common.SendEmbed(s, m.ChannelID, "Kiss!", kisses[rand.Intn(len(kisses))], common.ColorBlue)
	if err != nil {
		return common.Platform("Failed to send result", err)
	}
	return nil
}

func HugCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	target := common.FirstMention(s, m)
	if target == nil {
		return common.Validation("Mention someone to hug!")
	}

	_, err := s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("<@%s> gives a warm hug to <@%s> 🤗", m.Author.ID, target.ID))
	if err != nil {
		return common.Platform("Failed to send hug", err)
	}
	return nil
}

func RateCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	item := strings.TrimSpace(argTail)
	if item == "" {
		return common.Validation("What should I rate?")
	}

	score := rand.Intn(11)
	_, err := s.ChannelMessageSend(m.ChannelID,
		fmt.Sprintf("I'd rate **%s** a solid **%d/10**.", item, score))
	if err != nil {
		return common.Platform("Failed to send rating", err)
	}
	return nil
}
