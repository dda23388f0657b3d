package funService

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crystalModBot/models/external"
	"crystalModBot/services/common"

	"github.com/bwmarrin/discordgo"
	"gorm.io/gorm"
)

const (
	catAPIURL  = "https://api.thecatapi.com/v1/images/search?mime_types=jpg,png"
	dogAPIURL  = "https://api.thedogapi.com/v1/images/search?mime_types=jpg,png"
	memeAPIURL = "https://meme-api.com/gimme"
)

var imageClient = &http.Client{Timeout: 10 * time.Second}

func fetchJSON(url string, out interface{}) error {
	resp, err := imageClient.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func sendAnimalImage(s *discordgo.Session, channelID, url, title, footer string) error {
	var images []external.CatImage
	if err := fetchJSON(url, &images); err != nil {
		return common.Platform("Could not get a picture right now", err)
	}
	if len(images) == 0 || images[0].URL == "" {
		return common.Platform("Could not get a picture right now", fmt.Errorf("empty image response"))
	}

	embed := &discordgo.MessageEmbed{
		Title:  title,
		Color:  0xffaaff,
		Image:  &discordgo.MessageEmbedImage{URL: images[0].URL},
		Footer: &discordgo.MessageEmbedFooter{Text: footer},
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		return common.Platform("Failed to send picture", err)
	}
	return nil
}

func CatCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	return sendAnimalImage(s, m.ChannelID, catAPIURL, "🐱 Here's a random cat picture!", "Powered by The Cat API")
}

func DogCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	return sendAnimalImage(s, m.ChannelID, dogAPIURL, "🐶 Here's a random dog picture!", "Powered by The Dog API")
}

func MemeCommand(s *discordgo.Session, m *discordgo.MessageCreate, db *gorm.DB, args []string, argTail string) error {
	var meme external.Meme
	if err := fetchJSON(memeAPIURL, &meme); err != nil {
		return common.Platform("Error fetching meme", err)
	}
	if meme.URL == "" {
		return common.NotFound("No meme found")
	}

	embed := &discordgo.MessageEmbed{
		Title:  meme.Title,
		Color:  0x00bfff,
		Image:  &discordgo.MessageEmbedImage{URL: meme.URL},
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("👍 %d | r/%s", meme.Ups, meme.Subreddit)},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		return common.Platform("Failed to send meme", err)
	}
	return nil
}
