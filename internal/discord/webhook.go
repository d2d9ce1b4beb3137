package discord

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"carstok-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

// Webhook posts listing announcements to a channel webhook. It needs no bot
// session and works alongside or instead of Bot.
type Webhook struct {
	url    string
	client *http.Client
}

// NewWebhook returns nil when url is empty.
func NewWebhook(url string) *Webhook {
	if url == "" {
		return nil
	}
	return &Webhook{url: url, client: &http.Client{Timeout: 10 * time.Second}}
}

type webhookPayload struct {
	Username string                    `json:"username,omitempty"`
	Embeds   []*discordgo.MessageEmbed `json:"embeds"`
}

func (w *Webhook) AnnounceListing(car *model.Car) {
	if w == nil {
		return
	}
	w.send(webhookPayload{Username: "CARSTOK", Embeds: []*discordgo.MessageEmbed{ListingEmbed(car)}})
}

// AnnounceServer posts a plain announcement.
func (w *Webhook) AnnounceServer(message string) {
	if w == nil {
		return
	}
	w.send(webhookPayload{Username: "CARSTOK", Embeds: []*discordgo.MessageEmbed{{
		Title:       "Annonce",
		Description: message,
		Color:       colorSearch,
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	}}})
}

func (w *Webhook) send(payload webhookPayload) {
	go func() {
		body, err := json.Marshal(payload)
		if err != nil {
			log.Printf("[discord-webhook] marshal error: %v", err)
			return
		}
		resp, err := w.client.Post(w.url, "application/json", bytes.NewReader(body))
		if err != nil {
			log.Printf("[discord-webhook] send error: %v", err)
			return
		}
		resp.Body.Close()
		if resp.StatusCode >= 400 {
			log.Printf("[discord-webhook] HTTP %d for webhook", resp.StatusCode)
		}
	}()
}
