package discord

import (
	"context"
	"strings"
	"time"

	"carstok-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

// Catalogue is the read side the bot commands query.
type Catalogue interface {
	Feed(ctx context.Context, feedType model.FeedType, f model.SearchFilters) ([]model.Car, error)
}

type StatsSource interface {
	Stats(ctx context.Context) (*model.CatalogStats, error)
}

// CommandHandler processes bot prefix commands.
type CommandHandler struct {
	catalogue Catalogue
	stats     StatsSource
}

func NewCommandHandler(catalogue Catalogue, stats StatsSource) *CommandHandler {
	return &CommandHandler{catalogue: catalogue, stats: stats}
}

// Reply builds the answer to a prefix command. ok is false for unknown commands.
func (h *CommandHandler) Reply(ctx context.Context, content string) (text string, embed *discordgo.MessageEmbed, ok bool) {
	parts := strings.Fields(content)
	if len(parts) == 0 {
		return "", nil, false
	}

	switch strings.ToLower(parts[0]) {
	case "!stats":
		s, err := h.stats.Stats(ctx)
		if err != nil {
			return "Statistiques indisponibles.", nil, true
		}
		return "", StatsEmbed(s), true
	case "!search":
		if len(parts) < 2 {
			return "Usage: `!search <marque ou modèle>`", nil, true
		}
		query := strings.Join(parts[1:], " ")
		cars, err := h.catalogue.Feed(ctx, model.FeedSales, model.SearchFilters{SearchTerm: query})
		if err != nil {
			return "Recherche indisponible.", nil, true
		}
		return "", SearchEmbed(query, cars), true
	case "!help":
		return "", helpEmbed(), true
	}
	return "", nil, false
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	text, embed, ok := h.Reply(ctx, m.Content)
	if !ok {
		return
	}
	if embed != nil {
		s.ChannelMessageSendEmbed(m.ChannelID, embed)
		return
	}
	s.ChannelMessageSend(m.ChannelID, text)
}

func helpEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title: "CARSTOK Bot — Commandes",
		Color: colorSearch,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`!stats`", Value: "Affiche les statistiques du catalogue"},
			{Name: "`!search <marque>`", Value: "Cherche parmi les véhicules en vente"},
			{Name: "`!help`", Value: "Affiche cette aide"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
}
