package discord

import (
	"log"

	"carstok-backend/internal/model"

	"github.com/bwmarrin/discordgo"
)

// Bot manages the Discord bot lifecycle, command dispatch and listing
// announcements.
type Bot struct {
	session   *discordgo.Session
	channelID string
	commands  *CommandHandler
}

// NewBot creates and configures a new Discord bot. It returns nil when no
// token is configured.
func NewBot(token, channelID string, catalogue Catalogue, stats StatsSource) (*Bot, error) {
	if token == "" {
		log.Println("[discord-bot] No bot token configured, bot disabled")
		return nil, nil
	}

	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, err
	}
	s.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent

	bot := &Bot{
		session:   s,
		channelID: channelID,
		commands:  NewCommandHandler(catalogue, stats),
	}
	s.AddHandler(bot.onMessageCreate)
	return bot, nil
}

// Start opens the Discord gateway connection.
func (b *Bot) Start() error {
	if b == nil || b.session == nil {
		return nil
	}
	if err := b.session.Open(); err != nil {
		return err
	}
	log.Println("[discord-bot] Bot connected to Discord")
	return nil
}

// Stop closes the Discord gateway connection.
func (b *Bot) Stop() {
	if b == nil || b.session == nil {
		return
	}
	_ = b.session.Close()
	log.Println("[discord-bot] Bot disconnected")
}

// AnnounceListing posts a new listing to the announcement channel.
func (b *Bot) AnnounceListing(car *model.Car) {
	if b == nil || b.session == nil || b.channelID == "" {
		return
	}
	embed := ListingEmbed(car)
	go func() {
		if _, err := b.session.ChannelMessageSendEmbed(b.channelID, embed); err != nil {
			log.Printf("[discord-bot] announce %s: %v", car.ID, err)
		}
	}()
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || (s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}
	if len(m.Content) == 0 || m.Content[0] != '!' {
		return
	}
	b.commands.Handle(s, m)
}
