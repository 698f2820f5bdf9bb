package discord

import (
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ElvisLo030/RA-bot/internal/service"
)

// Prefix is the command prefix the original community is used to.
const Prefix = "!RA "

// Bot manages the Discord gateway lifecycle and command dispatch.
type Bot struct {
	session  *discordgo.Session
	commands *CommandHandler
}

// NewBot creates and configures the bot. An empty token disables it so the
// HTTP API can run standalone.
func NewBot(
	token string,
	adminChannelID string,
	reviewChannelID string,
	gamerSvc *service.GamerService,
	catalogSvc *service.CatalogService,
	ledgerSvc *service.LedgerService,
) (*Bot, error) {
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

	commands := NewCommandHandler(adminChannelID, reviewChannelID, gamerSvc, catalogSvc, ledgerSvc)

	bot := &Bot{
		session:  s,
		commands: commands,
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

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Ignore own messages
	if m.Author.ID == s.State.User.ID {
		return
	}
	if !strings.HasPrefix(m.Content, Prefix) {
		return
	}
	b.commands.Handle(s, m)
}
