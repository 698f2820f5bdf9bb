package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ElvisLo030/RA-bot/internal/service"
)

const (
	colorOK     = 0x2ECC71
	colorInfo   = 0x00C8FF
	colorReview = 0xF1C40F
	footerText  = "RA Bot"
)

// CommandHandler processes bot prefix commands. Member commands work
// anywhere (upload is DM-only); admin and review commands are bound to
// their configured channels.
type CommandHandler struct {
	adminChannelID  string
	reviewChannelID string
	gamerSvc        *service.GamerService
	catalogSvc      *service.CatalogService
	ledgerSvc       *service.LedgerService
}

func NewCommandHandler(
	adminChannelID string,
	reviewChannelID string,
	gamerSvc *service.GamerService,
	catalogSvc *service.CatalogService,
	ledgerSvc *service.LedgerService,
) *CommandHandler {
	return &CommandHandler{
		adminChannelID:  adminChannelID,
		reviewChannelID: reviewChannelID,
		gamerSvc:        gamerSvc,
		catalogSvc:      catalogSvc,
		ledgerSvc:       ledgerSvc,
	}
}

// Handle dispatches a prefix command.
func (h *CommandHandler) Handle(s *discordgo.Session, m *discordgo.MessageCreate) {
	parts := strings.Fields(strings.TrimPrefix(m.Content, Prefix))
	if len(parts) == 0 {
		return
	}

	userID, err := strconv.ParseInt(m.Author.ID, 10, 64)
	if err != nil {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "bind":
		if len(parts) < 2 {
			s.ChannelMessageSend(m.ChannelID, "Usage: `!RA bind <card number>`")
			return
		}
		h.cmdBind(s, m, userID, parts[1])
	case "card":
		h.cmdCard(s, m, userID)
	case "join":
		if len(parts) < 2 {
			s.ChannelMessageSend(m.ChannelID, "Usage: `!RA join <event code>`")
			return
		}
		h.cmdJoin(s, m, userID, parts[1])
	case "tasks":
		if len(parts) < 2 {
			s.ChannelMessageSend(m.ChannelID, "Usage: `!RA tasks <event code>`")
			return
		}
		h.cmdTasks(s, m, userID, parts[1])
	case "pick":
		if len(parts) < 3 {
			s.ChannelMessageSend(m.ChannelID, "Usage: `!RA pick <event code> <task id>`")
			return
		}
		h.cmdPick(s, m, userID, parts[1], parts[2])
	case "upload":
		if len(parts) < 3 {
			s.ChannelMessageSend(m.ChannelID, "Usage: `!RA upload <event code> <task id>` with an attached image")
			return
		}
		h.cmdUpload(s, m, userID, parts[1], parts[2])
	case "points":
		h.cmdPoints(s, m, userID)
	case "history":
		h.cmdHistory(s, m, userID)
	case "approve", "reject":
		h.handleReview(s, m, parts)
	case "help":
		h.cmdHelp(s, m)
	default:
		h.handleAdmin(s, m, parts)
	}
}

func (h *CommandHandler) cmdBind(s *discordgo.Session, m *discordgo.MessageCreate, userID int64, card string) {
	if err := h.gamerSvc.BindCard(userID, card); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not bind card: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Card `%s` bound successfully.", card))
}

func (h *CommandHandler) cmdCard(s *discordgo.Session, m *discordgo.MessageCreate, userID int64) {
	card, err := h.gamerSvc.QueryCard(userID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "You have no card bound yet. Use `!RA bind <card number>`.")
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Your card number is `%s`.", card))
}

func (h *CommandHandler) cmdJoin(s *discordgo.Session, m *discordgo.MessageCreate, userID int64, code string) {
	if err := h.catalogSvc.JoinEvent(userID, code); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not join event: "+err.Error())
		return
	}
	ev, err := h.catalogSvc.GetEvent(code)
	if err != nil {
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"You joined **%s** (`%s`). Pick tasks with `!RA tasks %s`.", ev.Name, ev.Code, ev.Code))
}

func (h *CommandHandler) cmdTasks(s *discordgo.Session, m *discordgo.MessageCreate, userID int64, code string) {
	ev, err := h.catalogSvc.GetEvent(code)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Event not found.")
		return
	}

	fields := make([]*discordgo.MessageEmbedField, 0, len(ev.Tasks))
	for _, t := range ev.Tasks {
		state := "open"
		if t.HasChecked(userID) {
			state = "passed"
		} else if t.HasAssigned(userID) {
			state = "picked"
		}
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  fmt.Sprintf("#%d %s (%d pts)", t.ID, t.Name, t.Points),
			Value: fmt.Sprintf("%s — %s", state, orDefault(t.Description, "no description")),
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s — tasks (max %d pts)", ev.Name, ev.MaxPoints),
		Description: fmt.Sprintf("Pick a task with `!RA pick %s <task id>`.", ev.Code),
		Color:       colorInfo,
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdPick(s *discordgo.Session, m *discordgo.MessageCreate, userID int64, code, taskArg string) {
	taskID, err := strconv.Atoi(taskArg)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Task id must be a number.")
		return
	}
	if err := h.catalogSvc.AssignTask(userID, code, taskID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not pick task: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"Task %d picked. Upload your proof in a DM with `!RA upload %s %d` and an attached image.", taskID, code, taskID))
}

func (h *CommandHandler) cmdPoints(s *discordgo.Session, m *discordgo.MessageCreate, userID int64) {
	g, err := h.gamerSvc.Get(userID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "You have no record yet. Join an event first.")
		return
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Total", Value: strconv.Itoa(g.TotalPoints()), Inline: true},
	}
	for _, code := range g.JoinedEvents {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   code,
			Value:  strconv.Itoa(g.EventsPoints[code]),
			Inline: true,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:  "Your points",
		Color:  colorOK,
		Fields: fields,
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) cmdHistory(s *discordgo.Session, m *discordgo.MessageCreate, userID int64) {
	items, err := h.ledgerSvc.History(userID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "You have no record yet.")
		return
	}
	if len(items) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Your history is empty.")
		return
	}

	// Discord caps messages at 2000 chars; show the most recent entries.
	const maxLines = 20
	if len(items) > maxLines {
		items = items[len(items)-maxLines:]
	}
	var b strings.Builder
	for _, item := range items {
		fmt.Fprintf(&b, "`%s` %s\n", item.Time, item.Detail)
	}
	s.ChannelMessageSend(m.ChannelID, b.String())
}

func (h *CommandHandler) cmdHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "RA Bot — commands",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`!RA bind <card>`", Value: "Bind your 8-character card number"},
			{Name: "`!RA card`", Value: "Show your bound card number"},
			{Name: "`!RA join <code>`", Value: "Join an event"},
			{Name: "`!RA tasks <code>`", Value: "List an event's tasks"},
			{Name: "`!RA pick <code> <task>`", Value: "Pick a task to work on"},
			{Name: "`!RA upload <code> <task>`", Value: "DM the bot an image as proof of completion"},
			{Name: "`!RA points`", Value: "Show your point balances"},
			{Name: "`!RA history`", Value: "Show your activity history"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
