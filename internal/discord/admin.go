package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ElvisLo030/RA-bot/internal/model"
)

// handleAdmin dispatches administrator commands. They only work in the
// configured admin channel and require the administrator permission there.
func (h *CommandHandler) handleAdmin(s *discordgo.Session, m *discordgo.MessageCreate, parts []string) {
	if m.ChannelID != h.adminChannelID {
		return
	}
	perms, err := s.UserChannelPermissions(m.Author.ID, m.ChannelID)
	if err != nil || perms&discordgo.PermissionAdministrator == 0 {
		return
	}

	switch strings.ToLower(parts[0]) {
	case "create-event":
		h.adminCreateEvent(s, m, parts[1:])
	case "edit-event":
		h.adminEditEvent(s, m, parts[1:])
	case "delete-event":
		h.adminDeleteEvent(s, m, parts[1:])
	case "event":
		h.adminQueryEvent(s, m, parts[1:])
	case "add-task":
		h.adminAddTask(s, m, parts[1:])
	case "del-task":
		h.adminDeleteTask(s, m, parts[1:])
	case "add-prize":
		h.adminAddPrize(s, m, parts[1:])
	case "del-prize":
		h.adminDeletePrize(s, m, parts[1:])
	case "give":
		h.adminGive(s, m, parts[1:])
	case "give-event":
		h.adminGiveEvent(s, m, parts[1:])
	case "set-card":
		h.adminSetCard(s, m, parts[1:])
	case "del-card":
		h.adminDeleteCard(s, m, parts[1:])
	case "block":
		h.adminSetBlocked(s, m, parts[1:], true)
	case "unblock":
		h.adminSetBlocked(s, m, parts[1:], false)
	case "redeem":
		h.adminRedeem(s, m, parts[1:])
	case "gamer":
		h.adminQueryGamer(s, m, parts[1:])
	case "admin-help":
		h.adminHelp(s, m)
	}
}

func parseUserID(arg string) (int64, error) {
	arg = strings.TrimSuffix(strings.TrimPrefix(arg, "<@"), ">")
	return strconv.ParseInt(arg, 10, 64)
}

func (h *CommandHandler) adminCreateEvent(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 4 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA create-event <code> <start> <end> <name...>`")
		return
	}
	ev, err := h.catalogSvc.CreateEvent(&model.CreateEventRequest{
		Code:      args[0],
		StartDate: args[1],
		EndDate:   args[2],
		Name:      strings.Join(args[3:], " "),
	})
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not create event: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"Event **%s** (`%s`) created, %s to %s.", ev.Name, ev.Code, ev.StartDate, ev.EndDate))
}

func (h *CommandHandler) adminEditEvent(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA edit-event <code> name|description|start|end <value...>`")
		return
	}
	value := strings.Join(args[2:], " ")
	req := &model.UpdateEventRequest{}
	switch strings.ToLower(args[1]) {
	case "name":
		req.Name = &value
	case "description":
		req.Description = &value
	case "start":
		req.StartDate = &value
	case "end":
		req.EndDate = &value
	default:
		s.ChannelMessageSend(m.ChannelID, "Unknown field, expected name, description, start, or end.")
		return
	}
	if _, err := h.catalogSvc.EditEvent(args[0], req); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not edit event: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Event `%s` updated.", args[0]))
}

func (h *CommandHandler) adminDeleteEvent(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA delete-event <code>`")
		return
	}
	if err := h.catalogSvc.DeleteEvent(args[0]); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not delete event: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Event `%s` deleted; all gamer references were removed.", args[0]))
}

func (h *CommandHandler) adminQueryEvent(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA event <code>`")
		return
	}
	ev, err := h.catalogSvc.GetEvent(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Event not found.")
		return
	}

	var tasks, prizes strings.Builder
	for _, t := range ev.Tasks {
		fmt.Fprintf(&tasks, "#%d %s — %d pts, %d passed\n", t.ID, t.Name, t.Points, len(t.CheckedUsers))
	}
	for _, p := range ev.Prizes {
		fmt.Fprintf(&prizes, "#%d %s — costs %d pts\n", p.ID, p.Name, p.PointsRequired)
	}

	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s (`%s`)", ev.Name, ev.Code),
		Description: orDefault(ev.Description, "no description"),
		Color:       colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Dates", Value: ev.StartDate + " to " + ev.EndDate, Inline: true},
			{Name: "Joined", Value: strconv.Itoa(len(ev.GamerList)), Inline: true},
			{Name: "Max points", Value: strconv.Itoa(ev.MaxPoints), Inline: true},
			{Name: "Tasks", Value: orDefault(tasks.String(), "none")},
			{Name: "Prizes", Value: orDefault(prizes.String(), "none")},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) adminAddTask(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA add-task <code> <points> <name...>`")
		return
	}
	points, err := strconv.Atoi(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Points must be a number.")
		return
	}
	t, err := h.catalogSvc.AddTask(args[0], &model.TaskRequest{
		Name:   strings.Join(args[2:], " "),
		Points: points,
	})
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not add task: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Task #%d (%d pts) added to `%s`.", t.ID, t.Points, args[0]))
}

func (h *CommandHandler) adminDeleteTask(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA del-task <code> <task id>`")
		return
	}
	taskID, err := strconv.Atoi(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Task id must be a number.")
		return
	}
	if err := h.catalogSvc.DeleteTask(args[0], taskID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not delete task: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Task #%d removed from `%s`.", taskID, args[0]))
}

func (h *CommandHandler) adminAddPrize(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA add-prize <code> <cost> <name...>`")
		return
	}
	cost, err := strconv.Atoi(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Cost must be a number.")
		return
	}
	p, err := h.catalogSvc.AddPrize(args[0], &model.PrizeRequest{
		Name:           strings.Join(args[2:], " "),
		PointsRequired: cost,
	})
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not add prize: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Prize #%d (%d pts) added to `%s`.", p.ID, p.PointsRequired, args[0]))
}

func (h *CommandHandler) adminDeletePrize(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA del-prize <code> <prize id>`")
		return
	}
	prizeID, err := strconv.Atoi(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Prize id must be a number.")
		return
	}
	if err := h.catalogSvc.DeletePrize(args[0], prizeID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not delete prize: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Prize #%d removed from `%s`.", prizeID, args[0]))
}

func (h *CommandHandler) adminGive(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA give <user> <points>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	points, err := strconv.Atoi(args[1])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Points must be a number.")
		return
	}
	if err := h.ledgerSvc.GrantGlobalPoints(userID, points); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not grant points: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Granted %+d points to <@%d>.", points, userID))
}

func (h *CommandHandler) adminGiveEvent(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA give-event <user> <code> <points>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	points, err := strconv.Atoi(args[2])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Points must be a number.")
		return
	}
	if err := h.ledgerSvc.GrantEventPoints(userID, args[1], points); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not grant points: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Granted %+d points to <@%d> in `%s`.", points, userID, args[1]))
}

func (h *CommandHandler) adminSetCard(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA set-card <user> <card number>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	if err := h.gamerSvc.SetCard(userID, args[1]); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not set card: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Card for <@%d> set to `%s`.", userID, args[1]))
}

func (h *CommandHandler) adminDeleteCard(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA del-card <user>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	if err := h.gamerSvc.ClearCard(userID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not clear card: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Card binding for <@%d> cleared.", userID))
}

func (h *CommandHandler) adminSetBlocked(s *discordgo.Session, m *discordgo.MessageCreate, args []string, blocked bool) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA block|unblock <user>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	if err := h.gamerSvc.SetBlocked(userID, blocked); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not update gamer: "+err.Error())
		return
	}
	verb := "unblocked"
	if blocked {
		verb = "blocked"
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Gamer <@%d> %s.", userID, verb))
}

func (h *CommandHandler) adminRedeem(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA redeem <user> <code> <prize id>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	prizeID, err := strconv.Atoi(args[2])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Prize id must be a number.")
		return
	}
	if err := h.ledgerSvc.Redeem(userID, args[1], prizeID); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not redeem: "+err.Error())
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Prize #%d in `%s` marked redeemed for <@%d>.", prizeID, args[1], userID))
}

func (h *CommandHandler) adminQueryGamer(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 1 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA gamer <user>`")
		return
	}
	userID, err := parseUserID(args[0])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Invalid user.")
		return
	}
	g, err := h.gamerSvc.Get(userID)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Gamer not found.")
		return
	}

	card := "not bound"
	if g.CardNumber != nil {
		card = "`" + *g.CardNumber + "`"
	}
	blocked := "no"
	if g.IsBlocked {
		blocked = "yes"
	}
	embed := &discordgo.MessageEmbed{
		Title: fmt.Sprintf("Gamer %d", g.ID),
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Card", Value: card, Inline: true},
			{Name: "Blocked", Value: blocked, Inline: true},
			{Name: "Total points", Value: strconv.Itoa(g.TotalPoints()), Inline: true},
			{Name: "Events", Value: orDefault(strings.Join(g.JoinedEvents, ", "), "none")},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}

func (h *CommandHandler) adminHelp(s *discordgo.Session, m *discordgo.MessageCreate) {
	embed := &discordgo.MessageEmbed{
		Title: "RA Bot — admin commands",
		Color: colorInfo,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "`create-event <code> <start> <end> <name...>`", Value: "Create an event (dates YYYY-MM-DD)"},
			{Name: "`edit-event <code> <field> <value...>`", Value: "Change name, description, start, or end"},
			{Name: "`delete-event <code>` / `event <code>`", Value: "Remove or inspect an event"},
			{Name: "`add-task <code> <points> <name...>` / `del-task <code> <id>`", Value: "Manage tasks"},
			{Name: "`add-prize <code> <cost> <name...>` / `del-prize <code> <id>`", Value: "Manage prizes"},
			{Name: "`give <user> <points>` / `give-event <user> <code> <points>`", Value: "Grant points"},
			{Name: "`set-card <user> <card>` / `del-card <user>`", Value: "Override card bindings"},
			{Name: "`block <user>` / `unblock <user>`", Value: "Toggle a gamer's block flag"},
			{Name: "`redeem <user> <code> <prize id>`", Value: "Mark a prize as handed out"},
			{Name: "`gamer <user>`", Value: "Inspect a gamer record"},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText},
	}
	s.ChannelMessageSendEmbed(m.ChannelID, embed)
}
