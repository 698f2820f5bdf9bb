package discord

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/ElvisLo030/RA-bot/internal/model"
)

// cmdUpload records a pending submission and relays the attachment to the
// review channel. Proof uploads are DM-only so card numbers and filenames
// stay out of public channels.
func (h *CommandHandler) cmdUpload(s *discordgo.Session, m *discordgo.MessageCreate, userID int64, code, taskArg string) {
	if m.GuildID != "" {
		s.ChannelMessageSend(m.ChannelID, "Please DM the bot to upload proof images.")
		return
	}
	taskID, err := strconv.Atoi(taskArg)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Task id must be a number.")
		return
	}
	if len(m.Attachments) == 0 {
		s.ChannelMessageSend(m.ChannelID, "Attach an image to the upload command.")
		return
	}
	attachment := m.Attachments[0]
	if !isImageFilename(attachment.Filename) {
		s.ChannelMessageSend(m.ChannelID, "Only image files are accepted (.png, .jpg, .jpeg, .gif).")
		return
	}

	sub, err := h.ledgerSvc.Submit(userID, code, taskID, attachment.Filename)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not submit: "+err.Error())
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: "New submission",
		Color: colorReview,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Gamer", Value: fmt.Sprintf("<@%d>", userID), Inline: true},
			{Name: "Event", Value: sub.EventCode, Inline: true},
			{Name: "Task", Value: strconv.Itoa(sub.TaskID), Inline: true},
			{Name: "File", Value: fmt.Sprintf("`%s`", sub.Filename)},
			{Name: "Review", Value: fmt.Sprintf("`!RA approve %s %d` or `!RA reject %s %d`",
				sub.Filename, sub.TaskID, sub.Filename, sub.TaskID)},
		},
		Image:  &discordgo.MessageEmbedImage{URL: attachment.URL},
		Footer: &discordgo.MessageEmbedFooter{Text: footerText + " · " + sub.ID},
	}
	if _, err := s.ChannelMessageSendEmbed(h.reviewChannelID, embed); err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not reach the review channel, ask an administrator to check the configuration.")
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
		"Image `%s` received for task %d of event %s. A moderator will review it.",
		sub.Filename, sub.TaskID, sub.EventCode))
}

// handleReview settles a pending submission from the review channel.
func (h *CommandHandler) handleReview(s *discordgo.Session, m *discordgo.MessageCreate, parts []string) {
	if m.ChannelID != h.reviewChannelID {
		s.ChannelMessageSend(m.ChannelID, "Review commands only work in the review channel.")
		return
	}
	if len(parts) < 3 {
		s.ChannelMessageSend(m.ChannelID, "Usage: `!RA approve|reject <filename> <task id>`")
		return
	}
	taskID, err := strconv.Atoi(parts[2])
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Task id must be a number.")
		return
	}

	approve := parts[0] == "approve"
	sub, err := h.ledgerSvc.Review(parts[1], taskID, approve)
	if err != nil {
		s.ChannelMessageSend(m.ChannelID, "Could not review: "+err.Error())
		return
	}

	if approve {
		ev, evErr := h.catalogSvc.GetEvent(sub.EventCode)
		points := 0
		if evErr == nil {
			if t := ev.Task(sub.TaskID); t != nil {
				points = t.Points
			}
		}
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(
			"Approved `%s` (+%d pts for <@%d>).", sub.Filename, points, sub.GamerID))
		h.notifyGamer(s, sub, fmt.Sprintf(
			"Your image `%s` for task %d of event %s was approved, +%d points.",
			sub.Filename, sub.TaskID, sub.EventCode, points))
		return
	}

	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Rejected `%s`.", sub.Filename))
	h.notifyGamer(s, sub, fmt.Sprintf(
		"Your image `%s` for task %d of event %s was rejected. You may submit a new one.",
		sub.Filename, sub.TaskID, sub.EventCode))
}

func (h *CommandHandler) notifyGamer(s *discordgo.Session, sub *model.Submission, text string) {
	ch, err := s.UserChannelCreate(strconv.FormatInt(sub.GamerID, 10))
	if err != nil {
		return
	}
	s.ChannelMessageSend(ch.ID, text)
}

func isImageFilename(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".gif"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}
