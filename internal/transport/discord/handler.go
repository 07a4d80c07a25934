// Package discord wires the quiz workflow into Discord slash commands and
// message-component interactions.
package discord

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"

	"github.com/bwmarrin/discordgo"
)

const (
	colorInfo    = 0x0099ff
	colorSuccess = 0x00ff00
	colorError   = 0xff0000
)

// Commands are the slash commands this bot registers per guild.
var Commands = []*discordgo.ApplicationCommand{
	{
		Name:        "start_quiz",
		Description: "Starts a new quiz session with random questions.",
	},
	{
		Name:        "leaderboard",
		Description: "Displays the top scorers in the server.",
	},
}

// Handler dispatches Discord interactions into the quiz service.
type Handler struct {
	session          *discordgo.Session
	service          *app.QuizService
	allowed          map[string]struct{}
	broadcastChannel string
}

func NewHandler(session *discordgo.Session, service *app.QuizService, allowedChannels []string, broadcastChannel string) *Handler {
	allowed := make(map[string]struct{}, len(allowedChannels))
	for _, id := range allowedChannels {
		allowed[id] = struct{}{}
	}
	return &Handler{
		session:          session,
		service:          service,
		allowed:          allowed,
		broadcastChannel: broadcastChannel,
	}
}

// Register attaches the ready and interaction handlers to the session.
func (h *Handler) Register() {
	h.session.AddHandler(h.onReady)
	h.session.AddHandler(h.onInteraction)
}

func (h *Handler) onReady(s *discordgo.Session, r *discordgo.Ready) {
	log.Printf("logged in as %s", r.User.String())
	if err := s.UpdateGameStatus(0, "with quizzes"); err != nil {
		log.Printf("failed to set presence: %v", err)
	}
}

// onInteraction is the single dispatch point: the channel policy check runs
// first on every interaction, then command vs component.
func (h *Handler) onInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if err := h.checkChannel(i.ChannelID); err != nil {
		h.replyEphemeral(i, "This command can only be used in specific channels.")
		return
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		h.handleCommand(i)
	case discordgo.InteractionMessageComponent:
		h.handleComponent(i)
	}
}

func (h *Handler) handleCommand(i *discordgo.InteractionCreate) {
	switch i.ApplicationCommandData().Name {
	case "start_quiz":
		h.startQuiz(i)
	case "leaderboard":
		h.showLeaderboard(i)
	}
}

func (h *Handler) startQuiz(i *discordgo.InteractionCreate) {
	if err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Printf("failed to defer start_quiz reply: %v", err)
		return
	}

	prompt, err := h.service.StartQuiz(context.Background(), interactionUserID(i))
	if err != nil {
		log.Printf("start_quiz failed: %v", err)
		h.editReplyText(i, "Failed to fetch a quiz question. Please try again later.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "\U0001F389 Quiz Time! \U0001F389",
		Description: fmt.Sprintf("**Question:**\n%s", prompt.Question),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Choose an option below:"},
	}
	components := optionButtons(prompt.Options)
	if _, err := h.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}); err != nil {
		log.Printf("failed to present quiz: %v", err)
	}
}

func (h *Handler) showLeaderboard(i *discordgo.InteractionCreate) {
	records, err := h.service.Leaderboard(context.Background(), 10)
	if err != nil {
		log.Printf("leaderboard failed: %v", err)
		h.replyEphemeral(i, "There was an error while executing this command!")
		return
	}

	lines := make([]string, 0, len(records))
	for rank, record := range records {
		lines = append(lines, fmt.Sprintf("%d. <@%s> - %d points (%d/%d correct)",
			rank+1, record.UserID, record.Score, record.CorrectCount(), len(record.Attempts)))
	}
	description := strings.Join(lines, "\n")
	if description == "" {
		description = "No scores yet."
	}

	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "\U0001F3C6 Leaderboard \U0001F3C6",
		Description: description,
	}
	if err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Printf("failed to send leaderboard: %v", err)
	}
}

func (h *Handler) handleComponent(i *discordgo.InteractionCreate) {
	label, ok := findSelectedLabel(i.Message.Components, i.MessageComponentData().CustomID)
	if !ok {
		h.replyEphemeral(i, "There was an error while executing this command!")
		return
	}

	verdict, err := h.service.SubmitAnswer(context.Background(), interactionUserID(i), label)
	if errors.Is(err, domain.ErrNoPendingQuiz) {
		h.replyEphemeral(i, "No quiz in progress or answer not provided.")
		return
	}
	if err != nil {
		log.Printf("answer submission failed: %v", err)
		h.replyEphemeral(i, "There was an error while executing this command!")
		return
	}

	embed := verdictEmbed(verdict)
	if err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}); err != nil {
		log.Printf("failed to send verdict: %v", err)
	}
}

// PostAnnouncement publishes a fully-revealed question to the broadcast
// channel: all buttons disabled, the correct one styled green.
func (h *Handler) PostAnnouncement(ann domain.Announcement) error {
	embed := &discordgo.MessageEmbed{
		Color:       colorInfo,
		Title:       "\U0001F389 Quiz Time! \U0001F389",
		Description: fmt.Sprintf("**Question:**\n%s", ann.Question),
		Footer:      &discordgo.MessageEmbedFooter{Text: "Correct answer is shown below:"},
	}
	_, err := h.session.ChannelMessageSendComplex(h.broadcastChannel, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: revealedButtons(ann),
	})
	return err
}

// checkChannel enforces the allow-list; an empty list means no restriction.
func (h *Handler) checkChannel(channelID string) error {
	if len(h.allowed) == 0 {
		return nil
	}
	if _, ok := h.allowed[channelID]; !ok {
		return domain.ErrChannelNotAllowed
	}
	return nil
}

func (h *Handler) replyEphemeral(i *discordgo.InteractionCreate, content string) {
	err := h.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
	if err != nil {
		log.Printf("failed to reply: %v", err)
	}
}

func (h *Handler) editReplyText(i *discordgo.InteractionCreate, content string) {
	if _, err := h.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	}); err != nil {
		log.Printf("failed to edit reply: %v", err)
	}
}

func verdictEmbed(v domain.Verdict) *discordgo.MessageEmbed {
	if v.Correct {
		return &discordgo.MessageEmbed{
			Color:       colorSuccess,
			Title:       "Correct!",
			Description: "You got it right!",
		}
	}
	return &discordgo.MessageEmbed{
		Color:       colorError,
		Title:       "Incorrect!",
		Description: fmt.Sprintf("The correct answer was: **%s**", v.CorrectAnswer),
	}
}

// optionButtons builds one primary button per option; the label carries the
// answer text, the custom ID only the position.
func optionButtons(options []string) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(options))
	for idx, option := range options {
		buttons = append(buttons, discordgo.Button{
			Label:    option,
			Style:    discordgo.PrimaryButton,
			CustomID: fmt.Sprintf("answer_%d", idx),
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

func revealedButtons(ann domain.Announcement) []discordgo.MessageComponent {
	buttons := make([]discordgo.MessageComponent, 0, len(ann.Options))
	for idx, option := range ann.Options {
		style := discordgo.DangerButton
		if idx == ann.CorrectIndex {
			style = discordgo.SuccessButton
		}
		buttons = append(buttons, discordgo.Button{
			Label:    option,
			Style:    style,
			CustomID: fmt.Sprintf("answer_%d", idx),
			Disabled: true,
		})
	}
	return []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}}
}

// findSelectedLabel resolves a clicked button's label from the message's
// own components; the interaction payload carries only the custom ID.
func findSelectedLabel(components []discordgo.MessageComponent, customID string) (string, bool) {
	for _, component := range components {
		switch c := component.(type) {
		case *discordgo.ActionsRow:
			if label, ok := findSelectedLabel(c.Components, customID); ok {
				return label, true
			}
		case discordgo.ActionsRow:
			if label, ok := findSelectedLabel(c.Components, customID); ok {
				return label, true
			}
		case *discordgo.Button:
			if c.CustomID == customID {
				return c.Label, true
			}
		case discordgo.Button:
			if c.CustomID == customID {
				return c.Label, true
			}
		}
	}
	return "", false
}

// interactionUserID works for both guild (Member) and DM (User) interactions.
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
