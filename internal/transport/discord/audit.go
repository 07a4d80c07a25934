package discord

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"
)

// AuditNotifier posts quiz-start notifications to a separate audit channel.
// Failures are logged and swallowed; auditing never fails the quiz.
type AuditNotifier struct {
	session   *discordgo.Session
	channelID string
}

func NewAuditNotifier(session *discordgo.Session, channelID string) *AuditNotifier {
	return &AuditNotifier{session: session, channelID: channelID}
}

func (n *AuditNotifier) QuizStarted(userID string) {
	if n.channelID == "" {
		return
	}
	msg := fmt.Sprintf("<@%s> started a quiz!", userID)
	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		log.Printf("audit notification failed: %v", err)
	}
}
