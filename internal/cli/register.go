package cli

import (
	"fmt"
	"log"

	"trivia-quiz-bot/internal/config"
	discordtransport "trivia-quiz-bot/internal/transport/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/cobra"
)

// NewRegisterCmd registers the guild slash commands. REST-only; the
// gateway is never opened.
func NewRegisterCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "register",
		Short: "Register the guild slash commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return registerCommands(*configPath)
		},
	}
}

func registerCommands(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Discord.Token == "" || cfg.Discord.ApplicationID == "" || cfg.Discord.GuildID == "" {
		return fmt.Errorf("discord token, application id, and guild id are required")
	}

	session, err := discordgo.New("Bot " + cfg.Discord.Token)
	if err != nil {
		return fmt.Errorf("create discord session: %w", err)
	}

	registered, err := session.ApplicationCommandBulkOverwrite(cfg.Discord.ApplicationID, cfg.Discord.GuildID, discordtransport.Commands)
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	log.Printf("registered %d application commands", len(registered))
	return nil
}
