package notifier

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/models"
	"github.com/rs/zerolog/log"
)

type Notifier interface {
	NotifyUserRegistered(user models.User) error
	NotifyTripCreated(owner models.User, trip models.Trip) error
}

// MessageSender is the part of a discordgo session the notifier needs.
type MessageSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

type DiscordNotifier struct {
	session   MessageSender
	channelID string
}

func NewDiscordNotifier(cfg *config.Config) (*DiscordNotifier, error) {
	if cfg.DiscordBotToken == "" {
		return nil, fmt.Errorf("discord bot token is empty")
	}
	if cfg.DiscordNotificationsChannelID == "" {
		return nil, fmt.Errorf("discord channel ID is empty")
	}

	session, err := discordgo.New("Bot " + cfg.DiscordBotToken)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}

	return NewDiscordNotifierWithSession(session, cfg.DiscordNotificationsChannelID), nil
}

func NewDiscordNotifierWithSession(session MessageSender, channelID string) *DiscordNotifier {
	return &DiscordNotifier{
		session:   session,
		channelID: channelID,
	}
}

func (n *DiscordNotifier) NotifyUserRegistered(user models.User) error {
	message := fmt.Sprintf("👋 **New traveler**\n**User:** %s\n**Email:** %s",
		user.Username,
		user.Email,
	)
	return n.send(message)
}

func (n *DiscordNotifier) NotifyTripCreated(owner models.User, trip models.Trip) error {
	budget := "not set"
	if trip.Budget != nil {
		budget = fmt.Sprintf("%.2f", *trip.Budget)
	}

	message := fmt.Sprintf("🧳 **New trip planned**\n**Owner:** %s\n**Trip:** %s\n**Destination:** %s\n**Dates:** %s - %s\n**Travelers:** %d\n**Budget:** %s",
		owner.Username,
		trip.Title,
		trip.Destination,
		models.FormatDate(trip.StartDate),
		models.FormatDate(trip.EndDate),
		trip.TravelersCount,
		budget,
	)
	return n.send(message)
}

func (n *DiscordNotifier) send(message string) error {
	if n.session == nil {
		return fmt.Errorf("discord session is nil")
	}
	if n.channelID == "" {
		return fmt.Errorf("discord channel ID is empty")
	}

	if _, err := n.session.ChannelMessageSend(n.channelID, message); err != nil {
		log.Error().Err(err).Str("channel", n.channelID).Msg("Failed to send discord message")
		return err
	}
	return nil
}
