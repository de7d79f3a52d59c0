package notifier

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/gdg-garage/trip-planner-api/internal/config"
	"github.com/gdg-garage/trip-planner-api/internal/models"
)

type fakeSession struct {
	channel  string
	messages []string
	err      error
}

func (f *fakeSession) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.channel = channelID
	f.messages = append(f.messages, content)
	return &discordgo.Message{Content: content}, nil
}

func TestDiscordNotifier(t *testing.T) {
	t.Run("TripCreated", func(t *testing.T) {
		session := &fakeSession{}
		n := NewDiscordNotifierWithSession(session, "chan-1")

		budget := 1200.0
		trip := models.Trip{
			Title:          "Alps",
			Destination:    "Chamonix",
			StartDate:      time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
			EndDate:        time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC),
			TravelersCount: 2,
			Budget:         &budget,
		}
		if err := n.NotifyTripCreated(models.User{Username: "maria"}, trip); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if session.channel != "chan-1" {
			t.Errorf("expected channel chan-1, got %s", session.channel)
		}
		msg := session.messages[0]
		for _, want := range []string{"maria", "Chamonix", "2025-01-10 - 2025-01-17", "1200.00"} {
			if !strings.Contains(msg, want) {
				t.Errorf("expected message to contain %q, got %q", want, msg)
			}
		}
	})

	t.Run("UserRegistered", func(t *testing.T) {
		session := &fakeSession{}
		n := NewDiscordNotifierWithSession(session, "chan-1")
		if err := n.NotifyUserRegistered(models.User{Username: "tom", Email: "tom@example.com"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(session.messages[0], "tom@example.com") {
			t.Errorf("unexpected message %q", session.messages[0])
		}
	})

	t.Run("SendFailure", func(t *testing.T) {
		n := NewDiscordNotifierWithSession(&fakeSession{err: errors.New("boom")}, "chan-1")
		if err := n.NotifyUserRegistered(models.User{}); err == nil {
			t.Fatal("expected error from failing session")
		}
	})

	t.Run("MissingChannel", func(t *testing.T) {
		n := NewDiscordNotifierWithSession(&fakeSession{}, "")
		if err := n.NotifyUserRegistered(models.User{}); err == nil {
			t.Fatal("expected error for empty channel")
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		if _, err := NewDiscordNotifier(&config.Config{DiscordNotificationsChannelID: "x"}); err == nil {
			t.Fatal("expected error for empty token")
		}
	})
}
