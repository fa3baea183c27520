// Package discord connects the message router to a Discord gateway
// session.
package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/pfial/atlas-resource-bot/internal/logger"
	"github.com/pfial/atlas-resource-bot/internal/metrics"
)

// Replier computes the bot's answer to one message text. Empty means no
// reply.
type Replier interface {
	Reply(text string) string
}

// Transport owns the Discord session. Incoming guild messages are passed
// to the replier; its answer, if any, goes back to the originating
// channel.
type Transport struct {
	session *discordgo.Session
	replier Replier
	log     *logger.Logger
	metrics *metrics.Metrics
}

// New creates a transport for the given bot token. The session is not
// opened yet.
func New(token string, replier Replier, log *logger.Logger, m *metrics.Metrics) (*Transport, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages | discordgo.IntentMessageContent

	t := &Transport{
		session: session,
		replier: replier,
		log:     log.WithModule("discord"),
		metrics: m,
	}
	session.AddHandler(t.onMessage)
	return t, nil
}

// Open connects to the gateway and starts receiving events.
func (t *Transport) Open() error {
	if err := t.session.Open(); err != nil {
		return fmt.Errorf("open discord session: %w", err)
	}
	t.log.Info("Discord session opened")
	return nil
}

// Close shuts the gateway connection down.
func (t *Transport) Close() error {
	return t.session.Close()
}

func (t *Transport) onMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Never talk to ourselves or other bots.
	if m.Author == nil || m.Author.Bot {
		return
	}
	if s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID {
		return
	}

	reply := t.replier.Reply(m.Content)
	if reply == "" {
		return
	}

	if _, err := s.ChannelMessageSend(m.ChannelID, reply); err != nil {
		t.log.WithError(err).WithField("channel", m.ChannelID).Error("Reply failed")
		t.metrics.MessagesTotal.WithLabelValues("error").Inc()
	}
}
