package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
	"github.com/slack-go/slack/socketmode"
	"go.uber.org/zap"
)

// SlackAdapter implements GatewayAdapter for Slack using Socket Mode.
//
// Three inputs reach the handler: registered slash commands
// ("/recommend ..."), app mentions in channels ("@advisor /recommend ..."),
// and direct messages to the bot.
type SlackAdapter struct {
	client  *slack.Client
	socket  *socketmode.Client
	handler MessageHandler
	logger  *zap.Logger

	mu          sync.RWMutex
	connected   bool
	connectedAt time.Time
	lastError   string
}

// NewSlackAdapter creates a Slack gateway adapter.
// botToken is the Bot User OAuth Token (xoxb-...).
// appToken is the App-Level Token (xapp-...) for Socket Mode.
func NewSlackAdapter(botToken, appToken string, logger *zap.Logger) *SlackAdapter {
	client := slack.New(botToken, slack.OptionAppLevelToken(appToken))
	return &SlackAdapter{
		client: client,
		socket: socketmode.New(client, socketmode.OptionLog(zap.NewStdLog(logger))),
		logger: logger,
	}
}

func (a *SlackAdapter) Platform() string { return "slack" }

func (a *SlackAdapter) OnMessage(h MessageHandler) { a.handler = h }

// Connect starts the Socket Mode loop and its event pump in the background.
// Both stop when ctx is cancelled.
func (a *SlackAdapter) Connect(ctx context.Context) error {
	go a.pump(ctx)
	go func() {
		err := a.socket.RunContext(ctx)
		a.mu.Lock()
		a.connected = false
		if err != nil && ctx.Err() == nil {
			a.lastError = err.Error()
		}
		a.mu.Unlock()
		if err != nil && ctx.Err() == nil {
			a.logger.Error("slack socket mode stopped", zap.Error(err))
		}
	}()
	return nil
}

func (a *SlackAdapter) pump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-a.socket.Events:
			if !ok {
				return
			}
			a.route(evt)
		}
	}
}

func (a *SlackAdapter) route(evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnected:
		a.mu.Lock()
		a.connected = true
		a.connectedAt = time.Now()
		a.lastError = ""
		a.mu.Unlock()
		a.logger.Info("slack adapter connected via socket mode")

	case socketmode.EventTypeConnectionError:
		a.mu.Lock()
		a.connected = false
		a.lastError = "connection error"
		a.mu.Unlock()

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		a.socket.Ack(*evt.Request)
		a.emit(&InboundMessage{
			ChannelID: cmd.ChannelID,
			UserID:    cmd.UserID,
			UserName:  cmd.UserName,
			Content:   strings.TrimSpace(cmd.Command + " " + cmd.Text),
		})

	case socketmode.EventTypeEventsAPI:
		api, ok := evt.Data.(slackevents.EventsAPIEvent)
		if !ok {
			return
		}
		a.socket.Ack(*evt.Request)
		if api.Type != slackevents.CallbackEvent {
			return
		}
		switch inner := api.InnerEvent.Data.(type) {
		case *slackevents.AppMentionEvent:
			a.emit(&InboundMessage{
				ChannelID: inner.Channel,
				UserID:    inner.User,
				UserName:  inner.User,
				Content:   inner.Text,
				ReplyTo:   threadOf(inner.ThreadTimeStamp, inner.TimeStamp),
			})
		case *slackevents.MessageEvent:
			// Channel messages arrive as app mentions; only DMs are taken here.
			if inner.BotID != "" || inner.ChannelType != "im" {
				return
			}
			a.emit(&InboundMessage{
				ChannelID: inner.Channel,
				UserID:    inner.User,
				UserName:  inner.User,
				Content:   inner.Text,
				ReplyTo:   threadOf(inner.ThreadTimeStamp, inner.TimeStamp),
			})
		}
	}
}

func (a *SlackAdapter) emit(msg *InboundMessage) {
	if a.handler == nil {
		return
	}
	msg.Platform = "slack"
	msg.Timestamp = time.Now()
	a.handler(msg)
}

// threadOf keeps replies inside an existing thread, or starts one under
// the triggering message.
func threadOf(threadTS, ts string) string {
	if threadTS != "" {
		return threadTS
	}
	return ts
}

// Send posts a message to a Slack channel, threading it when ReplyTo is set.
func (a *SlackAdapter) Send(ctx context.Context, msg *OutboundMessage) error {
	opts := []slack.MsgOption{slack.MsgOptionText(msg.Content, false)}
	if msg.ReplyTo != "" {
		opts = append(opts, slack.MsgOptionTS(msg.ReplyTo))
	}
	if _, _, err := a.client.PostMessageContext(ctx, msg.ChannelID, opts...); err != nil {
		return fmt.Errorf("slack send to %s: %w", msg.ChannelID, err)
	}
	return nil
}

// Close is a no-op; cancelling the Connect context stops the socket.
func (a *SlackAdapter) Close() error {
	return nil
}

func (a *SlackAdapter) Status() AdapterStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := AdapterStatus{Platform: "slack", Connected: a.connected, Error: a.lastError}
	if a.connected {
		t := a.connectedAt
		s.ConnectedAt = &t
		s.Details = "socket mode"
	}
	return s
}
