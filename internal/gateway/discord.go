package gateway

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// discordMessageLimit is the maximum message length Discord accepts.
const discordMessageLimit = 2000

// DiscordAdapter implements GatewayAdapter over the Discord bot gateway.
// Guild messages are forwarded only when they start with "/" or mention
// the bot; direct messages are always forwarded.
type DiscordAdapter struct {
	token   string
	session *discordgo.Session
	handler MessageHandler
	logger  *zap.Logger

	mu       sync.RWMutex
	state    AdapterStatus
	botUser  string
	guildCnt int
}

// NewDiscordAdapter creates a Discord gateway adapter for a bot token.
func NewDiscordAdapter(token string, logger *zap.Logger) *DiscordAdapter {
	return &DiscordAdapter{
		token:  token,
		logger: logger,
		state:  AdapterStatus{Platform: "discord"},
	}
}

func (a *DiscordAdapter) Platform() string { return "discord" }

func (a *DiscordAdapter) OnMessage(h MessageHandler) { a.handler = h }

// Connect opens the websocket. Connection state is then tracked from the
// Ready and Disconnect events.
func (a *DiscordAdapter) Connect(_ context.Context) error {
	session, err := discordgo.New("Bot " + a.token)
	if err != nil {
		a.fail(err)
		return fmt.Errorf("discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuildMessages |
		discordgo.IntentsDirectMessages |
		discordgo.IntentsMessageContent
	session.AddHandler(a.onReady)
	session.AddHandler(a.onDisconnect)
	session.AddHandler(a.onMessageCreate)
	a.session = session

	if err := session.Open(); err != nil {
		a.fail(err)
		return fmt.Errorf("discord open: %w", err)
	}
	return nil
}

func (a *DiscordAdapter) fail(err error) {
	a.mu.Lock()
	a.state.Connected = false
	a.state.Error = err.Error()
	a.mu.Unlock()
}

func (a *DiscordAdapter) onReady(_ *discordgo.Session, r *discordgo.Ready) {
	now := time.Now()
	a.mu.Lock()
	a.state.Connected = true
	a.state.ConnectedAt = &now
	a.state.Error = ""
	a.botUser = r.User.Username
	a.guildCnt = len(r.Guilds)
	a.mu.Unlock()

	if len(r.Guilds) == 0 {
		a.logger.Warn("discord bot is not a member of any server")
	}
	a.logger.Info("discord adapter ready",
		zap.String("user", r.User.Username), zap.Int("guilds", len(r.Guilds)))
}

func (a *DiscordAdapter) onDisconnect(_ *discordgo.Session, _ *discordgo.Disconnect) {
	a.mu.Lock()
	a.state.Connected = false
	a.mu.Unlock()
	a.logger.Warn("discord gateway disconnected")
}

func (a *DiscordAdapter) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot || a.handler == nil {
		return
	}
	self := s.State.User.ID
	if m.Author.ID == self {
		return
	}
	if m.GuildID != "" && !strings.HasPrefix(m.Content, "/") && !mentions(m.Mentions, self) {
		return
	}

	a.handler(&InboundMessage{
		Platform:  "discord",
		ChannelID: m.ChannelID,
		UserID:    m.Author.ID,
		UserName:  m.Author.Username,
		Content:   m.Content,
		Timestamp: m.Timestamp,
		ReplyTo:   m.ID,
	})
}

func mentions(users []*discordgo.User, id string) bool {
	for _, u := range users {
		if u.ID == id {
			return true
		}
	}
	return false
}

// Send posts content to a channel, split into chunks Discord accepts.
// The first chunk replies to the triggering message when ReplyTo is set.
func (a *DiscordAdapter) Send(ctx context.Context, msg *OutboundMessage) error {
	if a.session == nil {
		return fmt.Errorf("discord send: not connected")
	}
	for i, chunk := range splitMessage(msg.Content, discordMessageLimit) {
		send := &discordgo.MessageSend{Content: chunk}
		if i == 0 && msg.ReplyTo != "" {
			send.Reference = &discordgo.MessageReference{MessageID: msg.ReplyTo, ChannelID: msg.ChannelID}
		}
		if _, err := a.session.ChannelMessageSendComplex(msg.ChannelID, send, discordgo.WithContext(ctx)); err != nil {
			return fmt.Errorf("discord send to %s: %w", msg.ChannelID, err)
		}
	}
	return nil
}

// splitMessage breaks content into pieces of at most limit bytes,
// preferring line boundaries.
func splitMessage(content string, limit int) []string {
	if len(content) <= limit {
		return []string{content}
	}
	var chunks []string
	for len(content) > limit {
		cut := strings.LastIndexByte(content[:limit], '\n') + 1
		if cut == 0 {
			cut = limit
		}
		chunks = append(chunks, content[:cut])
		content = content[cut:]
	}
	if content != "" {
		chunks = append(chunks, content)
	}
	return chunks
}

// Close shuts down the Discord session.
func (a *DiscordAdapter) Close() error {
	if a.session == nil {
		return nil
	}
	return a.session.Close()
}

func (a *DiscordAdapter) Status() AdapterStatus {
	a.mu.RLock()
	defer a.mu.RUnlock()
	s := a.state
	if s.Connected {
		s.Details = fmt.Sprintf("bot=%s, guilds=%d", a.botUser, a.guildCnt)
	}
	return s
}
