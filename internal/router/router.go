// Package router turns chat messages into command invocations and sends
// the replies back through the gateway.
package router

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nidhogg/agent-advisor/internal/command"
	"github.com/nidhogg/agent-advisor/internal/gateway"
	"go.uber.org/zap"
)

// commandTimeout bounds a single command including the reply send.
const commandTimeout = 30 * time.Second

// Sender delivers replies to a chat platform.
type Sender interface {
	Send(ctx context.Context, msg *gateway.OutboundMessage) error
}

// MessageRouter routes inbound slash commands to the command registry.
// Messages that do not start with "/" are ignored.
type MessageRouter struct {
	sender   Sender
	commands *command.Registry
	logger   *zap.Logger
}

// New creates a new MessageRouter.
func New(sender Sender, commands *command.Registry, logger *zap.Logger) *MessageRouter {
	return &MessageRouter{
		sender:   sender,
		commands: commands,
		logger:   logger,
	}
}

// Handle routes an inbound message. Signature matches gateway.MessageHandler.
func (mr *MessageRouter) Handle(msg *gateway.InboundMessage) {
	content := strings.TrimSpace(msg.Content)
	if !strings.HasPrefix(content, "/") {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	reqID := uuid.NewString()
	log := mr.logger.With(
		zap.String("request_id", reqID),
		zap.String("platform", msg.Platform),
		zap.String("channel", msg.ChannelID),
		zap.String("user", msg.UserName),
	)
	name, _ := command.Parse(content)
	log.Info("routing command", zap.String("command", name))

	cc := &command.CommandContext{
		Platform:  msg.Platform,
		ChannelID: msg.ChannelID,
		UserID:    msg.UserID,
		UserName:  msg.UserName,
		RequestID: reqID,
	}
	result, err := mr.commands.Dispatch(ctx, content, cc)
	if err != nil {
		log.Error("command dispatch error", zap.Error(err))
		mr.sendReply(ctx, log, msg, "Command error: "+err.Error())
		return
	}
	mr.sendReply(ctx, log, msg, result.Content)
}

// sendReply sends a text reply back to the originating platform/channel.
func (mr *MessageRouter) sendReply(ctx context.Context, log *zap.Logger, orig *gateway.InboundMessage, text string) {
	err := mr.sender.Send(ctx, &gateway.OutboundMessage{
		Platform:  orig.Platform,
		ChannelID: orig.ChannelID,
		Content:   text,
		ReplyTo:   orig.ReplyTo,
	})
	if err != nil {
		log.Error("send reply failed", zap.Error(err))
	}
}
