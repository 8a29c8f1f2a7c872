package router

import (
	"context"
	"errors"
	"testing"

	"github.com/nidhogg/agent-advisor/internal/command"
	"github.com/nidhogg/agent-advisor/internal/gateway"
	"go.uber.org/zap"
)

type recordingSender struct {
	sent []*gateway.OutboundMessage
}

func (r *recordingSender) Send(_ context.Context, msg *gateway.OutboundMessage) error {
	r.sent = append(r.sent, msg)
	return nil
}

func newRouter(t *testing.T) (*MessageRouter, *recordingSender) {
	t.Helper()
	reg := command.NewRegistry()
	reg.Register(&command.Command{
		Name: "echo",
		Handler: func(_ context.Context, args string, cc *command.CommandContext) (*command.CommandResult, error) {
			if cc.RequestID == "" {
				t.Error("request id not set")
			}
			return &command.CommandResult{Content: args}, nil
		},
	})
	reg.Register(&command.Command{
		Name: "fail",
		Handler: func(context.Context, string, *command.CommandContext) (*command.CommandResult, error) {
			return nil, errors.New("boom")
		},
	})
	s := &recordingSender{}
	return New(s, reg, zap.NewNop()), s
}

func TestHandleRoutesSlashCommand(t *testing.T) {
	mr, s := newRouter(t)
	mr.Handle(&gateway.InboundMessage{
		Platform:  "slack",
		ChannelID: "C1",
		Content:   "/echo hello there",
		ReplyTo:   "123.456",
	})

	if len(s.sent) != 1 {
		t.Fatalf("sent %d replies, want 1", len(s.sent))
	}
	got := s.sent[0]
	if got.Content != "hello there" || got.Platform != "slack" || got.ChannelID != "C1" || got.ReplyTo != "123.456" {
		t.Fatalf("unexpected reply: %+v", got)
	}
}

func TestHandleIgnoresPlainMessages(t *testing.T) {
	mr, s := newRouter(t)
	mr.Handle(&gateway.InboundMessage{Platform: "discord", Content: "what should I use for python?"})
	if len(s.sent) != 0 {
		t.Fatalf("expected no reply, got %+v", s.sent)
	}
}

func TestHandleReportsCommandError(t *testing.T) {
	mr, s := newRouter(t)
	mr.Handle(&gateway.InboundMessage{Platform: "discord", Content: "/fail"})
	if len(s.sent) != 1 || s.sent[0].Content != "Command error: boom" {
		t.Fatalf("unexpected replies: %+v", s.sent)
	}
}
