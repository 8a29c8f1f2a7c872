package gateway

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type fakeAdapter struct {
	platform   string
	handler    MessageHandler
	sent       []*OutboundMessage
	connectErr error
	connected  bool
}

func (f *fakeAdapter) Platform() string { return f.platform }
func (f *fakeAdapter) Connect(context.Context) error {
	f.connected = f.connectErr == nil
	return f.connectErr
}
func (f *fakeAdapter) OnMessage(h MessageHandler) { f.handler = h }
func (f *fakeAdapter) Close() error { return nil }
func (f *fakeAdapter) Status() AdapterStatus { return AdapterStatus{Platform: f.platform, Connected: true} }
func (f *fakeAdapter) Send(_ context.Context, m *OutboundMessage) error {
	f.sent = append(f.sent, m)
	return nil
}

func TestGatewayDispatchesInbound(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	a := &fakeAdapter{platform: "slack"}
	gw.Register(a)

	var got *InboundMessage
	gw.SetHandler(func(m *InboundMessage) { got = m })
	a.handler(&InboundMessage{Platform: "slack", Content: "/help"})

	if got == nil || got.Content != "/help" {
		t.Fatalf("handler not called with message, got %+v", got)
	}
}

func TestGatewaySendRoutesByPlatform(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	s := &fakeAdapter{platform: "slack"}
	d := &fakeAdapter{platform: "discord"}
	gw.Register(s)
	gw.Register(d)

	if err := gw.Send(context.Background(), &OutboundMessage{Platform: "discord", Content: "hi"}); err != nil {
		t.Fatalf("send: %v", err)
	}
	if len(d.sent) != 1 || len(s.sent) != 0 {
		t.Fatalf("sent slack=%d discord=%d", len(s.sent), len(d.sent))
	}
	if err := gw.Send(context.Background(), &OutboundMessage{Platform: "irc"}); err == nil {
		t.Fatal("expected error for unknown platform")
	}
}

func TestGatewayConnectErrorKeepsOthers(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	boom := errors.New("boom")
	gw.Register(&fakeAdapter{platform: "discord", connectErr: boom})
	slack := &fakeAdapter{platform: "slack"}
	gw.Register(slack)

	err := gw.ConnectAll(context.Background())
	if !errors.Is(err, boom) {
		t.Fatalf("expected joined connect error, got %v", err)
	}
	if !slack.connected {
		t.Fatal("slack adapter should still connect")
	}
}

func TestDispatchStripsMention(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	a := &fakeAdapter{platform: "slack"}
	gw.Register(a)

	var got string
	gw.SetHandler(func(m *InboundMessage) { got = m.Content })

	tests := map[string]string{
		"<@U024BE7LH> /recommend web app": "/recommend web app",
		"<@!8035111022> /help":            "/help",
		"/agents":                         "/agents",
		"hello <@U1> there":               "hello <@U1> there",
	}
	for in, want := range tests {
		a.handler(&InboundMessage{Platform: "slack", Content: in})
		if got != want {
			t.Errorf("content %q: got %q, want %q", in, got, want)
		}
	}
}

func TestAdaptersAndStatuses(t *testing.T) {
	gw := NewGateway(zap.NewNop())
	gw.Register(&fakeAdapter{platform: "slack"})
	gw.Register(&fakeAdapter{platform: "discord"})

	names := gw.Adapters()
	if strings.Join(names, ",") != "discord,slack" {
		t.Fatalf("adapters = %v", names)
	}
	if st := gw.Statuses(); len(st) != 2 || st[0].Platform != "discord" {
		t.Fatalf("statuses = %+v", st)
	}
}

func TestSplitMessage(t *testing.T) {
	if got := splitMessage("short", 10); len(got) != 1 {
		t.Fatalf("got %d chunks", len(got))
	}
	text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
	got := splitMessage(text, 10)
	if len(got) != 2 || got[0] != strings.Repeat("a", 6)+"\n" {
		t.Fatalf("chunks = %q", got)
	}
	for _, c := range splitMessage(strings.Repeat("x", 25), 10) {
		if len(c) > 10 {
			t.Fatalf("chunk too long: %d", len(c))
		}
	}
}

func TestThreadOf(t *testing.T) {
	if got := threadOf("", "111.1"); got != "111.1" {
		t.Errorf("new thread: got %q", got)
	}
	if got := threadOf("100.0", "111.1"); got != "100.0" {
		t.Errorf("existing thread: got %q", got)
	}
}
