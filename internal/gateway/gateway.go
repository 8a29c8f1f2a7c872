// Package gateway connects chat platforms to a single message handler.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Gateway owns the platform adapters. Inbound messages from every adapter
// go to one handler; replies are routed back by platform name.
type Gateway struct {
	mu       sync.RWMutex
	adapters map[string]GatewayAdapter
	handler  MessageHandler
	logger   *zap.Logger
}

// NewGateway creates a gateway with no adapters.
func NewGateway(logger *zap.Logger) *Gateway {
	return &Gateway{
		adapters: make(map[string]GatewayAdapter),
		logger:   logger,
	}
}

// SetHandler sets the callback for inbound messages. It may be called
// before or after adapters are registered.
func (g *Gateway) SetHandler(h MessageHandler) {
	g.mu.Lock()
	g.handler = h
	g.mu.Unlock()
}

// Register adds an adapter, replacing any previous one for its platform.
func (g *Gateway) Register(adapter GatewayAdapter) {
	adapter.OnMessage(g.dispatch)

	g.mu.Lock()
	g.adapters[adapter.Platform()] = adapter
	g.mu.Unlock()
	g.logger.Info("registered gateway adapter", zap.String("platform", adapter.Platform()))
}

func (g *Gateway) dispatch(msg *InboundMessage) {
	g.mu.RLock()
	h := g.handler
	g.mu.RUnlock()
	if h == nil {
		return
	}
	msg.Content = stripMention(msg.Content)
	h(msg)
}

// ConnectAll connects every adapter. A failing adapter does not stop the
// others; all failures are returned together.
func (g *Gateway) ConnectAll(ctx context.Context) error {
	var errs []error
	for _, a := range g.snapshot() {
		if err := a.Connect(ctx); err != nil {
			g.logger.Error("adapter connect failed",
				zap.String("platform", a.Platform()), zap.Error(err))
			errs = append(errs, fmt.Errorf("connect %s: %w", a.Platform(), err))
		}
	}
	return errors.Join(errs...)
}

// Send delivers msg through the adapter for msg.Platform.
func (g *Gateway) Send(ctx context.Context, msg *OutboundMessage) error {
	g.mu.RLock()
	a, ok := g.adapters[msg.Platform]
	g.mu.RUnlock()
	if !ok {
		return fmt.Errorf("no adapter for platform: %s", msg.Platform)
	}
	return a.Send(ctx, msg)
}

// Close shuts down every adapter and returns the joined close errors.
func (g *Gateway) Close() error {
	var errs []error
	for _, a := range g.snapshot() {
		if err := a.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", a.Platform(), err))
		}
	}
	return errors.Join(errs...)
}

// Adapters returns the registered platform names in sorted order.
func (g *Gateway) Adapters() []string {
	adapters := g.snapshot()
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Platform()
	}
	return names
}

// Statuses reports every adapter that tracks its connection state.
func (g *Gateway) Statuses() []AdapterStatus {
	var out []AdapterStatus
	for _, a := range g.snapshot() {
		if r, ok := a.(StatusReporter); ok {
			out = append(out, r.Status())
		}
	}
	return out
}

// snapshot copies the adapters sorted by platform so callers never hold
// the lock while talking to a platform.
func (g *Gateway) snapshot() []GatewayAdapter {
	g.mu.RLock()
	out := make([]GatewayAdapter, 0, len(g.adapters))
	for _, a := range g.adapters {
		out = append(out, a)
	}
	g.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Platform() < out[j].Platform() })
	return out
}

// leadingMention matches a Slack or Discord user mention at the start of a
// message, e.g. "<@U024BE7LH>" or "<@!80351110224678912>".
var leadingMention = regexp.MustCompile(`^\s*<@!?[A-Za-z0-9]+>\s*`)

// stripMention drops a leading bot mention so "@advisor /recommend ..."
// reaches the router as "/recommend ...".
func stripMention(content string) string {
	return strings.TrimSpace(leadingMention.ReplaceAllString(content, ""))
}
