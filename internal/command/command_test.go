package command

import (
	"context"
	"strings"
	"testing"

	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/gateway"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"go.uber.org/zap"
)

func TestRegistryDispatch(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Command{
		Name:        "ping",
		Description: "Ping test",
		Usage:       "/ping",
		Handler: func(ctx context.Context, args string, cc *CommandContext) (*CommandResult, error) {
			return &CommandResult{Content: "pong: " + args}, nil
		},
	})

	ctx := context.Background()
	cc := &CommandContext{Platform: "test"}

	// Test known command
	result, err := reg.Dispatch(ctx, "/ping hello", cc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Content != "pong: hello" {
		t.Errorf("got %q, want %q", result.Content, "pong: hello")
	}

	// Test unknown command
	result, err = reg.Dispatch(ctx, "/unknown", cc)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(result.Content, "/unknown") {
		t.Errorf("expected unknown command message, got %q", result.Content)
	}
}

func TestRegistryList(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Command{Name: "beta"})
	reg.Register(&Command{Name: "alpha"})

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("got %d commands, want 2", len(list))
	}
	if list[0].Name != "alpha" {
		t.Errorf("got %q first, want %q", list[0].Name, "alpha")
	}
}

func TestRegistryAliases(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&Command{
		Name:    "recommend",
		Aliases: []string{"rec"},
		Handler: func(context.Context, string, *CommandContext) (*CommandResult, error) {
			return &CommandResult{Content: "ok"}, nil
		},
	})

	res, err := reg.Dispatch(context.Background(), "/REC web app", &CommandContext{})
	if err != nil || res.Content != "ok" {
		t.Fatalf("alias dispatch = %+v, %v", res, err)
	}
	if n := len(reg.List()); n != 1 {
		t.Fatalf("aliases should not be listed, got %d commands", n)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in, name, args string
	}{
		{"/help", "help", ""},
		{"/Recommend 2 build a site", "recommend", "2 build a site"},
		{"  /analyze\tpython script  ", "analyze", "python script"},
		{"/compare\ncursor,tabnine web", "compare", "cursor,tabnine web"},
	}
	for _, tt := range tests {
		name, args := Parse(tt.in)
		if name != tt.name || args != tt.args {
			t.Errorf("Parse(%q) = (%q, %q), want (%q, %q)", tt.in, name, args, tt.name, tt.args)
		}
	}
}

type fakeStatus []gateway.AdapterStatus

func (f fakeStatus) Statuses() []gateway.AdapterStatus { return f }

func newBuiltins(t *testing.T) *Registry {
	t.Helper()
	cat, err := catalog.Open("")
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	reg := NewRegistry()
	RegisterBuiltins(reg, recommend.NewService(cat, nil, zap.NewNop()),
		fakeStatus{{Platform: "slack", Connected: true}})
	return reg
}

func dispatch(t *testing.T, reg *Registry, input string) string {
	t.Helper()
	res, err := reg.Dispatch(context.Background(), input, &CommandContext{Platform: "test"})
	if err != nil {
		t.Fatalf("dispatch %q: %v", input, err)
	}
	return res.Content
}

func TestHelpListsBuiltins(t *testing.T) {
	out := dispatch(t, newBuiltins(t), "/help")
	for _, name := range []string{"/agents", "/analyze", "/compare", "/help", "/recommend", "/status"} {
		if !strings.Contains(out, name) {
			t.Errorf("help output missing %s:\n%s", name, out)
		}
	}
}

func TestAgentsCommand(t *testing.T) {
	out := dispatch(t, newBuiltins(t), "/agents")
	if !strings.HasPrefix(out, "8 agents:") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if !strings.Contains(out, "[github_copilot]") {
		t.Errorf("missing github_copilot:\n%s", out)
	}
}

func TestAnalyzeCommand(t *testing.T) {
	reg := newBuiltins(t)
	out := dispatch(t, reg, "/analyze build a react website")
	if !strings.Contains(out, "web_development") || !strings.Contains(out, "JavaScript") {
		t.Fatalf("unexpected analysis:\n%s", out)
	}
	if out := dispatch(t, reg, "/analyze"); !strings.HasPrefix(out, "Usage:") {
		t.Fatalf("expected usage, got %q", out)
	}
}

func TestRecommendCommand(t *testing.T) {
	reg := newBuiltins(t)

	out := dispatch(t, reg, "/recommend 2 build a react website")
	if !strings.Contains(out, "1. ") || !strings.Contains(out, "2. ") || strings.Contains(out, "3. ") {
		t.Fatalf("expected exactly two ranked lines:\n%s", out)
	}

	out = dispatch(t, reg, "/recommend build a react website")
	if !strings.Contains(out, "3. ") {
		t.Fatalf("expected default of three recommendations:\n%s", out)
	}

	if out := dispatch(t, reg, "/recommend 4"); !strings.HasPrefix(out, "Usage:") {
		t.Fatalf("expected usage for missing task, got %q", out)
	}
}

func TestCompareCommand(t *testing.T) {
	reg := newBuiltins(t)

	out := dispatch(t, reg, "/compare cursor,tabnine build a react website")
	if !strings.Contains(out, "(cursor)") || !strings.Contains(out, "(tabnine)") {
		t.Fatalf("expected both agents:\n%s", out)
	}

	out = dispatch(t, reg, "/compare cursor,nope build a website")
	if !strings.Contains(out, "nope") || !strings.Contains(out, "/agents") {
		t.Fatalf("expected unknown id message, got %q", out)
	}

	if out := dispatch(t, reg, "/compare"); !strings.HasPrefix(out, "Usage:") {
		t.Fatalf("expected usage, got %q", out)
	}

	out = dispatch(t, reg, "/compare cursor,tabnine\tbuild a react website")
	if !strings.Contains(out, "(cursor)") || !strings.Contains(out, "(tabnine)") {
		t.Fatalf("expected tab to separate ids from task:\n%s", out)
	}

	if out := dispatch(t, reg, "/compare cursor, tabnine build a site"); !strings.HasPrefix(out, "Usage:") {
		t.Fatalf("expected usage for trailing comma, got %q", out)
	}
}

func TestCutSpace(t *testing.T) {
	tests := []struct {
		in, list, task string
	}{
		{"a,b build it", "a,b", "build it"},
		{"a,b\n build it ", "a,b", "build it"},
		{"  a,b", "a,b", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		list, task := cutSpace(tt.in)
		if list != tt.list || task != tt.task {
			t.Errorf("cutSpace(%q) = %q, %q; want %q, %q", tt.in, list, task, tt.list, tt.task)
		}
	}
}

func TestStatusCommand(t *testing.T) {
	out := dispatch(t, newBuiltins(t), "/status")
	if !strings.Contains(out, "slack: connected") {
		t.Fatalf("unexpected status:\n%s", out)
	}
}

func TestSplitCount(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		task string
	}{
		{"5 write a game", 5, "write a game"},
		{"write a game", recommend.DefaultTopN, "write a game"},
		{"0 write a game", recommend.DefaultTopN, "0 write a game"},
		{"-2 write", recommend.DefaultTopN, "-2 write"},
	}
	for _, tt := range tests {
		n, task := splitCount(tt.in)
		if n != tt.n || task != tt.task {
			t.Errorf("splitCount(%q) = (%d, %q), want (%d, %q)", tt.in, n, task, tt.n, tt.task)
		}
	}
}
