// Package command implements the chat slash commands.
package command

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Command is one slash command. Aliases resolve to the same handler and are
// not listed separately.
type Command struct {
	Name        string
	Aliases     []string
	Description string
	Usage       string
	Handler     CommandHandler
}

// CommandHandler runs a command with everything after its name.
type CommandHandler func(ctx context.Context, args string, cc *CommandContext) (*CommandResult, error)

// CommandContext describes who issued a command and where.
type CommandContext struct {
	Platform  string
	ChannelID string
	UserID    string
	UserName  string
	RequestID string
}

// CommandResult is the reply text plus the structured value it was built from.
type CommandResult struct {
	Content string      `json:"content"`
	Data    interface{} `json:"data,omitempty"`
}

// Registry maps command names and aliases to commands.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]*Command
	byName   map[string]*Command
}

// NewRegistry creates an empty command registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]*Command),
		byName:   make(map[string]*Command),
	}
}

// Register adds cmd under its lower-cased name and aliases. A later
// registration wins over an earlier one with the same key.
func (r *Registry) Register(cmd *Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	name := strings.ToLower(cmd.Name)
	r.byName[name] = cmd
	r.commands[name] = cmd
	for _, alias := range cmd.Aliases {
		r.commands[strings.ToLower(alias)] = cmd
	}
}

// Lookup resolves a name or alias.
func (r *Registry) Lookup(name string) (*Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[strings.ToLower(name)]
	return cmd, ok
}

// Dispatch runs the command named by input ("/name args...").
// An unknown name is answered with a hint rather than an error.
func (r *Registry) Dispatch(ctx context.Context, input string, cc *CommandContext) (*CommandResult, error) {
	name, args := Parse(input)
	cmd, ok := r.Lookup(name)
	if !ok || cmd.Handler == nil {
		return &CommandResult{
			Content: fmt.Sprintf("Unknown command: /%s. Type /help for available commands.", name),
		}, nil
	}
	return cmd.Handler(ctx, args, cc)
}

// Parse splits "/name args..." into a lower-cased command name and the
// trimmed remainder. Any whitespace separates the name from its arguments.
func Parse(input string) (name, args string) {
	name, args = cutSpace(strings.TrimPrefix(strings.TrimSpace(input), "/"))
	return strings.ToLower(name), args
}

// cutSpace splits s at its first whitespace of any kind and trims both parts.
func cutSpace(s string) (head, rest string) {
	s = strings.TrimSpace(s)
	idx := strings.IndexFunc(s, unicode.IsSpace)
	if idx < 0 {
		return s, ""
	}
	return s[:idx], strings.TrimSpace(s[idx:])
}

// List returns each command once, sorted by name.
func (r *Registry) List() []*Command {
	r.mu.RLock()
	out := make([]*Command, 0, len(r.byName))
	for _, cmd := range r.byName {
		out = append(out, cmd)
	}
	r.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
