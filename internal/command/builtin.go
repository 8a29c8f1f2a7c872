package command

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/gateway"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"github.com/nidhogg/agent-advisor/internal/scoring"
)

// Advisor is the subset of the recommendation service chat commands use.
type Advisor interface {
	Analyze(description string) analysis.TaskAnalysis
	Recommend(description string, topN int) (*recommend.Result, error)
	Compare(description string, ids []string) (*recommend.Comparison, error)
	Agents() []catalog.Agent
}

// StatusProvider reports chat adapter connection state.
type StatusProvider interface {
	Statuses() []gateway.AdapterStatus
}

// RegisterBuiltins registers /help, /agents, /analyze, /recommend,
// /compare and, when status is non-nil, /status.
func RegisterBuiltins(reg *Registry, advisor Advisor, status StatusProvider) {
	reg.Register(helpCommand(reg))
	reg.Register(agentsCommand(advisor))
	reg.Register(analyzeCommand(advisor))
	reg.Register(recommendCommand(advisor))
	reg.Register(compareCommand(advisor))
	if status != nil {
		reg.Register(statusCommand(status))
	}
}

func helpCommand(reg *Registry) *Command {
	return &Command{
		Name:        "help",
		Description: "List all available commands",
		Usage:       "/help",
		Handler: func(_ context.Context, _ string, _ *CommandContext) (*CommandResult, error) {
			var b strings.Builder
			b.WriteString("Available commands:\n")
			for _, c := range reg.List() {
				fmt.Fprintf(&b, "  /%s - %s", c.Name, c.Description)
				if len(c.Aliases) > 0 {
					fmt.Fprintf(&b, " (also /%s)", strings.Join(c.Aliases, ", /"))
				}
				b.WriteByte('\n')
				if c.Usage != "" {
					fmt.Fprintf(&b, "    Usage: %s\n", c.Usage)
				}
			}
			return &CommandResult{Content: b.String()}, nil
		},
	}
}

func agentsCommand(advisor Advisor) *Command {
	return &Command{
		Name:        "agents",
		Aliases:     []string{"list"},
		Description: "List the coding agents in the catalog",
		Usage:       "/agents",
		Handler: func(_ context.Context, _ string, _ *CommandContext) (*CommandResult, error) {
			agents := advisor.Agents()
			if len(agents) == 0 {
				return &CommandResult{Content: "The catalog is empty."}, nil
			}
			var b strings.Builder
			fmt.Fprintf(&b, "%d agents:\n", len(agents))
			for _, a := range agents {
				fmt.Fprintf(&b, "  [%s] %s - %s, %s learning curve\n",
					a.ID, a.Name, a.PriceTier, a.LearningCurve)
			}
			return &CommandResult{Content: b.String(), Data: agents}, nil
		},
	}
}

func analyzeCommand(advisor Advisor) *Command {
	const usage = "/analyze <task description>"
	return &Command{
		Name:        "analyze",
		Description: "Show how a task description is classified",
		Usage:       usage,
		Handler: func(_ context.Context, args string, _ *CommandContext) (*CommandResult, error) {
			if args == "" {
				return usageResult(usage), nil
			}
			ta := advisor.Analyze(args)
			return &CommandResult{Content: formatAnalysis(&ta), Data: ta}, nil
		},
	}
}

func recommendCommand(advisor Advisor) *Command {
	const usage = "/recommend [count] <task description>"
	return &Command{
		Name:        "recommend",
		Aliases:     []string{"rec", "suggest"},
		Description: "Rank the best agents for a task",
		Usage:       usage,
		Handler: func(_ context.Context, args string, _ *CommandContext) (*CommandResult, error) {
			topN, task := splitCount(args)
			res, err := advisor.Recommend(task, topN)
			if errors.Is(err, recommend.ErrInvalidInput) {
				return usageResult(usage), nil
			}
			if err != nil {
				return nil, err
			}

			var b strings.Builder
			b.WriteString(formatAnalysis(&res.Analysis))
			b.WriteString("\n")
			for _, r := range res.Recommendations {
				writeScored(&b, r)
			}
			return &CommandResult{Content: b.String(), Data: res}, nil
		},
	}
}

func compareCommand(advisor Advisor) *Command {
	const usage = "/compare <id,id,...> <task description>"
	return &Command{
		Name:        "compare",
		Description: "Score chosen agents side by side",
		Usage:       usage,
		Handler: func(_ context.Context, args string, _ *CommandContext) (*CommandResult, error) {
			list, task := cutSpace(args)
			ids := splitIDs(list)
			if len(ids) == 0 || strings.HasSuffix(list, ",") {
				return usageResult(usage), nil
			}

			res, err := advisor.Compare(strings.TrimSpace(task), ids)
			switch {
			case errors.Is(err, recommend.ErrInvalidInput):
				return usageResult(usage), nil
			case errors.Is(err, recommend.ErrUnknownAgent):
				return &CommandResult{Content: fmt.Sprintf("Cannot compare: %v. Type /agents for valid ids.", err)}, nil
			case err != nil:
				return nil, err
			}

			var b strings.Builder
			b.WriteString(formatAnalysis(&res.Analysis))
			b.WriteString("\n")
			for i, r := range res.Comparisons {
				r.Rank = i + 1
				writeScored(&b, r)
			}
			return &CommandResult{Content: b.String(), Data: res}, nil
		},
	}
}

func statusCommand(provider StatusProvider) *Command {
	return &Command{
		Name:        "status",
		Description: "Show chat adapter connection status",
		Usage:       "/status",
		Handler: func(_ context.Context, _ string, _ *CommandContext) (*CommandResult, error) {
			adapters := provider.Statuses()
			if len(adapters) == 0 {
				return &CommandResult{Content: "No adapters configured."}, nil
			}
			var b strings.Builder
			b.WriteString("Adapter status:\n")
			for _, a := range adapters {
				state := "disconnected"
				if a.Connected {
					state = "connected"
				}
				fmt.Fprintf(&b, "  %s: %s", a.Platform, state)
				if a.Error != "" {
					fmt.Fprintf(&b, " (%s)", a.Error)
				}
				b.WriteByte('\n')
			}
			return &CommandResult{Content: b.String()}, nil
		},
	}
}

func usageResult(usage string) *CommandResult {
	return &CommandResult{Content: "Usage: " + usage}
}

// splitCount peels an optional leading positive count off args.
func splitCount(args string) (int, string) {
	first, rest, _ := strings.Cut(args, " ")
	n, err := strconv.Atoi(first)
	if err != nil || n < 1 {
		return recommend.DefaultTopN, args
	}
	return n, strings.TrimSpace(rest)
}

func splitIDs(list string) []string {
	var ids []string
	for _, id := range strings.Split(list, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func formatAnalysis(ta *analysis.TaskAnalysis) string {
	langs := "any"
	if len(ta.Languages) > 0 {
		langs = strings.Join(ta.Languages, ", ")
	}
	reqs := "none"
	if len(ta.Requirements) > 0 {
		parts := make([]string, len(ta.Requirements))
		for i, r := range ta.Requirements {
			parts[i] = string(r)
		}
		reqs = strings.Join(parts, ", ")
	}
	return fmt.Sprintf("Task: %s, %s, %s context\nLanguages: %s\nRequirements: %s\n",
		ta.TaskType, ta.Complexity, ta.Context, langs, reqs)
}

func writeScored(b *strings.Builder, r recommend.ScoredAgent) {
	fmt.Fprintf(b, "%d. %s (%s) score %.3f, confidence %.1f%%\n",
		r.Rank, r.Agent.Name, r.Agent.ID, scoring.Round(r.Score, 3), r.Confidence)
	fmt.Fprintf(b, "   %s\n", r.Explanation)
}
