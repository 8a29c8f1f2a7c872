package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/olekukonko/tablewriter"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
)

func renderAnalysis(w io.Writer, ta *analysis.TaskAnalysis) error {
	headingColor.Fprintln(w, "Task analysis")
	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")
	_ = table.Append([]string{"Task type", string(ta.TaskType)})
	_ = table.Append([]string{"Complexity", string(ta.Complexity)})
	_ = table.Append([]string{"Languages", orNone(ta.Languages)})
	_ = table.Append([]string{"Requirements", orNone(requirementNames(ta.Requirements))})
	_ = table.Append([]string{"Context", string(ta.Context)})
	_ = table.Append([]string{"Collaboration", yesNo(ta.CollaborationNeeded)})
	_ = table.Append([]string{"Deployment", yesNo(ta.DeploymentNeeded)})
	_ = table.Append([]string{"Learning focused", yesNo(ta.LearningFocused)})
	return table.Render()
}

func renderReport(w io.Writer, r *report, verbose bool) error {
	if err := renderAnalysis(w, &r.Analysis); err != nil {
		return err
	}
	fmt.Fprintln(w)
	headingColor.Fprintln(w, "Ranking")

	rows := r.rows()
	table := tablewriter.NewWriter(w)
	if verbose {
		table.Header("#", "Agent", "Score", "Confidence", "Language", "Task", "Complexity", "Features", "Context")
	} else {
		table.Header("#", "Agent", "Score", "Confidence")
	}
	for _, row := range rows {
		cells := []string{
			fmt.Sprintf("%d", row.Rank),
			fmt.Sprintf("%s (%s)", row.AgentName, row.AgentID),
			fmt.Sprintf("%.3f", row.Score),
			fmt.Sprintf("%.1f%%", row.Confidence),
		}
		if verbose {
			b := row.Breakdown
			cells = append(cells,
				fmt.Sprintf("%.3f", b.LanguageSupport),
				fmt.Sprintf("%.3f", b.TaskAlignment),
				fmt.Sprintf("%.3f", b.ComplexityMatch),
				fmt.Sprintf("%.3f", b.FeatureMatch),
				fmt.Sprintf("%.3f", b.ContextFit),
			)
		}
		_ = table.Append(cells)
	}
	if err := table.Render(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, row := range rows {
		labelColor.Fprintf(w, "%d. %s: ", row.Rank, row.AgentName)
		fmt.Fprintln(w, row.Explanation)
	}
	return nil
}

func renderAgents(w io.Writer, agents []catalog.Agent) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Price", "Learning curve", "Languages")
	for _, a := range agents {
		_ = table.Append([]string{
			a.ID,
			a.Name,
			string(a.PriceTier),
			string(a.LearningCurve),
			strings.Join(a.SupportedLanguages, ", "),
		})
	}
	return table.Render()
}

func requirementNames(reqs []analysis.Requirement) []string {
	out := make([]string, len(reqs))
	for i, r := range reqs {
		out[i] = string(r)
	}
	return out
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
