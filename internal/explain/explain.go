// Package explain renders the human-readable rationale behind a score.
package explain

import (
	"strings"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/scoring"
)

// Generator builds explanations. The zero value is ready to use.
type Generator struct{}

// NewGenerator creates an explanation generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// Explain returns the ordered reasons joined into one sentence. The
// breakdown is accepted so callers pass the exact scores being explained.
func (g *Generator) Explain(agent *catalog.Agent, ta *analysis.TaskAnalysis, _ scoring.Breakdown) string {
	return strings.Join(Reasons(agent, ta), ". ") + "."
}

// Reasons returns the individual clauses in display order.
func Reasons(agent *catalog.Agent, ta *analysis.TaskAnalysis) []string {
	var reasons []string

	if len(ta.Languages) > 0 {
		var supported []string
		for _, lang := range ta.Languages {
			if agent.Supports(lang) {
				supported = append(supported, lang)
			}
		}
		if len(supported) > 0 {
			reasons = append(reasons, "Excellent support for "+strings.Join(supported, ", "))
		}
	}

	top := agent.Strengths
	if len(top) > 2 {
		top = top[:2]
	}
	reasons = append(reasons, "Key strengths: "+strings.Join(top, ", "))

	if ta.Has(analysis.ReqCollaboration) && agent.Collaboration {
		reasons = append(reasons, "Supports real-time collaboration")
	}
	if ta.Has(analysis.ReqDeployment) && agent.Deployment {
		reasons = append(reasons, "Includes deployment capabilities")
	}
	if agent.PriceTier == catalog.PriceFree {
		reasons = append(reasons, "Completely free to use")
	}
	if ta.LearningFocused && agent.IsIdealFor("students") {
		reasons = append(reasons, "Great for learning and educational use")
	}
	if ta.Complexity == analysis.ComplexityAdvanced && agent.IsIdealFor("enterprise") {
		reasons = append(reasons, "Suitable for complex enterprise projects")
	}
	return reasons
}
