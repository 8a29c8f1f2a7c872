// Package scoring rates a catalog agent against a TaskAnalysis with a fixed
// five-component rubric.
package scoring

import (
	"math"
	"strings"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
)

// Component names as they appear in breakdowns.
const (
	LanguageSupport = "language_support"
	TaskAlignment   = "task_alignment"
	ComplexityMatch = "complexity_match"
	FeatureMatch    = "feature_match"
	ContextFit      = "context_fit"
)

// DefaultCloudAgentID is the agent treated as the reference for cloud work.
const DefaultCloudAgentID = "aws_codewhisperer"

// noLanguageBonus is awarded unscaled when no language was detected.
const noLanguageBonus = 0.15

// Weights holds the per-component weights. They sum to 1.0.
type Weights struct {
	LanguageSupport float64 `json:"language_support"`
	TaskAlignment   float64 `json:"task_alignment"`
	ComplexityMatch float64 `json:"complexity_match"`
	FeatureMatch    float64 `json:"feature_match"`
	ContextFit      float64 `json:"context_fit"`
}

// DefaultWeights returns the fixed rubric weights.
func DefaultWeights() Weights {
	return Weights{
		LanguageSupport: 0.25,
		TaskAlignment:   0.25,
		ComplexityMatch: 0.20,
		FeatureMatch:    0.20,
		ContextFit:      0.10,
	}
}

// Breakdown holds each component's weighted contribution.
type Breakdown struct {
	LanguageSupport float64 `json:"language_support"`
	TaskAlignment   float64 `json:"task_alignment"`
	ComplexityMatch float64 `json:"complexity_match"`
	FeatureMatch    float64 `json:"feature_match"`
	ContextFit      float64 `json:"context_fit"`
}

// Total sums the components.
func (b Breakdown) Total() float64 {
	return b.LanguageSupport + b.TaskAlignment + b.ComplexityMatch + b.FeatureMatch + b.ContextFit
}

// Map returns the breakdown keyed by component name.
func (b Breakdown) Map() map[string]float64 {
	return map[string]float64{
		LanguageSupport: b.LanguageSupport,
		TaskAlignment:   b.TaskAlignment,
		ComplexityMatch: b.ComplexityMatch,
		FeatureMatch:    b.FeatureMatch,
		ContextFit:      b.ContextFit,
	}
}

// Rounded returns a copy with every component rounded to the given decimals.
func (b Breakdown) Rounded(decimals int) Breakdown {
	return Breakdown{
		LanguageSupport: Round(b.LanguageSupport, decimals),
		TaskAlignment:   Round(b.TaskAlignment, decimals),
		ComplexityMatch: Round(b.ComplexityMatch, decimals),
		FeatureMatch:    Round(b.FeatureMatch, decimals),
		ContextFit:      Round(b.ContextFit, decimals),
	}
}

// Engine computes scores. It holds no per-call state and is safe for
// concurrent use.
type Engine struct {
	weights      Weights
	cloudAgentID string
}

// Option customises an Engine.
type Option func(*Engine)

// WithCloudAgentID overrides the reference cloud agent. An empty id keeps
// the default.
func WithCloudAgentID(id string) Option {
	return func(e *Engine) {
		if id != "" {
			e.cloudAgentID = id
		}
	}
}

// NewEngine creates a scoring engine with the default weights.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		weights:      DefaultWeights(),
		cloudAgentID: DefaultCloudAgentID,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Score rates agent against ta and returns the total with its breakdown.
func (e *Engine) Score(agent *catalog.Agent, ta *analysis.TaskAnalysis) (float64, Breakdown) {
	b := Breakdown{
		LanguageSupport: languageSupport(agent, ta, e.weights.LanguageSupport),
		TaskAlignment:   taskAlignment(agent, ta, e.cloudAgentID, e.weights.TaskAlignment),
		ComplexityMatch: complexityMatch(agent, ta, e.weights.ComplexityMatch),
		FeatureMatch:    featureMatch(agent, ta, e.weights.FeatureMatch),
		ContextFit:      contextFit(agent, ta, e.weights.ContextFit),
	}
	return b.Total(), b
}

// Confidence converts a total score to a display percentage capped at 95.
func Confidence(total float64) float64 {
	return Round(math.Min(total*100, 95), 1)
}

// Round rounds v half away from zero to the given number of decimals.
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func languageSupport(agent *catalog.Agent, ta *analysis.TaskAnalysis, weight float64) float64 {
	if len(ta.Languages) == 0 {
		return noLanguageBonus
	}
	supported := lowerSet(agent.SupportedLanguages)
	required := lowerSet(ta.Languages)
	overlap := 0
	for lang := range required {
		if supported[lang] {
			overlap++
		}
	}
	return math.Min(float64(overlap)/float64(len(required)), 1.0) * weight
}

func taskAlignment(agent *catalog.Agent, ta *analysis.TaskAnalysis, cloudAgentID string, weight float64) float64 {
	raw := 0.0
	switch ta.TaskType {
	case analysis.TaskWebDevelopment:
		if agent.Supports("React") || agent.Supports("HTML") {
			raw = 0.8
		}
	case analysis.TaskCloudDevelopment:
		if agent.ID == cloudAgentID {
			raw = 1.0
		} else if agent.Deployment {
			raw = 0.6
		}
	case analysis.TaskLearning:
		if lowerSet(agent.UseCases)["educational"] || agent.LearningCurve == catalog.LearningLow {
			raw = 0.8
		}
	case analysis.TaskDataScience:
		if agent.Supports("Python") {
			raw = 0.7
		}
	default:
		raw = 0.5
	}
	return raw * weight
}

func complexityMatch(agent *catalog.Agent, ta *analysis.TaskAnalysis, weight float64) float64 {
	raw := 0.5
	switch ta.Complexity {
	case analysis.ComplexityBeginner:
		if agent.LearningCurve == catalog.LearningLow || agent.IsIdealFor("beginners") {
			raw = 1.0
		}
	case analysis.ComplexityAdvanced:
		if agent.IsIdealFor("enterprise") || agent.IsIdealFor("experienced_developers") {
			raw = 1.0
		}
	}
	return raw * weight
}

func featureMatch(agent *catalog.Agent, ta *analysis.TaskAnalysis, weight float64) float64 {
	headline := strings.ToLower(agent.Headline())
	met := 0.0
	for _, req := range ta.Requirements {
		if satisfies(agent, req, headline) {
			met += 1.0
		}
	}
	total := len(ta.Requirements)
	if total == 0 {
		total = 1
	}
	return math.Min(met/float64(total), 1.0) * weight
}

func satisfies(agent *catalog.Agent, req analysis.Requirement, headline string) bool {
	switch req {
	case analysis.ReqCollaboration:
		return agent.Collaboration
	case analysis.ReqDeployment:
		return agent.Deployment
	case analysis.ReqBudgetConscious:
		return agent.PriceTier == catalog.PriceFree
	case analysis.ReqSecurity:
		return strings.Contains(headline, "security")
	case analysis.ReqRapidDevelopment:
		return agent.IsIdealFor("prototyping") || strings.Contains(headline, "zero setup")
	}
	return false
}

func contextFit(agent *catalog.Agent, ta *analysis.TaskAnalysis, weight float64) float64 {
	raw := 0.5
	switch {
	case ta.LearningFocused && agent.IsIdealFor("students"):
		raw = 1.0
	case ta.Context == analysis.ContextEnterprise && agent.IsIdealFor("enterprise"):
		raw = 1.0
	case ta.Context == analysis.ContextPersonal &&
		(agent.PriceTier == catalog.PriceFree || agent.PriceTier == catalog.PriceFreemium):
		raw = 0.8
	}
	return raw * weight
}

func lowerSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		set[strings.ToLower(s)] = true
	}
	return set
}
