// Package recommend ranks catalog agents for a task description.
package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/explain"
	"github.com/nidhogg/agent-advisor/internal/scoring"
	"go.uber.org/zap"
)

// DefaultTopN is used when the caller asks for a non-positive count.
const DefaultTopN = 3

var (
	// ErrInvalidInput is returned for an empty or whitespace-only description.
	ErrInvalidInput = errors.New("task description is required")
	// ErrUnknownAgent is returned when a requested agent id is not in the catalog.
	ErrUnknownAgent = errors.New("unknown agent id")
)

// ScoredAgent is one agent rated against one analysis.
type ScoredAgent struct {
	Rank        int               `json:"rank,omitempty"`
	Agent       catalog.Agent     `json:"agent"`
	Score       float64           `json:"score"`
	Breakdown   scoring.Breakdown `json:"score_breakdown"`
	Explanation string            `json:"explanation"`
	Confidence  float64           `json:"confidence"`
}

// Result is the ranked output of Recommend.
type Result struct {
	Analysis        analysis.TaskAnalysis `json:"task_analysis"`
	Recommendations []ScoredAgent         `json:"recommendations"`
}

// Comparison is the output of Compare: every requested agent, best first.
type Comparison struct {
	Analysis    analysis.TaskAnalysis `json:"task_analysis"`
	Comparisons []ScoredAgent         `json:"comparisons"`
}

// Service wires the analyzer, scorer and explainer over a fixed catalog.
// It keeps no per-call state, so one instance serves concurrent requests.
type Service struct {
	catalog   *catalog.Catalog
	analyzer  *analysis.Analyzer
	scorer    *scoring.Engine
	explainer *explain.Generator
	logger    *zap.Logger
}

// NewService creates a recommendation service.
func NewService(cat *catalog.Catalog, scorer *scoring.Engine, logger *zap.Logger) *Service {
	if scorer == nil {
		scorer = scoring.NewEngine()
	}
	return &Service{
		catalog:   cat,
		analyzer:  analysis.NewAnalyzer(),
		scorer:    scorer,
		explainer: explain.NewGenerator(),
		logger:    logger,
	}
}

// Analyze classifies a description without scoring anything.
func (s *Service) Analyze(description string) analysis.TaskAnalysis {
	return s.analyzer.Analyze(description)
}

// ScoreOne rates a single agent.
func (s *Service) ScoreOne(agent *catalog.Agent, ta *analysis.TaskAnalysis) (float64, scoring.Breakdown) {
	return s.scorer.Score(agent, ta)
}

// Explain renders the rationale for a breakdown.
func (s *Service) Explain(agent *catalog.Agent, ta *analysis.TaskAnalysis, b scoring.Breakdown) string {
	return s.explainer.Explain(agent, ta, b)
}

// Agents returns the catalog in load order.
func (s *Service) Agents() []catalog.Agent {
	return s.catalog.All()
}

// Agent looks up one catalog entry.
func (s *Service) Agent(id string) (*catalog.Agent, bool) {
	return s.catalog.Get(id)
}

// Recommend scores every catalog agent and returns the best topN.
// A non-positive topN means DefaultTopN.
func (s *Service) Recommend(description string, topN int) (*Result, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidInput
	}
	if topN < 1 {
		topN = DefaultTopN
	}

	ta := s.analyzer.Analyze(description)
	ranked := s.rank(s.catalog.All(), &ta)
	sortByScore(ranked, rawScore)
	if len(ranked) > topN {
		ranked = ranked[:topN]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	s.logger.Debug("recommendation complete",
		zap.String("task_type", string(ta.TaskType)),
		zap.Int("scored", s.catalog.Len()),
		zap.Int("returned", len(ranked)))

	return &Result{Analysis: ta, Recommendations: ranked}, nil
}

// Compare scores exactly the requested agents. Every id must exist; the
// error names all that do not. Repeated ids are scored once. Agents are
// ordered by their score rounded to three decimals and keep catalog order
// among equal rounded scores.
func (s *Service) Compare(description string, ids []string) (*Comparison, error) {
	if strings.TrimSpace(description) == "" {
		return nil, ErrInvalidInput
	}

	wanted := make(map[string]bool, len(ids))
	var missing []string
	for _, id := range ids {
		if _, ok := s.catalog.Get(id); !ok {
			missing = append(missing, id)
			continue
		}
		wanted[id] = true
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("compare %s: %w", strings.Join(missing, ", "), ErrUnknownAgent)
	}

	var selected []catalog.Agent
	for _, a := range s.catalog.All() {
		if wanted[a.ID] {
			selected = append(selected, a)
		}
	}

	ta := s.analyzer.Analyze(description)
	scored := s.rank(selected, &ta)
	sortByScore(scored, displayedScore)
	return &Comparison{Analysis: ta, Comparisons: scored}, nil
}

// rank scores and explains agents in the order given.
func (s *Service) rank(agents []catalog.Agent, ta *analysis.TaskAnalysis) []ScoredAgent {
	out := make([]ScoredAgent, 0, len(agents))
	for i := range agents {
		a := &agents[i]
		total, b := s.scorer.Score(a, ta)
		out = append(out, ScoredAgent{
			Agent:       *a,
			Score:       total,
			Breakdown:   b,
			Explanation: s.explainer.Explain(a, ta, b),
			Confidence:  scoring.Confidence(total),
		})
	}
	return out
}

// sortByScore orders agents best first by key(score). The sort is stable
// so earlier agents win ties.
func sortByScore(agents []ScoredAgent, key func(float64) float64) {
	sort.SliceStable(agents, func(i, j int) bool {
		return key(agents[i].Score) > key(agents[j].Score)
	})
}

func rawScore(v float64) float64 { return v }

func displayedScore(v float64) float64 { return scoring.Round(v, 3) }
