package api

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"github.com/nidhogg/agent-advisor/internal/scoring"
)

type describer interface {
	description() *string
}

type taskRequest struct {
	TaskDescription *string `json:"task_description"`
}

func (r *taskRequest) description() *string { return r.TaskDescription }

type recommendRequest struct {
	TaskDescription *string         `json:"task_description"`
	TopN            json.RawMessage `json:"top_n"`
}

func (r *recommendRequest) description() *string { return r.TaskDescription }

type compareRequest struct {
	TaskDescription *string   `json:"task_description"`
	AgentIDs        *[]string `json:"agent_ids"`
}

// parseTopN accepts a JSON integer >= 1, or true as 1; anything else means
// the default.
func parseTopN(raw json.RawMessage) int {
	switch string(raw) {
	case "", "false":
		return recommend.DefaultTopN
	case "true":
		return 1
	}
	n, err := strconv.Atoi(string(raw))
	if err != nil || n < 1 {
		return recommend.DefaultTopN
	}
	return n
}

// briefAnalysis is the analysis summary embedded in recommend/compare responses.
type briefAnalysis struct {
	TaskType     analysis.TaskType      `json:"task_type"`
	Complexity   analysis.Complexity    `json:"complexity"`
	Languages    []string               `json:"languages"`
	Requirements []analysis.Requirement `json:"requirements"`
	Context      analysis.Context       `json:"context"`
}

func newBriefAnalysis(ta analysis.TaskAnalysis) briefAnalysis {
	return briefAnalysis{
		TaskType:     ta.TaskType,
		Complexity:   ta.Complexity,
		Languages:    ta.Languages,
		Requirements: ta.Requirements,
		Context:      ta.Context,
	}
}

type recommendationItem struct {
	Rank               int                   `json:"rank"`
	AgentID            string                `json:"agent_id"`
	AgentName          string                `json:"agent_name"`
	Description        string                `json:"description"`
	Score              float64               `json:"score"`
	Confidence         float64               `json:"confidence"`
	Explanation        string                `json:"explanation"`
	Strengths          []string              `json:"strengths"`
	Capabilities       []string              `json:"capabilities"`
	SupportedLanguages []string              `json:"supported_languages"`
	PriceTier          catalog.PriceTier     `json:"price_tier"`
	LearningCurve      catalog.LearningCurve `json:"learning_curve"`
	ScoreBreakdown     scoring.Breakdown     `json:"score_breakdown"`
}

type recommendResponse struct {
	Success         bool                 `json:"success"`
	TaskDescription string               `json:"task_description"`
	TaskAnalysis    briefAnalysis        `json:"task_analysis"`
	Recommendations []recommendationItem `json:"recommendations"`
}

func newRecommendResponse(desc string, res *recommend.Result) recommendResponse {
	items := make([]recommendationItem, len(res.Recommendations))
	for i, s := range res.Recommendations {
		items[i] = recommendationItem{
			Rank:               s.Rank,
			AgentID:            s.Agent.ID,
			AgentName:          s.Agent.Name,
			Description:        s.Agent.Description,
			Score:              scoring.Round(s.Score, 3),
			Confidence:         s.Confidence,
			Explanation:        s.Explanation,
			Strengths:          s.Agent.Strengths,
			Capabilities:       s.Agent.Capabilities,
			SupportedLanguages: s.Agent.SupportedLanguages,
			PriceTier:          s.Agent.PriceTier,
			LearningCurve:      s.Agent.LearningCurve,
			ScoreBreakdown:     s.Breakdown.Rounded(3),
		}
	}
	return recommendResponse{
		Success:         true,
		TaskDescription: desc,
		TaskAnalysis:    newBriefAnalysis(res.Analysis),
		Recommendations: items,
	}
}

type comparisonItem struct {
	AgentID        string            `json:"agent_id"`
	AgentName      string            `json:"agent_name"`
	Description    string            `json:"description"`
	Score          float64           `json:"score"`
	Confidence     float64           `json:"confidence"`
	Explanation    string            `json:"explanation"`
	ScoreBreakdown scoring.Breakdown `json:"score_breakdown"`
	Strengths      []string          `json:"strengths"`
	Capabilities   []string          `json:"capabilities"`
}

type compareResponse struct {
	Success         bool             `json:"success"`
	TaskDescription string           `json:"task_description"`
	TaskAnalysis    briefAnalysis    `json:"task_analysis"`
	Comparisons     []comparisonItem `json:"comparisons"`
}

func newCompareResponse(desc string, cmp *recommend.Comparison) compareResponse {
	items := make([]comparisonItem, len(cmp.Comparisons))
	for i, s := range cmp.Comparisons {
		items[i] = comparisonItem{
			AgentID:        s.Agent.ID,
			AgentName:      s.Agent.Name,
			Description:    s.Agent.Description,
			Score:          scoring.Round(s.Score, 3),
			Confidence:     s.Confidence,
			Explanation:    s.Explanation,
			ScoreBreakdown: s.Breakdown.Rounded(3),
			Strengths:      s.Agent.Strengths,
			Capabilities:   s.Agent.Capabilities,
		}
	}
	return compareResponse{
		Success:         true,
		TaskDescription: desc,
		TaskAnalysis:    newBriefAnalysis(cmp.Analysis),
		Comparisons:     items,
	}
}

// cacheKey derives a stable key from an operation and its inputs. The
// inputs are JSON encoded so list boundaries survive, and
// ["a","b"] and ["a b"] hash differently.
func cacheKey(op string, parts ...interface{}) string {
	enc, _ := json.Marshal(parts)
	sum := sha256.Sum256(enc)
	return op + ":" + hex.EncodeToString(sum[:])[:32]
}
