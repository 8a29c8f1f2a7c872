package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nidhogg/agent-advisor/internal/analysis"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/nidhogg/agent-advisor/internal/recommend"
	"github.com/nidhogg/agent-advisor/internal/scoring"
)

// backend answers CLI queries either in-process or against a running server.
type backend interface {
	Analyze(ctx context.Context, task string) (*analysis.TaskAnalysis, error)
	Recommend(ctx context.Context, task string, topN int) (*report, error)
	Compare(ctx context.Context, task string, ids []string) (*report, error)
	Agents(ctx context.Context) ([]catalog.Agent, error)
}

// report is the shape the renderer prints for both recommend and compare.
type report struct {
	Analysis analysis.TaskAnalysis `json:"task_analysis"`
	Rows     []reportRow           `json:"recommendations"`
	Compared []reportRow           `json:"comparisons"`
}

type reportRow struct {
	Rank        int               `json:"rank"`
	AgentID     string            `json:"agent_id"`
	AgentName   string            `json:"agent_name"`
	Score       float64           `json:"score"`
	Confidence  float64           `json:"confidence"`
	Explanation string            `json:"explanation"`
	Breakdown   scoring.Breakdown `json:"score_breakdown"`
}

// rows returns whichever list the response carried, ranked 1..n.
func (r *report) rows() []reportRow {
	out := r.Rows
	if len(out) == 0 {
		out = r.Compared
	}
	for i := range out {
		if out[i].Rank == 0 {
			out[i].Rank = i + 1
		}
	}
	return out
}

func newReport(ta analysis.TaskAnalysis, scored []recommend.ScoredAgent) *report {
	rows := make([]reportRow, len(scored))
	for i, s := range scored {
		rows[i] = reportRow{
			Rank:        s.Rank,
			AgentID:     s.Agent.ID,
			AgentName:   s.Agent.Name,
			Score:       scoring.Round(s.Score, 3),
			Confidence:  s.Confidence,
			Explanation: s.Explanation,
			Breakdown:   s.Breakdown.Rounded(3),
		}
	}
	return &report{Analysis: ta, Rows: rows}
}

// localBackend runs the recommendation service in this process.
type localBackend struct {
	svc *recommend.Service
}

func (b *localBackend) Analyze(_ context.Context, task string) (*analysis.TaskAnalysis, error) {
	if strings.TrimSpace(task) == "" {
		return nil, recommend.ErrInvalidInput
	}
	ta := b.svc.Analyze(task)
	return &ta, nil
}

func (b *localBackend) Recommend(_ context.Context, task string, topN int) (*report, error) {
	res, err := b.svc.Recommend(task, topN)
	if err != nil {
		return nil, err
	}
	return newReport(res.Analysis, res.Recommendations), nil
}

func (b *localBackend) Compare(_ context.Context, task string, ids []string) (*report, error) {
	res, err := b.svc.Compare(task, ids)
	if err != nil {
		return nil, err
	}
	return newReport(res.Analysis, res.Comparisons), nil
}

func (b *localBackend) Agents(context.Context) ([]catalog.Agent, error) {
	return b.svc.Agents(), nil
}

// remoteBackend calls the advisor HTTP API.
type remoteBackend struct {
	baseURL string
	client  *http.Client
}

func newRemoteBackend(baseURL string) *remoteBackend {
	return &remoteBackend{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (b *remoteBackend) Analyze(ctx context.Context, task string) (*analysis.TaskAnalysis, error) {
	var out struct {
		TaskAnalysis analysis.TaskAnalysis `json:"task_analysis"`
	}
	if err := b.do(ctx, http.MethodPost, "/api/analyze", map[string]interface{}{"task_description": task}, &out); err != nil {
		return nil, err
	}
	return &out.TaskAnalysis, nil
}

func (b *remoteBackend) Recommend(ctx context.Context, task string, topN int) (*report, error) {
	var out report
	body := map[string]interface{}{"task_description": task, "top_n": topN}
	if err := b.do(ctx, http.MethodPost, "/api/recommend", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *remoteBackend) Compare(ctx context.Context, task string, ids []string) (*report, error) {
	var out report
	body := map[string]interface{}{"task_description": task, "agent_ids": ids}
	if err := b.do(ctx, http.MethodPost, "/api/compare", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *remoteBackend) Agents(ctx context.Context) ([]catalog.Agent, error) {
	var out struct {
		Agents []catalog.Agent `json:"agents"`
	}
	if err := b.do(ctx, http.MethodGet, "/api/agents", nil, &out); err != nil {
		return nil, err
	}
	return out.Agents, nil
}

func (b *remoteBackend) do(ctx context.Context, method, path string, body, out interface{}) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, &buf)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, e.Error)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}
