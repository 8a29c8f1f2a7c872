package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/nidhogg/agent-advisor/internal/catalog"
	"go.uber.org/zap"
)

// ErrAgentNotFound is returned by GetAgent for an unknown id.
var ErrAgentNotFound = errors.New("agent not found")

const agentColumns = `id, name, description, supported_languages, capabilities, strengths,
	use_cases, ideal_for, learning_curve, price_tier, collaboration, deployment`

const upsertAgent = `
	INSERT INTO agents (` + agentColumns + `, position, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, NOW())
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		description = EXCLUDED.description,
		supported_languages = EXCLUDED.supported_languages,
		capabilities = EXCLUDED.capabilities,
		strengths = EXCLUDED.strengths,
		use_cases = EXCLUDED.use_cases,
		ideal_for = EXCLUDED.ideal_for,
		learning_curve = EXCLUDED.learning_curve,
		price_tier = EXCLUDED.price_tier,
		collaboration = EXCLUDED.collaboration,
		deployment = EXCLUDED.deployment,
		position = EXCLUDED.position,
		updated_at = EXCLUDED.updated_at`

func upsertArgs(a *catalog.Agent, position int) []interface{} {
	return []interface{}{
		a.ID, a.Name, a.Description,
		nonNil(a.SupportedLanguages), nonNil(a.Capabilities), nonNil(a.Strengths),
		nonNil(a.UseCases), nonNil(a.IdealFor),
		string(a.LearningCurve), string(a.PriceTier),
		a.Collaboration, a.Deployment, position,
	}
}

// SaveAgent upserts one agent at the given catalog position.
func (s *Store) SaveAgent(ctx context.Context, a *catalog.Agent, position int) error {
	if _, err := s.db.Exec(ctx, upsertAgent, upsertArgs(a, position)...); err != nil {
		return fmt.Errorf("save agent %s: %w", a.ID, err)
	}
	return nil
}

// SaveAgents upserts agents in one transaction, keeping their slice order
// as the catalog order.
func (s *Store) SaveAgents(ctx context.Context, agents []catalog.Agent) error {
	err := pgx.BeginFunc(ctx, s.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i := range agents {
			batch.Queue(upsertAgent, upsertArgs(&agents[i], i)...)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	s.logger.Info("Agents saved", zap.Int("count", len(agents)))
	return nil
}

// GetAgent retrieves a single agent by id.
func (s *Store) GetAgent(ctx context.Context, id string) (*catalog.Agent, error) {
	row := s.db.QueryRow(ctx, `SELECT `+agentColumns+` FROM agents WHERE id = $1`, id)
	a, err := scanAgent(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get agent %s: %w", id, ErrAgentNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get agent %s: %w", id, err)
	}
	return a, nil
}

// ListAgents returns every agent in catalog order.
func (s *Store) ListAgents(ctx context.Context) ([]catalog.Agent, error) {
	rows, err := s.db.Query(ctx, `SELECT `+agentColumns+` FROM agents ORDER BY position, id`)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var agents []catalog.Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan agent: %w", err)
		}
		agents = append(agents, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

// LoadCatalog reads every agent and builds an immutable catalog.
func (s *Store) LoadCatalog(ctx context.Context) (*catalog.Catalog, error) {
	agents, err := s.ListAgents(ctx)
	if err != nil {
		return nil, err
	}
	return catalog.New(agents)
}

func scanAgent(row pgx.Row) (*catalog.Agent, error) {
	var (
		a             catalog.Agent
		learningCurve string
		priceTier     string
	)
	err := row.Scan(
		&a.ID, &a.Name, &a.Description,
		&a.SupportedLanguages, &a.Capabilities, &a.Strengths,
		&a.UseCases, &a.IdealFor,
		&learningCurve, &priceTier,
		&a.Collaboration, &a.Deployment,
	)
	if err != nil {
		return nil, err
	}
	a.LearningCurve = catalog.LearningCurve(learningCurve)
	a.PriceTier = catalog.PriceTier(priceTier)
	return &a, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
