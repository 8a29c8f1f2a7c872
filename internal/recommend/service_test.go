package recommend

import (
	"errors"
	"testing"

	"github.com/nidhogg/agent-advisor/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.New([]catalog.Agent{
		{
			ID: "alpha", Name: "Alpha",
			SupportedLanguages: []string{"Python"},
			Strengths:          []string{"Plain"},
			LearningCurve:      catalog.LearningHigh,
			PriceTier:          catalog.PricePaid,
		},
		{
			ID: "beta", Name: "Beta",
			SupportedLanguages: []string{"JavaScript", "React"},
			Strengths:          []string{"Zero setup", "Hosting"},
			IdealFor:           []string{"beginners", "students"},
			LearningCurve:      catalog.LearningLow,
			PriceTier:          catalog.PriceFree,
			Collaboration:      true,
			Deployment:         true,
		},
		{
			ID: "gamma", Name: "Gamma",
			SupportedLanguages: []string{"Python"},
			Strengths:          []string{"Plain"},
			LearningCurve:      catalog.LearningHigh,
			PriceTier:          catalog.PricePaid,
		},
		{
			ID: "delta", Name: "Delta",
			SupportedLanguages: []string{"Go"},
			Strengths:          []string{"Security first"},
			IdealFor:           []string{"enterprise"},
			LearningCurve:      catalog.LearningMedium,
			PriceTier:          catalog.PriceEnterprise,
		},
	})
	require.NoError(t, err)
	return cat
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(testCatalog(t), nil, zap.NewNop())
}

func TestRecommendRanksAndTruncates(t *testing.T) {
	svc := newTestService(t)

	res, err := svc.Recommend("I want to build a simple website using React", 2)
	require.NoError(t, err)
	require.Len(t, res.Recommendations, 2)

	first := res.Recommendations[0]
	assert.Equal(t, "beta", first.Agent.ID)
	assert.Equal(t, 1, first.Rank)
	assert.Equal(t, 2, res.Recommendations[1].Rank)
	assert.GreaterOrEqual(t, first.Score, res.Recommendations[1].Score)
	assert.Contains(t, first.Explanation, "Completely free to use")
	assert.InDelta(t, first.Breakdown.Total(), first.Score, 1e-9)
}

func TestRecommendDefaultsTopN(t *testing.T) {
	svc := newTestService(t)
	for _, n := range []int{0, -1, -100} {
		res, err := svc.Recommend("refactor a module", n)
		require.NoError(t, err)
		assert.Len(t, res.Recommendations, DefaultTopN, "topN=%d", n)
	}
}

func TestRecommendTopNLargerThanCatalog(t *testing.T) {
	svc := newTestService(t)
	res, err := svc.Recommend("refactor a module", 50)
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 4)
}

func TestRecommendTiesKeepCatalogOrder(t *testing.T) {
	svc := newTestService(t)
	// alpha and gamma are identical apart from id, so they must tie with
	// alpha first.
	res, err := svc.Recommend("python data pipeline", 10)
	require.NoError(t, err)

	var order []string
	for _, r := range res.Recommendations {
		if r.Agent.ID == "alpha" || r.Agent.ID == "gamma" {
			order = append(order, r.Agent.ID)
		}
	}
	assert.Equal(t, []string{"alpha", "gamma"}, order)
}

func TestRecommendIsDeterministic(t *testing.T) {
	svc := newTestService(t)
	a, err := svc.Recommend("deploy a flask api quickly with my team", 4)
	require.NoError(t, err)
	b, err := svc.Recommend("deploy a flask api quickly with my team", 4)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRecommendRejectsEmpty(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Recommend("   ", 3)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCompare(t *testing.T) {
	svc := newTestService(t)

	cmp, err := svc.Compare("Enterprise-grade production API for our company, must be secure", []string{"alpha", "delta"})
	require.NoError(t, err)
	require.Len(t, cmp.Comparisons, 2)
	assert.Equal(t, "delta", cmp.Comparisons[0].Agent.ID)
	assert.Contains(t, cmp.Comparisons[0].Explanation, "Suitable for complex enterprise projects")
	for _, c := range cmp.Comparisons {
		assert.Zero(t, c.Rank)
	}
}

func TestCompareDeduplicatesIDs(t *testing.T) {
	svc := newTestService(t)
	cmp, err := svc.Compare("anything", []string{"beta", "beta", "alpha"})
	require.NoError(t, err)
	assert.Len(t, cmp.Comparisons, 2)
}

func TestCompareUnknownAgent(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Compare("anything", []string{"alpha", "nope", "ghost"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownAgent))
	assert.Contains(t, err.Error(), "nope, ghost")
}

func TestScoreOneAndExplainMatchRecommend(t *testing.T) {
	svc := newTestService(t)
	desc := "learn javascript for a hobby"
	res, err := svc.Recommend(desc, 4)
	require.NoError(t, err)

	ta := svc.Analyze(desc)
	for _, r := range res.Recommendations {
		a, ok := svc.Agent(r.Agent.ID)
		require.True(t, ok)
		total, b := svc.ScoreOne(a, &ta)
		assert.Equal(t, r.Score, total)
		assert.Equal(t, r.Breakdown, b)
		assert.Equal(t, r.Explanation, svc.Explain(a, &ta, b))
	}
}

func TestSortByScoreIgnoresFloatNoise(t *testing.T) {
	tenth, fifth, fifteen := 0.1, 0.2, 0.15
	agents := func() []ScoredAgent {
		return []ScoredAgent{
			{Agent: catalog.Agent{ID: "first"}, Score: fifteen + fifteen},
			{Agent: catalog.Agent{ID: "second"}, Score: tenth + fifth},
		}
	}
	require.Greater(t, tenth+fifth, fifteen+fifteen)

	raw := agents()
	sortByScore(raw, rawScore)
	assert.Equal(t, "second", raw[0].Agent.ID)

	shown := agents()
	sortByScore(shown, displayedScore)
	assert.Equal(t, "first", shown[0].Agent.ID, "equal rounded scores keep input order")
}
