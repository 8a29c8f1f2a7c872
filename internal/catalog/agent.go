package catalog

// LearningCurve describes how much effort an agent takes to pick up.
type LearningCurve string

const (
	LearningLow    LearningCurve = "low"
	LearningMedium LearningCurve = "medium"
	LearningHigh   LearningCurve = "high"
)

// PriceTier is the commercial model of an agent.
type PriceTier string

const (
	PriceFree       PriceTier = "free"
	PriceFreemium   PriceTier = "freemium"
	PricePaid       PriceTier = "paid"
	PriceEnterprise PriceTier = "enterprise"
)

// Agent is one coding-assistant tool in the catalog.
type Agent struct {
	ID                 string        `json:"id" yaml:"id"`
	Name               string        `json:"name" yaml:"name"`
	Description        string        `json:"description" yaml:"description"`
	SupportedLanguages []string      `json:"supported_languages" yaml:"supported_languages"`
	Capabilities       []string      `json:"capabilities" yaml:"capabilities"`
	Strengths          []string      `json:"strengths" yaml:"strengths"` // first entry is the headline
	UseCases           []string      `json:"use_cases" yaml:"use_cases"`
	IdealFor           []string      `json:"ideal_for" yaml:"ideal_for"`
	LearningCurve      LearningCurve `json:"learning_curve" yaml:"learning_curve"`
	PriceTier          PriceTier     `json:"price_tier" yaml:"price_tier"`
	Collaboration      bool          `json:"collaboration" yaml:"collaboration"`
	Deployment         bool          `json:"deployment" yaml:"deployment"`
}

// Supports reports whether lang is listed verbatim in SupportedLanguages.
func (a *Agent) Supports(lang string) bool {
	return contains(a.SupportedLanguages, lang)
}

// IsIdealFor reports whether audience is listed verbatim in IdealFor.
func (a *Agent) IsIdealFor(audience string) bool {
	return contains(a.IdealFor, audience)
}

// Headline returns the first strength phrase.
func (a *Agent) Headline() string {
	if len(a.Strengths) == 0 {
		return ""
	}
	return a.Strengths[0]
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
