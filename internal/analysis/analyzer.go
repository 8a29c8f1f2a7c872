// Package analysis turns a free-text task description into a TaskAnalysis
// using literal substring checks against fixed keyword tables.
package analysis

import "strings"

// Analyzer runs the five classification passes. The zero value is ready to use.
type Analyzer struct{}

// NewAnalyzer creates a task analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze classifies description. Callers reject empty input beforehand;
// an empty string simply yields every default.
func (a *Analyzer) Analyze(description string) TaskAnalysis {
	text := strings.ToLower(description)

	requirements := detectRequirements(text)
	context := detectContext(text)

	ta := TaskAnalysis{
		TaskType:     detectTaskType(text),
		Complexity:   detectComplexity(text),
		Languages:    detectLanguages(text),
		Requirements: requirements,
		Context:      context,
	}
	ta.CollaborationNeeded = ta.Has(ReqCollaboration)
	ta.DeploymentNeeded = ta.Has(ReqDeployment)
	ta.LearningFocused = context == ContextLearning
	return ta
}

func countMatches(text string, keywords []string) int {
	n := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			n++
		}
	}
	return n
}

func anyMatch(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// detectTaskType picks the category with the strictly highest keyword count.
func detectTaskType(text string) TaskType {
	best := TaskGeneral
	top := 0
	for _, g := range categoryTable {
		if n := countMatches(text, g.Keywords); n > top {
			top = n
			best = TaskType(g.Label)
		}
	}
	return best
}

func detectComplexity(text string) Complexity {
	for _, g := range complexityTable {
		if anyMatch(text, g.Keywords) {
			return Complexity(g.Label)
		}
	}
	return ComplexityIntermediate
}

func detectLanguages(text string) []string {
	langs := []string{}
	for _, g := range languageTable {
		if anyMatch(text, g.Keywords) {
			langs = append(langs, g.Label)
		}
	}
	return langs
}

func detectRequirements(text string) []Requirement {
	reqs := []Requirement{}
	for _, g := range requirementTable {
		if anyMatch(text, g.Keywords) {
			reqs = append(reqs, Requirement(g.Label))
		}
	}
	return reqs
}

func detectContext(text string) Context {
	for _, g := range contextTable {
		if anyMatch(text, g.Keywords) {
			return Context(g.Label)
		}
	}
	return ContextProfessional
}
