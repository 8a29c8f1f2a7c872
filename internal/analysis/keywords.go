package analysis

// KeywordGroup binds a label to the substrings that signal it.
// Tables are slices, not maps: their order decides ties.
type KeywordGroup struct {
	Label    string   `json:"label"`
	Keywords []string `json:"keywords"`
}

var categoryTable = []KeywordGroup{
	{string(TaskWebDevelopment), []string{"web", "website", "frontend", "backend", "react", "vue", "angular", "html", "css", "javascript", "node", "django", "flask"}},
	{string(TaskMobileDevelopment), []string{"mobile", "android", "ios", "app", "react native", "flutter", "swift", "kotlin"}},
	{string(TaskDataScience), []string{"data", "machine learning", "ml", "ai", "pandas", "numpy", "analysis", "visualization", "jupyter"}},
	{string(TaskCloudDevelopment), []string{"aws", "azure", "gcp", "cloud", "serverless", "docker", "kubernetes"}},
	{string(TaskGameDevelopment), []string{"game", "unity", "unreal", "pygame", "godot"}},
	{string(TaskAPIDevelopment), []string{"api", "rest", "graphql", "microservices", "fastapi"}},
	{string(TaskAutomation), []string{"automation", "script", "selenium", "testing", "ci/cd"}},
	{string(TaskLearning), []string{"learn", "tutorial", "beginner", "practice", "study", "education"}},
}

// Checked beginner, intermediate, advanced. "enterprise-grade production"
// only reaches advanced because the two earlier lists miss it.
var complexityTable = []KeywordGroup{
	{string(ComplexityBeginner), []string{"simple", "basic", "easy", "beginner", "start", "learn", "first time"}},
	{string(ComplexityIntermediate), []string{"medium", "intermediate", "some experience", "moderate"}},
	{string(ComplexityAdvanced), []string{"complex", "advanced", "enterprise", "large scale", "production", "sophisticated"}},
}

var languageTable = []KeywordGroup{
	{"Python", []string{"python", "py", "django", "flask", "pandas", "numpy"}},
	{"JavaScript", []string{"javascript", "js", "node", "react", "vue", "angular"}},
	{"TypeScript", []string{"typescript", "ts"}},
	{"Java", []string{"java", "spring", "android"}},
	{"C++", []string{"c++", "cpp"}},
	{"C#", []string{"c#", "csharp", ".net"}},
	{"Go", []string{"go", "golang"}},
	{"Rust", []string{"rust"}},
	{"PHP", []string{"php", "laravel"}},
	{"Ruby", []string{"ruby", "rails"}},
	{"Swift", []string{"swift", "ios"}},
	{"Kotlin", []string{"kotlin", "android"}},
}

var requirementTable = []KeywordGroup{
	{string(ReqCollaboration), []string{"collaborate", "team", "share", "together"}},
	{string(ReqDeployment), []string{"deploy", "production", "host", "publish"}},
	{string(ReqSecurity), []string{"secure", "security", "enterprise", "compliance"}},
	{string(ReqBudgetConscious), []string{"free", "budget", "cost", "cheap"}},
	{string(ReqRapidDevelopment), []string{"fast", "quick", "rapid", "prototype"}},
}

// First match wins: learning, then enterprise, then personal.
var contextTable = []KeywordGroup{
	{string(ContextLearning), []string{"learn", "study", "practice", "beginner"}},
	{string(ContextEnterprise), []string{"enterprise", "company", "business"}},
	{string(ContextPersonal), []string{"personal", "hobby", "side project"}},
}

// Tables is a read-only view of the analyzer's keyword tables.
type Tables struct {
	Categories   []KeywordGroup `json:"categories"`
	Complexity   []KeywordGroup `json:"complexity"`
	Languages    []KeywordGroup `json:"languages"`
	Requirements []KeywordGroup `json:"requirements"`
	Contexts     []KeywordGroup `json:"contexts"`
}

// KeywordTables returns deep copies of every table in evaluation order.
func KeywordTables() Tables {
	return Tables{
		Categories:   cloneGroups(categoryTable),
		Complexity:   cloneGroups(complexityTable),
		Languages:    cloneGroups(languageTable),
		Requirements: cloneGroups(requirementTable),
		Contexts:     cloneGroups(contextTable),
	}
}

func cloneGroups(in []KeywordGroup) []KeywordGroup {
	out := make([]KeywordGroup, len(in))
	for i, g := range in {
		kw := make([]string, len(g.Keywords))
		copy(kw, g.Keywords)
		out[i] = KeywordGroup{Label: g.Label, Keywords: kw}
	}
	return out
}
