package analysis

// TaskType is the detected development domain of a task.
type TaskType string

const (
	TaskWebDevelopment    TaskType = "web_development"
	TaskMobileDevelopment TaskType = "mobile_development"
	TaskDataScience       TaskType = "data_science"
	TaskCloudDevelopment  TaskType = "cloud_development"
	TaskGameDevelopment   TaskType = "game_development"
	TaskAPIDevelopment    TaskType = "api_development"
	TaskAutomation        TaskType = "automation"
	TaskLearning          TaskType = "learning"
	TaskGeneral           TaskType = "general_programming"
)

// Complexity is the detected difficulty level.
type Complexity string

const (
	ComplexityBeginner     Complexity = "beginner"
	ComplexityIntermediate Complexity = "intermediate"
	ComplexityAdvanced     Complexity = "advanced"
)

// Context is the setting the work happens in.
type Context string

const (
	ContextProfessional Context = "professional"
	ContextLearning     Context = "learning"
	ContextEnterprise   Context = "enterprise"
	ContextPersonal     Context = "personal"
)

// Requirement is a detected need of the task.
type Requirement string

const (
	ReqCollaboration    Requirement = "collaboration"
	ReqDeployment       Requirement = "deployment"
	ReqSecurity         Requirement = "security"
	ReqBudgetConscious  Requirement = "budget_conscious"
	ReqRapidDevelopment Requirement = "rapid_development"
)

// TaskAnalysis is the structured reading of one task description.
// It is built once per call and not modified afterwards.
type TaskAnalysis struct {
	TaskType            TaskType      `json:"task_type"`
	Complexity          Complexity    `json:"complexity"`
	Languages           []string      `json:"languages"`
	Requirements        []Requirement `json:"requirements"`
	Context             Context       `json:"context"`
	CollaborationNeeded bool          `json:"collaboration_needed"`
	DeploymentNeeded    bool          `json:"deployment_needed"`
	LearningFocused     bool          `json:"learning_focused"`
}

// Has reports whether req was detected.
func (t *TaskAnalysis) Has(req Requirement) bool {
	for _, r := range t.Requirements {
		if r == req {
			return true
		}
	}
	return false
}
