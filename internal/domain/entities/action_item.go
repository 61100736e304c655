package entities

import "time"

// ActionPriority is the urgency of an action item
type ActionPriority string

const (
	ActionPriorityLow      ActionPriority = "low"
	ActionPriorityMedium   ActionPriority = "medium"
	ActionPriorityHigh     ActionPriority = "high"
	ActionPriorityCritical ActionPriority = "critical"
)

// ActionStatus tracks action item progress
type ActionStatus string

const (
	ActionStatusNew        ActionStatus = "new"
	ActionStatusInProgress ActionStatus = "in-progress"
	ActionStatusMonitoring ActionStatus = "monitoring"
	ActionStatusResolved   ActionStatus = "resolved"
)

// ActionType categorizes an action item
type ActionType string

const (
	ActionTypeRFI   ActionType = "rfi"
	ActionTypeRisk  ActionType = "risk"
	ActionTypeTask  ActionType = "task"
	ActionTypeAlert ActionType = "alert"
)

// ValidActionStatus reports whether s is one of the accepted status values
func ValidActionStatus(s ActionStatus) bool {
	switch s {
	case ActionStatusNew, ActionStatusInProgress, ActionStatusMonitoring, ActionStatusResolved:
		return true
	}
	return false
}

// ActionItem is a task requiring attention on a project site
type ActionItem struct {
	ID          string         `json:"id" db:"id"`
	Title       string         `json:"title" db:"title"`
	Description string         `json:"description" db:"description"`
	Priority    ActionPriority `json:"priority" db:"priority"`
	Status      ActionStatus   `json:"status" db:"status"`
	DueDate     time.Time      `json:"dueDate" db:"due_date"`
	ProjectID   string         `json:"projectId" db:"project_id"`
	Type        ActionType     `json:"type" db:"type"`
	AssignedTo  string         `json:"assignedTo,omitempty" db:"assigned_to"`
	CreatedAt   time.Time      `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time      `json:"updatedAt" db:"updated_at"`
}

// ActionStatistics aggregates action items by status
type ActionStatistics struct {
	TotalActions      int `json:"totalActions"`
	NewActions        int `json:"newActions"`
	InProgressActions int `json:"inProgressActions"`
	ResolvedActions   int `json:"resolvedActions"`
}
