package entities

import "time"

// RiskImpact is the severity of a risk materializing
type RiskImpact string

const (
	RiskImpactLow      RiskImpact = "low"
	RiskImpactMedium   RiskImpact = "medium"
	RiskImpactHigh     RiskImpact = "high"
	RiskImpactCritical RiskImpact = "critical"
)

// RiskProbability is how likely a risk is to materialize
type RiskProbability string

const (
	RiskProbabilityLow    RiskProbability = "low"
	RiskProbabilityMedium RiskProbability = "medium"
	RiskProbabilityHigh   RiskProbability = "high"
)

// RiskStatus tracks risk mitigation progress
type RiskStatus string

const (
	RiskStatusOpen      RiskStatus = "open"
	RiskStatusMitigated RiskStatus = "mitigated"
	RiskStatusClosed    RiskStatus = "closed"
)

// RiskAssessment records an identified project risk and its mitigation
type RiskAssessment struct {
	ID          string          `json:"id" db:"id"`
	ProjectID   string          `json:"projectId" db:"project_id"`
	RiskType    string          `json:"riskType" db:"risk_type"`
	Description string          `json:"description" db:"description"`
	Impact      RiskImpact      `json:"impact" db:"impact"`
	Probability RiskProbability `json:"probability" db:"probability"`
	Mitigation  string          `json:"mitigation" db:"mitigation"`
	Status      RiskStatus      `json:"status" db:"status"`
	CreatedAt   time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time       `json:"updatedAt" db:"updated_at"`
}

// RiskStatistics aggregates risk assessments by severity and state
type RiskStatistics struct {
	TotalRisks     int `json:"totalRisks"`
	OpenRisks      int `json:"openRisks"`
	HighRisks      int `json:"highRisks"`
	MitigatedRisks int `json:"mitigatedRisks"`
}

// ActionAndRiskStatistics is the combined stats overview payload
type ActionAndRiskStatistics struct {
	Actions ActionStatistics `json:"actions"`
	Risks   RiskStatistics   `json:"risks"`
}
