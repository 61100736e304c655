package entities

import "time"

// CommunicationType categorizes a communication entry
type CommunicationType string

const (
	CommunicationTypeInsight      CommunicationType = "insight"
	CommunicationTypeStatusUpdate CommunicationType = "status-update"
	CommunicationTypePermit       CommunicationType = "permit"
	CommunicationTypeRisk         CommunicationType = "risk"
)

// CommunicationPriority is the urgency of a communication
type CommunicationPriority string

const (
	CommunicationPriorityLow      CommunicationPriority = "low"
	CommunicationPriorityNormal   CommunicationPriority = "normal"
	CommunicationPriorityHigh     CommunicationPriority = "high"
	CommunicationPriorityCritical CommunicationPriority = "critical"
)

// CommunicationSource identifies who posted a communication
type CommunicationSource string

const (
	CommunicationSourceAI         CommunicationSource = "ai"
	CommunicationSourceContractor CommunicationSource = "contractor"
	CommunicationSourceAuthority  CommunicationSource = "authority"
	CommunicationSourceSystem     CommunicationSource = "system"
)

// Communication is a message posted against a project site
type Communication struct {
	ID        string                `json:"id" db:"id"`
	Type      CommunicationType     `json:"type" db:"type"`
	Title     string                `json:"title" db:"title"`
	Content   string                `json:"content" db:"content"`
	Priority  CommunicationPriority `json:"priority" db:"priority"`
	Source    CommunicationSource   `json:"source" db:"source"`
	ProjectID string                `json:"projectId" db:"project_id"`
	Tags      []string              `json:"tags" db:"tags"`
	PostedAt  time.Time             `json:"postedAt" db:"posted_at"`
	IsAI      bool                  `json:"isAI" db:"is_ai"`
	CreatedAt time.Time             `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time             `json:"updatedAt" db:"updated_at"`
}
