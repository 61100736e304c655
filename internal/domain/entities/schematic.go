package entities

// SchematicSection is one block of panels on the site layout
type SchematicSection struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PanelCount int    `json:"panelCount"`
	Status     string `json:"status"`
}

// ProjectSchematic is the generated site layout for the schematic view.
// Sections flip from "planned" to "installed" as progress advances.
type ProjectSchematic struct {
	ProjectID   string             `json:"projectId"`
	Name        string             `json:"name"`
	Capacity    string             `json:"capacity"`
	TotalPanels int                `json:"totalPanels"`
	Sections    []SchematicSection `json:"sections"`
	GeneratedAt string             `json:"generatedAt"`
}
