package models

// ResumeData is the structured resume draft a student builds up. It is
// serialized as a whole to the draft store under the student's key; there
// is no per-section persistence.
type ResumeData struct {
	PersonalInfo ResumePersonalInfo `json:"personalInfo"`
	Experience   []ResumeExperience `json:"experience"`
	Education    []ResumeEducation  `json:"education"`
	Skills       []string           `json:"skills"`
	Projects     []ResumeProject    `json:"projects"`
	Template     string             `json:"template"` // modern, classic, minimal
}

type ResumePersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Summary  string `json:"summary"`
}

type ResumeExperience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

type ResumeEducation struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Year        string `json:"year"`
	GPA         string `json:"gpa,omitempty"`
}

type ResumeProject struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Technologies string `json:"technologies"`
	Link         string `json:"link,omitempty"`
}
