package models

// Fallbacks applied while normalizing raw API items. Every Job field is
// populated; consumers never need nil checks.
const (
	NoValue       = "N/A"
	NoDescription = "No description available"
	NoSalary      = "Not specified"
	NoURL         = "#"
)

// Job is a normalized posting. All text fields carry their fallback value
// when the upstream payload omits the source keys.
type Job struct {
	Title          string `json:"title"`
	Company        string `json:"company"`
	Location       string `json:"location"`
	PostedDate     string `json:"posted_date"`
	Description    string `json:"description"`
	ApplyURL       string `json:"apply_url"`
	EmploymentType string `json:"employment_type"`
	Remote         bool   `json:"remote"`
	Salary         string `json:"salary"`
	Industry       string `json:"industry"`
}
