// internal/leads/models.go
package leads

// Request is a counselling enquiry submission.
type Request struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email,omitempty"`
	Rank     int    `json:"rank,omitempty"`
	Category string `json:"category,omitempty"`
	Branch   string `json:"branch,omitempty"`
	Source   string `json:"source,omitempty"`
}
