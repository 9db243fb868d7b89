// internal/models/lead.go
package models

import "time"

// Lead is a counselling enquiry captured from the predictor pages.
type Lead struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email,omitempty" db:"email"`
	Rank      int       `json:"rank,omitempty" db:"rank"`
	Category  string    `json:"category,omitempty" db:"category"`
	Branch    string    `json:"branch,omitempty" db:"branch"`
	Source    string    `json:"source,omitempty" db:"source"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
