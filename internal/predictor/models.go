// internal/predictor/models.go
package predictor

import "nursing-predictor/internal/models"

// Request is an eligibility prediction query.
type Request struct {
	Rank        int    `json:"rank"`
	Category    string `json:"category"`
	ExamType    string `json:"examType"`
	Branch      string `json:"branch,omitempty"`
	CollegeType string `json:"collegeType,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// Meta describes how a prediction was answered.
type Meta struct {
	Count         int    `json:"count"`
	Provider      string `json:"provider"`
	QueryRank     int    `json:"query_rank"`
	QueryCategory string `json:"query_category"`
	QueryExamType string `json:"query_examType"`
	QueryBranch   string `json:"query_branch"`
}

// Result is the prediction response payload.
type Result struct {
	Colleges []models.CollegeResult `json:"colleges"`
	Meta     Meta                   `json:"meta"`
}
