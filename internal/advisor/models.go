// internal/advisor/models.go
package advisor

import (
	"nursing-predictor/internal/models"
	"nursing-predictor/internal/predictor"
)

// Request is an advice query. Callers that already hold a prediction result
// send its rows in Colleges and the advice is built from those rows without
// touching the store; otherwise the prediction is recomputed.
type Request struct {
	predictor.Request
	Colleges []models.CollegeResult `json:"colleges,omitempty"`
}

// Meta describes how an advice response was produced. Provider is "groq"
// when the generation call succeeded, "fallback" otherwise.
type Meta struct {
	Provider      string `json:"provider"`
	QueryRank     int    `json:"query_rank"`
	QueryCategory string `json:"query_category"`
	CollegesCount int    `json:"colleges_count"`
}

// Result is the advice response payload.
type Result struct {
	AIExplanation string `json:"ai_explanation"`
	Meta          Meta   `json:"meta"`
}

// chat completion wire types for the generation API

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}
