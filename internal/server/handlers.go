// internal/server/handlers.go
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"nursing-predictor/internal/advisor"
	"nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/leads"
	"nursing-predictor/internal/predictor"

	"github.com/xeipuuv/gojsonschema"
)

// usageHints documents each endpoint for wrong-method and wrong-shape calls.
var usageHints = map[string]string{
	"/api/predict":         "POST /api/predict with JSON body {rank, category, examType?, branch?, collegeType?, year?}",
	"/api/advice":          "POST /api/advice with JSON body {rank, category, examType?, branch?, collegeType?, year?, colleges?}",
	"/api/leads":           "POST /api/leads with JSON body {name, phone, email?, rank?, category?, branch?, source?}",
	"/api/colleges/search": "GET /api/colleges/search?q=<institute name>",
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictor.Request
	if err := decodeAndValidate(r, predictSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.services.Predictor.Predict(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAdvice(w http.ResponseWriter, r *http.Request) {
	var req advisor.Request
	if err := decodeAndValidate(r, adviceSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	result, err := s.services.Advisor.Advise(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleLeads(w http.ResponseWriter, r *http.Request) {
	var req leads.Request
	if err := decodeAndValidate(r, leadSchema, &req); err != nil {
		writeError(w, err)
		return
	}

	lead, err := s.services.Leads.Create(r.Context(), &req)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"lead": lead})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	hits, err := s.services.Search.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"institutes": hits,
		"meta":       map[string]interface{}{"count": len(hits)},
	})
}

func (s *Server) handleMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	usage, ok := usageHints[r.URL.Path]
	if !ok {
		usage = "see /api/predict, /api/advice, /api/leads, /api/colleges/search"
	}
	writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
		"error": fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
		"code":  string(errors.ErrCodeMethodNotAllowed),
		"usage": usage,
	})
}

// decodeAndValidate checks the body against the schema before decoding into
// the typed request, so shape errors carry the schema's wording.
func decodeAndValidate(r *http.Request, schema map[string]interface{}, dst interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.NewValidationError("failed to read request body")
	}
	if len(body) == 0 {
		return errors.NewValidationError("request body is required")
	}

	var document interface{}
	if err := json.Unmarshal(body, &document); err != nil {
		return errors.NewValidationError("request body must be valid JSON")
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	documentLoader := gojsonschema.NewGoLoader(document)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return errors.NewValidationError(fmt.Sprintf("validation error: %v", err))
	}
	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return errors.NewValidationError(fmt.Sprintf("%v", errs))
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return errors.NewValidationError("request body must be valid JSON")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	if se, ok := err.(*errors.StandardError); ok {
		writeJSON(w, errors.HTTPStatus(se.Code), map[string]interface{}{
			"error":   se.Message,
			"code":    string(se.Code),
			"details": se.Details,
		})
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error": "internal server error",
	})
}
