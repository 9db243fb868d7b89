// internal/predictor/service.go

// Package predictor answers rank-based eligibility queries against the
// nursing cutoff tables. Results are never fabricated; when the data store
// cannot answer, the caller gets an explicit unavailability error.
package predictor

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/common/metrics"
	"nursing-predictor/internal/models"
	"nursing-predictor/internal/ownership"
)

const Provider = "database"

type Service struct {
	config *Config
	db     *sql.DB
	logger logger.Logger
}

func NewService(config *Config, db *sql.DB, log logger.Logger) *Service {
	return &Service{
		config: config,
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "predictor"}),
	}
}

// Predict validates the request and returns eligible institutes ordered by
// closing rank, tightest cutoff first, with ties broken by institute name.
func (s *Service) Predict(ctx context.Context, req *Request) (*Result, error) {
	if err := s.Validate(req); err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		year = s.config.DefaultYear
	}
	collegeType := req.CollegeType
	if collegeType == "" {
		collegeType = string(models.CollegeTypeAll)
	}

	queryCtx, cancel := context.WithTimeout(ctx, s.config.QueryTimeout)
	defer cancel()

	query, args := s.buildQuery(req, year, collegeType)

	rows, err := s.db.QueryContext(queryCtx, query, args...)
	if err != nil {
		if queryCtx.Err() == context.DeadlineExceeded {
			s.logger.Error("cutoff query timed out", map[string]interface{}{
				"rank":     req.Rank,
				"category": req.Category,
			})
			return nil, errors.NewQueryTimeoutError()
		}
		s.logger.WithError(err).Error("cutoff query failed", map[string]interface{}{
			"rank":     req.Rank,
			"category": req.Category,
		})
		return nil, errors.NewDataUnavailableError(err)
	}
	defer rows.Close()

	colleges := make([]models.CollegeResult, 0, s.config.MaxResults)
	for rows.Next() {
		var rec models.CutoffRecord
		if err := rows.Scan(&rec.Institute, &rec.Branch, &rec.OpeningRank, &rec.ClosingRank, &rec.Category); err != nil {
			return nil, errors.NewDataUnavailableError(err)
		}

		margin := SafetyMargin(req.Rank, rec.ClosingRank)
		colleges = append(colleges, models.CollegeResult{
			Institute:    rec.Institute,
			Branch:       string(rec.Branch),
			BranchLabel:  models.BranchLabel(string(rec.Branch)),
			OpeningRank:  rec.OpeningRank,
			ClosingRank:  rec.ClosingRank,
			Category:     string(rec.Category),
			SafetyMargin: margin,
			Chance:       s.config.Grade(margin),
		})
	}
	if err := rows.Err(); err != nil {
		if queryCtx.Err() == context.DeadlineExceeded {
			return nil, errors.NewQueryTimeoutError()
		}
		return nil, errors.NewDataUnavailableError(err)
	}

	metrics.PredictionsTotal.WithLabelValues(req.Category, req.Branch).Inc()
	metrics.PredictionResultRows.WithLabelValues(req.Category).Observe(float64(len(colleges)))

	s.logger.Info("prediction answered", map[string]interface{}{
		"rank":     req.Rank,
		"category": req.Category,
		"count":    len(colleges),
	})

	queryBranch := req.Branch
	if queryBranch == "" {
		queryBranch = string(models.BranchAll)
	}

	return &Result{
		Colleges: colleges,
		Meta: Meta{
			Count:         len(colleges),
			Provider:      Provider,
			QueryRank:     req.Rank,
			QueryCategory: req.Category,
			QueryExamType: req.ExamType,
			QueryBranch:   queryBranch,
		},
	}, nil
}

// Validate fails fast on bad input before any storage access. A missing
// examType defaults to the supported paper, and branch "All" means the same
// as no branch filter.
func (s *Service) Validate(req *Request) error {
	if req == nil {
		return errors.NewValidationError("request body is required")
	}
	if req.ExamType == "" {
		req.ExamType = string(models.ExamDCECEPM)
	}
	if req.Branch == string(models.BranchAll) {
		req.Branch = ""
	}
	if req.Rank < 1 || req.Rank > s.config.MaxRank {
		return errors.NewValidationError(
			fmt.Sprintf("rank must be between 1 and %d", s.config.MaxRank))
	}
	if !models.IsValidCategory(req.Category) {
		return errors.NewValidationError(fmt.Sprintf("invalid category: %s", req.Category))
	}
	if !models.IsValidExamVariant(req.ExamType) {
		return errors.NewValidationError(fmt.Sprintf("invalid examType: %s", req.ExamType))
	}
	if req.ExamType == string(models.ExamDCECEPMM) {
		return errors.NewUnsupportedExamError(models.ExamVariantLabel(req.ExamType))
	}
	if req.Branch != "" && !models.IsValidBranch(req.Branch) {
		return errors.NewValidationError(fmt.Sprintf("invalid branch: %s", req.Branch))
	}
	if req.CollegeType != "" && !models.IsValidCollegeType(req.CollegeType) {
		return errors.NewValidationError(fmt.Sprintf("invalid collegeType: %s", req.CollegeType))
	}
	return nil
}

// buildQuery assembles the cutoff lookup. Eligibility means the closing rank
// is at or beyond the candidate's rank for the same year and category.
func (s *Service) buildQuery(req *Request, year int, collegeType string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("SELECT institute, branch, opening_rank, closing_rank, category FROM nursing_cutoffs")
	sb.WriteString(" WHERE year = $1 AND category = $2 AND closing_rank >= $3")
	args := []interface{}{year, req.Category, req.Rank}

	if req.Branch != "" {
		args = append(args, req.Branch)
		sb.WriteString(fmt.Sprintf(" AND branch = $%d", len(args)))
	}

	switch models.CollegeType(collegeType) {
	case models.CollegeTypeGovernment:
		clause, patternArgs := ownership.SQLPredicate("institute", len(args)+1)
		sb.WriteString(" AND " + clause)
		args = append(args, patternArgs...)
	case models.CollegeTypePrivate:
		clause, patternArgs := ownership.SQLPredicate("institute", len(args)+1)
		sb.WriteString(" AND NOT " + clause)
		args = append(args, patternArgs...)
	}

	args = append(args, s.config.MaxResults)
	sb.WriteString(fmt.Sprintf(" ORDER BY closing_rank ASC, institute ASC LIMIT $%d", len(args)))

	return sb.String(), args
}
