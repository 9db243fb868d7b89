// internal/leads/service.go

// Package leads captures counselling enquiries from the predictor pages and
// alerts the counselling team.
package leads

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"time"

	"nursing-predictor/internal/common/errors"
	"nursing-predictor/internal/common/logger"
	"nursing-predictor/internal/common/metrics"
	"nursing-predictor/internal/models"

	"github.com/google/uuid"
)

// Indian mobile numbers only, the audience is Bihar DCECE candidates.
var phonePattern = regexp.MustCompile(`^[6-9][0-9]{9}$`)

const notifyTimeout = 10 * time.Second

type Service struct {
	db       *sql.DB
	notifier *Notifier
	logger   logger.Logger
}

func NewService(db *sql.DB, notifier *Notifier, log logger.Logger) *Service {
	return &Service{
		db:       db,
		notifier: notifier,
		logger:   log.WithFields(map[string]interface{}{"component": "leads"}),
	}
}

// Create stores a new lead. Phone numbers are unique; a repeat submission
// returns a duplicate error rather than a second row. The team alert goes
// out on a detached goroutine so delivery latency never blocks the caller.
func (s *Service) Create(ctx context.Context, req *Request) (*models.Lead, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM leads WHERE phone = $1)`, req.Phone).Scan(&exists)
	if err != nil {
		metrics.LeadsCreatedTotal.WithLabelValues("error").Inc()
		return nil, errors.NewLeadInsertFailedError(fmt.Errorf("duplicate check failed: %w", err))
	}
	if exists {
		metrics.LeadsCreatedTotal.WithLabelValues("duplicate").Inc()
		return nil, errors.NewDuplicateLeadError(req.Phone)
	}

	lead := &models.Lead{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Rank:      req.Rank,
		Category:  req.Category,
		Branch:    req.Branch,
		Source:    req.Source,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO leads (id, name, phone, email, rank, category, branch, source, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		lead.ID, lead.Name, lead.Phone, lead.Email, lead.Rank,
		lead.Category, lead.Branch, lead.Source, lead.CreatedAt,
	)
	if err != nil {
		metrics.LeadsCreatedTotal.WithLabelValues("error").Inc()
		return nil, errors.NewLeadInsertFailedError(err)
	}

	metrics.LeadsCreatedTotal.WithLabelValues("created").Inc()
	s.logger.Info("lead captured", map[string]interface{}{
		"leadId": lead.ID,
		"source": lead.Source,
	})

	if s.notifier != nil {
		go func(lead models.Lead) {
			notifyCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
			defer cancel()
			s.notifier.Notify(notifyCtx, &lead)
		}(*lead)
	}

	return lead, nil
}

func validate(req *Request) error {
	if req == nil {
		return errors.NewValidationError("request body is required")
	}
	if req.Name == "" {
		return errors.NewValidationError("name is required")
	}
	if !phonePattern.MatchString(req.Phone) {
		return errors.NewValidationError("phone must be a 10 digit Indian mobile number")
	}
	if req.Category != "" && !models.IsValidCategory(req.Category) {
		return errors.NewValidationError(fmt.Sprintf("invalid category: %s", req.Category))
	}
	if req.Branch != "" && !models.IsValidBranch(req.Branch) {
		return errors.NewValidationError(fmt.Sprintf("invalid branch: %s", req.Branch))
	}
	return nil
}
