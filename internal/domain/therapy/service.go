package therapy

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateLog validates and stores a dose record for the given user. Status
// defaults to completed when an administration time is present and
// scheduled otherwise.
func (s *Service) CreateLog(ctx context.Context, userID uuid.UUID, in CreateInput) (*Log, error) {
	if userID == uuid.Nil {
		return nil, fmt.Errorf("user id is required")
	}
	drugName := strings.TrimSpace(in.DrugName)
	if drugName == "" {
		return nil, fmt.Errorf("drug_name is required")
	}
	if strings.TrimSpace(in.Dosage) == "" {
		return nil, fmt.Errorf("dosage is required")
	}
	if in.Route != "" && !validRoutes[in.Route] {
		return nil, fmt.Errorf("invalid route: %s", in.Route)
	}

	status := in.Status
	if status == "" {
		if in.AdministeredAt != nil {
			status = StatusCompleted
		} else {
			status = StatusScheduled
		}
	}
	if !validStatuses[status] {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if status == StatusCompleted && in.AdministeredAt == nil {
		now := time.Now().UTC()
		in.AdministeredAt = &now
	}

	l := &Log{
		ID:             uuid.New(),
		UserID:         userID,
		DrugName:       drugName,
		Dosage:         strings.TrimSpace(in.Dosage),
		DosageUnit:     in.DosageUnit,
		Route:          in.Route,
		Status:         status,
		AdministeredAt: in.AdministeredAt,
		Notes:          in.Notes,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, fmt.Errorf("store therapy log: %w", err)
	}
	return l, nil
}

// ListLogs returns the user's dose records, most recent first.
func (s *Service) ListLogs(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*Log, int, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// DeleteLog removes one of the caller's records. Foreign records are
// reported as not found.
func (s *Service) DeleteLog(ctx context.Context, userID, id uuid.UUID) error {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if l.UserID != userID {
		return ErrNotFound
	}
	return s.repo.Delete(ctx, id)
}
