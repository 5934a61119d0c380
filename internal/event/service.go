package event

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateEvent(ctx context.Context, e *MissionEvent) error
	GetEvent(ctx context.Context, id uuid.UUID) (*MissionEvent, error)
	UpdateEvent(ctx context.Context, e *MissionEvent) error
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	ListEvents(ctx context.Context) ([]*MissionEvent, error)
	ReplaceAllEvents(ctx context.Context, events []*MissionEvent) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name      string
	Type      Type
	StartDate time.Time
	EndDate   time.Time
	Notes     string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*MissionEvent, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("event name is required")
	}

	if params.EndDate.Before(params.StartDate) {
		return nil, fmt.Errorf("end date cannot be before start date")
	}

	e := &MissionEvent{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(params.Name),
		Type:      params.Type,
		StartDate: params.StartDate,
		EndDate:   params.EndDate,
		Notes:     params.Notes,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateEvent(ctx, e); err != nil {
		return nil, err
	}

	return e, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*MissionEvent, error) {
	return s.repo.GetEvent(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *MissionEvent) error {
	return s.repo.UpdateEvent(ctx, e)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteEvent(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*MissionEvent, error) {
	return s.repo.ListEvents(ctx)
}
