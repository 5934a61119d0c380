package circuit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateCircuit(ctx context.Context, c *Circuit) error
	GetCircuit(ctx context.Context, id uuid.UUID) (*Circuit, error)
	UpdateCircuit(ctx context.Context, c *Circuit) error
	DeleteCircuit(ctx context.Context, id uuid.UUID) error
	ListCircuits(ctx context.Context) ([]*Circuit, error)
	ReplaceAllCircuits(ctx context.Context, circuits []*Circuit) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	Name          string
	Country       string
	SubBranches   []string
	ContactPerson string
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Circuit, error) {
	if strings.TrimSpace(params.Name) == "" {
		return nil, fmt.Errorf("circuit name is required")
	}

	c := &Circuit{
		ID:            uuid.New(),
		Name:          strings.TrimSpace(params.Name),
		Country:       strings.TrimSpace(params.Country),
		SubBranches:   params.SubBranches,
		ContactPerson: params.ContactPerson,
		Active:        true,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.repo.CreateCircuit(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Circuit, error) {
	return s.repo.GetCircuit(ctx, id)
}

func (s *Service) Update(ctx context.Context, c *Circuit) error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("circuit name is required")
	}

	return s.repo.UpdateCircuit(ctx, c)
}

// Delete removes a circuit. Transactions referencing it are left untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCircuit(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Circuit, error) {
	return s.repo.ListCircuits(ctx)
}
