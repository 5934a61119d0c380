package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/europemission/martha/internal/period"
)

type Repository interface {
	CreateDocument(ctx context.Context, d *GeneratedDocument) error
	ListDocuments(ctx context.Context, year *int) ([]*GeneratedDocument, error)
	ReplaceAllDocuments(ctx context.Context, docs []*GeneratedDocument) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type RecordParams struct {
	Type    Type
	Title   string
	Quarter *period.Quarter
	Year    int
	Data    string
}

// Record appends an export to the audit trail.
func (s *Service) Record(ctx context.Context, params RecordParams) (*GeneratedDocument, error) {
	d := &GeneratedDocument{
		ID:          uuid.New(),
		Type:        params.Type,
		Title:       params.Title,
		Quarter:     params.Quarter,
		Year:        params.Year,
		Data:        params.Data,
		GeneratedAt: time.Now().UTC(),
	}

	if err := s.repo.CreateDocument(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) List(ctx context.Context, year *int) ([]*GeneratedDocument, error) {
	return s.repo.ListDocuments(ctx, year)
}
