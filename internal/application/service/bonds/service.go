package bonds

import (
	"context"
	"errors"

	domain "main/internal/domain/entity/bond"
	"main/internal/domain/interfaces"

	"github.com/google/uuid"
)

var ErrNilBond = errors.New("bond definition is nil")

// Service exposes CRUD over stored bond definitions.
type Service struct {
	repo interfaces.BondsRepository
}

func NewService(repo interfaces.BondsRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateBond(ctx context.Context, def *domain.Definition) error {
	if def == nil {
		return ErrNilBond
	}
	return s.repo.CreateBond(ctx, def)
}

func (s *Service) GetBond(ctx context.Context, uid uuid.UUID) (*domain.Definition, error) {
	return s.repo.GetBond(ctx, uid)
}

func (s *Service) UpdateBond(ctx context.Context, def *domain.Definition) error {
	if def == nil {
		return ErrNilBond
	}
	return s.repo.UpdateBond(ctx, def)
}

func (s *Service) DeleteBond(ctx context.Context, uid uuid.UUID) error {
	return s.repo.DeleteBond(ctx, uid)
}

func (s *Service) ListBonds(ctx context.Context) ([]domain.Definition, error) {
	return s.repo.ListBonds(ctx)
}

func (s *Service) Close() {
	s.repo.Close()
}
