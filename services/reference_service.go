package services

import (
	"context"
	"fmt"
	"strings"

	"jibal-shipping/apperror"
	"jibal-shipping/repositories"
)

// ReferenceService manages the lookup tables. Shipments refer to rows by id, so a
// rename shows up everywhere and a row in use cannot be deleted.
type ReferenceService struct {
	repo *repositories.ReferenceRepository
}

func NewReferenceService(repo *repositories.ReferenceRepository) *ReferenceService {
	return &ReferenceService{repo: repo}
}

func (s *ReferenceService) List(ctx context.Context, kind repositories.ReferenceKind) ([]repositories.ReferenceRow, error) {
	return s.repo.List(ctx, kind)
}

func (s *ReferenceService) Create(ctx context.Context, kind repositories.ReferenceKind, name string) (*repositories.ReferenceRow, error) {
	name, err := s.checkName(ctx, kind, name, 0)
	if err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, kind, name)
}

func (s *ReferenceService) Rename(ctx context.Context, kind repositories.ReferenceKind, id uint, name string) (*repositories.ReferenceRow, error) {
	name, err := s.checkName(ctx, kind, name, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Rename(ctx, kind, id, name); err != nil {
		return nil, notFoundOr(err, kind.Entity, id)
	}
	row, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		return nil, notFoundOr(err, kind.Entity, id)
	}
	return row, nil
}

func (s *ReferenceService) Delete(ctx context.Context, kind repositories.ReferenceKind, id uint) error {
	if _, err := s.repo.Get(ctx, kind, id); err != nil {
		return notFoundOr(err, kind.Entity, id)
	}
	inUse, err := s.repo.InUse(ctx, kind, id)
	if err != nil {
		return err
	}
	if inUse {
		return apperror.NewConflict(fmt.Sprintf("%s %d is still used by shipments", kind.Entity, id)).
			WithDetail("id", id)
	}
	return notFoundOr(s.repo.Delete(ctx, kind, id), kind.Entity, id)
}

func (s *ReferenceService) checkName(ctx context.Context, kind repositories.ReferenceKind, name string, excludeID uint) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperror.NewMissingFields([]string{"name"})
	}
	taken, err := s.repo.NameTaken(ctx, kind, name, excludeID)
	if err != nil {
		return "", err
	}
	if taken {
		return "", apperror.NewDuplicateKey(kind.Entity, "name", name)
	}
	return name, nil
}
