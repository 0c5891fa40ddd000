package service

import (
	"context"
	"errors"

	"tenders/db"
	"tenders/internal/domain"
	"tenders/models"

	"github.com/google/uuid"
)

// FindEmployeeByUsername ищет сотрудника по имени пользователя.
func (s *Service) FindEmployeeByUsername(ctx context.Context, username string) (*models.Employee, error) {
	return s.employee(ctx, s.db, username)
}

func (s *Service) FindEmployeeByID(ctx context.Context, id uuid.UUID) (*models.Employee, error) {
	e, err := s.store.FindEmployeeByID(ctx, s.db, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such employee", err)
	}
	return e, err
}

func (s *Service) FindOrganizationByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o, err := s.store.FindOrganizationByID(ctx, s.db, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such organization", err)
	}
	return o, err
}

// IsResponsible сообщает, отвечает ли сотрудник за организацию.
func (s *Service) IsResponsible(ctx context.Context, organizationID, employeeID uuid.UUID) (bool, error) {
	return s.store.IsResponsible(ctx, s.db, organizationID, employeeID)
}
