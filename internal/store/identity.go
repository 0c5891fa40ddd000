package store

import (
	"context"

	"tenders/db"
	"tenders/models"

	"github.com/google/uuid"
)

// IdentityStore - сотрудники, организации и ответственные.
// Сервис только читает эти данные, запись нужна для начального заполнения и тестов.
type IdentityStore interface {
	FindEmployeeByUsername(ctx context.Context, h db.Handler, username string) (*models.Employee, error)
	FindEmployeeByID(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Employee, error)
	FindOrganizationByID(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Organization, error)
	IsResponsible(ctx context.Context, h db.Handler, organizationID, employeeID uuid.UUID) (bool, error)

	CreateEmployee(ctx context.Context, h db.Handler, e *models.Employee) error
	CreateOrganization(ctx context.Context, h db.Handler, o *models.Organization) error
	AddResponsible(ctx context.Context, h db.Handler, organizationID, employeeID uuid.UUID) error
}
