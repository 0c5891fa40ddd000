package database

import (
	"context"
	"fmt"

	"tenders/db"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
)

type identityStore struct{}

var _ store.IdentityStore = (*identityStore)(nil)

// FindEmployeeByUsername implements store.IdentityStore.
func (*identityStore) FindEmployeeByUsername(ctx context.Context, h db.Handler, username string) (*models.Employee, error) {
	var e models.Employee
	query := h.Rebind(`SELECT * FROM employee WHERE username = ? LIMIT 1`)
	if err := h.GetContext(ctx, &e, query, username); err != nil {
		return nil, fmt.Errorf("employee %q: %w", username, db.WrapError(err))
	}
	return &e, nil
}

// FindEmployeeByID implements store.IdentityStore.
func (*identityStore) FindEmployeeByID(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Employee, error) {
	var e models.Employee
	query := h.Rebind(`SELECT * FROM employee WHERE id = ?`)
	if err := h.GetContext(ctx, &e, query, id); err != nil {
		return nil, fmt.Errorf("employee %s: %w", id, db.WrapError(err))
	}
	return &e, nil
}

// FindOrganizationByID implements store.IdentityStore.
func (*identityStore) FindOrganizationByID(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Organization, error) {
	var o models.Organization
	query := h.Rebind(`SELECT * FROM organization WHERE id = ?`)
	if err := h.GetContext(ctx, &o, query, id); err != nil {
		return nil, fmt.Errorf("organization %s: %w", id, db.WrapError(err))
	}
	return &o, nil
}

// IsResponsible implements store.IdentityStore.
func (*identityStore) IsResponsible(ctx context.Context, h db.Handler, organizationID, employeeID uuid.UUID) (bool, error) {
	var count int
	query := h.Rebind(`SELECT COUNT(1) FROM organization_responsible WHERE organization_id = ? AND user_id = ?`)
	if err := h.GetContext(ctx, &count, query, organizationID, employeeID); err != nil {
		return false, fmt.Errorf("responsible lookup: %w", db.WrapError(err))
	}
	return count > 0, nil
}

// CreateEmployee implements store.IdentityStore.
func (s *identityStore) CreateEmployee(ctx context.Context, h db.Handler, e *models.Employee) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	query := h.Rebind(`INSERT INTO employee (id, username, first_name, last_name) VALUES (?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, e.ID, e.Username, e.FirstName, e.LastName); err != nil {
		return fmt.Errorf("create employee: %w", db.WrapError(err))
	}
	created, err := s.FindEmployeeByID(ctx, h, e.ID)
	if err != nil {
		return err
	}
	*e = *created
	return nil
}

// CreateOrganization implements store.IdentityStore.
func (s *identityStore) CreateOrganization(ctx context.Context, h db.Handler, o *models.Organization) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	query := h.Rebind(`INSERT INTO organization (id, name, description, type) VALUES (?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, o.ID, o.Name, o.Description, o.Type); err != nil {
		return fmt.Errorf("create organization: %w", db.WrapError(err))
	}
	created, err := s.FindOrganizationByID(ctx, h, o.ID)
	if err != nil {
		return err
	}
	*o = *created
	return nil
}

// AddResponsible implements store.IdentityStore.
func (*identityStore) AddResponsible(ctx context.Context, h db.Handler, organizationID, employeeID uuid.UUID) error {
	query := h.Rebind(`INSERT INTO organization_responsible (id, organization_id, user_id) VALUES (?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, uuid.New(), organizationID, employeeID); err != nil {
		return fmt.Errorf("add responsible: %w", db.WrapError(err))
	}
	return nil
}
