package database

import (
	"context"
	"fmt"
	"time"

	"tenders/db"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type tenderStore struct{}

var _ store.TenderStore = (*tenderStore)(nil)

// tenderRow - актуальная версия вместе с полями головной записи.
type tenderRow struct {
	models.TenderVersion
	Status         models.TenderStatus `db:"status"`
	OrganizationID uuid.UUID           `db:"organization_id"`
	CreatorID      uuid.UUID           `db:"creator_id"`
	HeadCreatedAt  time.Time           `db:"head_created_at"`
	HeadUpdatedAt  time.Time           `db:"head_updated_at"`
}

func (r tenderRow) snapshot() models.TenderSnapshot {
	return models.TenderSnapshot{
		Tender: models.Tender{
			ID:             r.TenderID,
			Status:         r.Status,
			OrganizationID: r.OrganizationID,
			CreatorID:      r.CreatorID,
			CreatedAt:      r.HeadCreatedAt,
			UpdatedAt:      r.HeadUpdatedAt,
		},
		Version: r.TenderVersion,
	}
}

const tenderSnapshotQuery = `
	SELECT v.*, t.status, t.organization_id, t.creator_id,
		t.created_at AS head_created_at, t.updated_at AS head_updated_at
	FROM tender_version v
	JOIN tender t ON t.id = v.tender_id
	WHERE v.actual = ?`

func (*tenderStore) listSnapshots(ctx context.Context, h db.Handler, query string, args ...any) ([]models.TenderSnapshot, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, err
	}
	var rows []tenderRow
	if err := h.SelectContext(ctx, &rows, h.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list tenders: %w", db.WrapError(err))
	}
	snapshots := make([]models.TenderSnapshot, 0, len(rows))
	for _, r := range rows {
		snapshots = append(snapshots, r.snapshot())
	}
	return snapshots, nil
}

// CreateTender implements store.TenderStore.
func (s *tenderStore) CreateTender(ctx context.Context, h db.Handler, t *models.Tender, v *models.TenderVersion) error {
	t.ID = uuid.New()
	t.Status = models.TenderCreated

	query := h.Rebind(`INSERT INTO tender (id, status, organization_id, creator_id) VALUES (?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, t.ID, t.Status, t.OrganizationID, t.CreatorID); err != nil {
		return fmt.Errorf("create tender: %w", db.WrapError(err))
	}
	if err := tenderChain.first(ctx, h, t.ID, v); err != nil {
		return err
	}

	created, err := s.FindTender(ctx, h, t.ID)
	if err != nil {
		return err
	}
	*t = *created

	current, err := tenderChain.current(ctx, h, t.ID)
	if err != nil {
		return err
	}
	*v = *current
	return nil
}

// FindTender implements store.TenderStore.
func (*tenderStore) FindTender(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Tender, error) {
	var t models.Tender
	query := h.Rebind(`SELECT * FROM tender WHERE id = ?`)
	if err := h.GetContext(ctx, &t, query, id); err != nil {
		return nil, fmt.Errorf("tender %s: %w", id, db.WrapError(err))
	}
	return &t, nil
}

// CurrentTenderVersion implements store.TenderStore.
func (*tenderStore) CurrentTenderVersion(ctx context.Context, h db.Handler, id uuid.UUID) (*models.TenderVersion, error) {
	return tenderChain.current(ctx, h, id)
}

// TenderVersion implements store.TenderStore.
func (*tenderStore) TenderVersion(ctx context.Context, h db.Handler, id uuid.UUID, version int) (*models.TenderVersion, error) {
	return tenderChain.at(ctx, h, id, version)
}

// TenderHistory implements store.TenderStore.
func (*tenderStore) TenderHistory(ctx context.Context, h db.Handler, id uuid.UUID) ([]models.TenderVersion, error) {
	return tenderChain.history(ctx, h, id)
}

// UpdateTender implements store.TenderStore.
func (*tenderStore) UpdateTender(ctx context.Context, h db.Handler, id uuid.UUID, patch models.TenderPatch) (*models.TenderVersion, error) {
	return tenderChain.advance(ctx, h, id, patch.Apply)
}

// SetTenderStatus implements store.TenderStore.
func (*tenderStore) SetTenderStatus(ctx context.Context, h db.Handler, id uuid.UUID, status models.TenderStatus) error {
	return tenderChain.setStatus(ctx, h, id, string(status))
}

// ListPublishedTenders implements store.TenderStore.
func (s *tenderStore) ListPublishedTenders(ctx context.Context, h db.Handler, serviceTypes []models.ServiceType, limit, offset int) ([]models.TenderSnapshot, error) {
	query := tenderSnapshotQuery + ` AND t.status = ?`
	args := []any{true, models.TenderPublished}
	if len(serviceTypes) > 0 {
		query += ` AND v.service_type IN (?)`
		args = append(args, serviceTypes)
	}
	query += ` ORDER BY v.name, t.id LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	return s.listSnapshots(ctx, h, query, args...)
}

// ListTendersByCreator implements store.TenderStore.
func (s *tenderStore) ListTendersByCreator(ctx context.Context, h db.Handler, creatorID uuid.UUID, limit, offset int) ([]models.TenderSnapshot, error) {
	query := tenderSnapshotQuery + ` AND t.creator_id = ? ORDER BY v.name, t.id LIMIT ? OFFSET ?`
	return s.listSnapshots(ctx, h, query, true, creatorID, limit, offset)
}
