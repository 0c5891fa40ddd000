package database

import (
	"context"
	"fmt"
	"time"

	"tenders/db"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
)

type bidStore struct{}

var _ store.BidStore = (*bidStore)(nil)

type bidRow struct {
	models.BidVersion
	Status        models.BidStatus  `db:"status"`
	TenderID      uuid.UUID         `db:"head_tender_id"`
	AuthorType    models.AuthorType `db:"author_type"`
	AuthorID      uuid.UUID         `db:"author_id"`
	HeadCreatedAt time.Time         `db:"head_created_at"`
	HeadUpdatedAt time.Time         `db:"head_updated_at"`
}

func (r bidRow) snapshot() models.BidSnapshot {
	return models.BidSnapshot{
		Bid: models.Bid{
			ID:         r.BidID,
			Status:     r.Status,
			TenderID:   r.TenderID,
			AuthorType: r.AuthorType,
			AuthorID:   r.AuthorID,
			CreatedAt:  r.HeadCreatedAt,
			UpdatedAt:  r.HeadUpdatedAt,
		},
		Version: r.BidVersion,
	}
}

const bidSnapshotQuery = `
	SELECT v.*, b.status, b.tender_id AS head_tender_id, b.author_type, b.author_id,
		b.created_at AS head_created_at, b.updated_at AS head_updated_at
	FROM bid_version v
	JOIN bid b ON b.id = v.bid_id
	WHERE v.actual = ?`

func (*bidStore) listSnapshots(ctx context.Context, h db.Handler, query string, args ...any) ([]models.BidSnapshot, error) {
	var rows []bidRow
	if err := h.SelectContext(ctx, &rows, h.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("list bids: %w", db.WrapError(err))
	}
	snapshots := make([]models.BidSnapshot, 0, len(rows))
	for _, r := range rows {
		snapshots = append(snapshots, r.snapshot())
	}
	return snapshots, nil
}

// CreateBid implements store.BidStore.
func (s *bidStore) CreateBid(ctx context.Context, h db.Handler, b *models.Bid, v *models.BidVersion) error {
	b.ID = uuid.New()
	b.Status = models.BidCreated

	query := h.Rebind(`INSERT INTO bid (id, status, tender_id, author_type, author_id) VALUES (?, ?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, b.ID, b.Status, b.TenderID, b.AuthorType, b.AuthorID); err != nil {
		return fmt.Errorf("create bid: %w", db.WrapError(err))
	}
	if err := bidChain.first(ctx, h, b.ID, v); err != nil {
		return err
	}

	created, err := s.FindBid(ctx, h, b.ID)
	if err != nil {
		return err
	}
	*b = *created

	current, err := bidChain.current(ctx, h, b.ID)
	if err != nil {
		return err
	}
	*v = *current
	return nil
}

// FindBid implements store.BidStore.
func (*bidStore) FindBid(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Bid, error) {
	var b models.Bid
	query := h.Rebind(`SELECT * FROM bid WHERE id = ?`)
	if err := h.GetContext(ctx, &b, query, id); err != nil {
		return nil, fmt.Errorf("bid %s: %w", id, db.WrapError(err))
	}
	return &b, nil
}

// CurrentBidVersion implements store.BidStore.
func (*bidStore) CurrentBidVersion(ctx context.Context, h db.Handler, id uuid.UUID) (*models.BidVersion, error) {
	return bidChain.current(ctx, h, id)
}

// BidVersion implements store.BidStore.
func (*bidStore) BidVersion(ctx context.Context, h db.Handler, id uuid.UUID, version int) (*models.BidVersion, error) {
	return bidChain.at(ctx, h, id, version)
}

// BidHistory implements store.BidStore.
func (*bidStore) BidHistory(ctx context.Context, h db.Handler, id uuid.UUID) ([]models.BidVersion, error) {
	return bidChain.history(ctx, h, id)
}

// UpdateBid implements store.BidStore.
func (*bidStore) UpdateBid(ctx context.Context, h db.Handler, id uuid.UUID, patch models.BidPatch) (*models.BidVersion, error) {
	return bidChain.advance(ctx, h, id, patch.Apply)
}

// SetBidStatus implements store.BidStore.
func (*bidStore) SetBidStatus(ctx context.Context, h db.Handler, id uuid.UUID, status models.BidStatus) error {
	return bidChain.setStatus(ctx, h, id, string(status))
}

// ListPublishedBids implements store.BidStore.
func (s *bidStore) ListPublishedBids(ctx context.Context, h db.Handler, tenderID uuid.UUID, limit, offset int) ([]models.BidSnapshot, error) {
	query := bidSnapshotQuery + ` AND b.status = ? AND b.tender_id = ? ORDER BY v.name, b.id LIMIT ? OFFSET ?`
	return s.listSnapshots(ctx, h, query, true, models.BidPublished, tenderID, limit, offset)
}

// ListBidsByUser implements store.BidStore.
func (s *bidStore) ListBidsByUser(ctx context.Context, h db.Handler, employeeID uuid.UUID, limit, offset int) ([]models.BidSnapshot, error) {
	query := bidSnapshotQuery + ` AND b.author_type = ? AND b.author_id = ? ORDER BY v.name, b.id LIMIT ? OFFSET ?`
	return s.listSnapshots(ctx, h, query, true, models.AuthorUser, employeeID, limit, offset)
}

// CreateBidReview implements store.BidStore.
func (*bidStore) CreateBidReview(ctx context.Context, h db.Handler, r *models.BidReview) error {
	r.ID = uuid.New()
	query := h.Rebind(`INSERT INTO bid_review (id, bid_id, author_id, description) VALUES (?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, r.ID, r.BidID, r.AuthorID, r.Description); err != nil {
		return fmt.Errorf("create bid review: %w", db.WrapError(err))
	}
	if err := h.GetContext(ctx, r, h.Rebind(`SELECT * FROM bid_review WHERE id = ?`), r.ID); err != nil {
		return fmt.Errorf("bid review %s: %w", r.ID, db.WrapError(err))
	}
	return nil
}

// ListBidReviews implements store.BidStore.
func (*bidStore) ListBidReviews(ctx context.Context, h db.Handler, tenderID, authorID uuid.UUID, limit, offset int) ([]models.BidReview, error) {
	query := h.Rebind(`
		SELECT r.*
		FROM bid_review r
		JOIN bid b ON b.id = r.bid_id
		WHERE b.tender_id = ? AND b.author_type = ? AND b.author_id = ?
		ORDER BY r.created_at, r.id
		LIMIT ? OFFSET ?`)
	reviews := []models.BidReview{}
	if err := h.SelectContext(ctx, &reviews, query, tenderID, models.AuthorUser, authorID, limit, offset); err != nil {
		return nil, fmt.Errorf("list bid reviews: %w", db.WrapError(err))
	}
	return reviews, nil
}

// CreateBidDecision implements store.BidStore.
func (*bidStore) CreateBidDecision(ctx context.Context, h db.Handler, d *models.BidDecision) error {
	d.ID = uuid.New()
	query := h.Rebind(`INSERT INTO bid_decision (id, bid_id, author_id, decision) VALUES (?, ?, ?, ?)`)
	if _, err := h.ExecContext(ctx, query, d.ID, d.BidID, d.AuthorID, d.Decision); err != nil {
		return fmt.Errorf("create bid decision: %w", db.WrapError(err))
	}
	return nil
}

// ListBidDecisions implements store.BidStore.
func (*bidStore) ListBidDecisions(ctx context.Context, h db.Handler, bidID uuid.UUID) ([]models.BidDecision, error) {
	decisions := []models.BidDecision{}
	query := h.Rebind(`SELECT * FROM bid_decision WHERE bid_id = ? ORDER BY created_at, id`)
	if err := h.SelectContext(ctx, &decisions, query, bidID); err != nil {
		return nil, fmt.Errorf("list bid decisions: %w", db.WrapError(err))
	}
	return decisions, nil
}
