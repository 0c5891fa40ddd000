package store

import (
	"context"

	"tenders/db"
	"tenders/models"

	"github.com/google/uuid"
)

// BidStore - предложения, их версии, отзывы и решения.
type BidStore interface {
	CreateBid(ctx context.Context, h db.Handler, b *models.Bid, v *models.BidVersion) error
	FindBid(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Bid, error)
	CurrentBidVersion(ctx context.Context, h db.Handler, id uuid.UUID) (*models.BidVersion, error)
	BidVersion(ctx context.Context, h db.Handler, id uuid.UUID, version int) (*models.BidVersion, error)
	BidHistory(ctx context.Context, h db.Handler, id uuid.UUID) ([]models.BidVersion, error)
	UpdateBid(ctx context.Context, h db.Handler, id uuid.UUID, patch models.BidPatch) (*models.BidVersion, error)
	SetBidStatus(ctx context.Context, h db.Handler, id uuid.UUID, status models.BidStatus) error

	ListPublishedBids(ctx context.Context, h db.Handler, tenderID uuid.UUID, limit, offset int) ([]models.BidSnapshot, error)
	ListBidsByUser(ctx context.Context, h db.Handler, employeeID uuid.UUID, limit, offset int) ([]models.BidSnapshot, error)

	CreateBidReview(ctx context.Context, h db.Handler, r *models.BidReview) error
	ListBidReviews(ctx context.Context, h db.Handler, tenderID, authorID uuid.UUID, limit, offset int) ([]models.BidReview, error)

	// CreateBidDecision возвращает db.ErrDuplicateKey, если сотрудник уже принял решение.
	CreateBidDecision(ctx context.Context, h db.Handler, d *models.BidDecision) error
	ListBidDecisions(ctx context.Context, h db.Handler, bidID uuid.UUID) ([]models.BidDecision, error)
}
