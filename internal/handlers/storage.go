package handlers

import (
	"context"

	"tenders/internal/service"
	"tenders/models"
)

// Core - операции сервиса, которые вызывают обработчики.
type Core interface {
	CreateTender(ctx context.Context, in service.CreateTenderInput) (*models.TenderSnapshot, error)
	ListTenders(ctx context.Context, serviceTypes []models.ServiceType, page service.Page) ([]models.TenderSnapshot, error)
	ListMyTenders(ctx context.Context, username string, page service.Page) ([]models.TenderSnapshot, error)
	TenderStatus(ctx context.Context, tenderID, username string) (models.TenderStatus, error)
	SetTenderStatus(ctx context.Context, tenderID, username string, status models.TenderStatus) (*models.TenderSnapshot, error)
	EditTender(ctx context.Context, tenderID, username string, patch models.TenderPatch) (*models.TenderSnapshot, error)
	RollbackTender(ctx context.Context, tenderID, username string, version int) (*models.TenderSnapshot, error)

	CreateBid(ctx context.Context, in service.CreateBidInput) (*models.BidSnapshot, error)
	ListMyBids(ctx context.Context, username string, page service.Page) ([]models.BidSnapshot, error)
	ListTenderBids(ctx context.Context, tenderID, username string, page service.Page) ([]models.BidSnapshot, error)
	BidStatus(ctx context.Context, bidID, username string) (models.BidStatus, error)
	SetBidStatus(ctx context.Context, bidID, username string, status models.BidStatus) (*models.BidSnapshot, error)
	EditBid(ctx context.Context, bidID, username string, patch models.BidPatch) (*models.BidSnapshot, error)
	RollbackBid(ctx context.Context, bidID, username string, version int) (*models.BidSnapshot, error)
	SubmitFeedback(ctx context.Context, bidID, username, feedback string) (*models.BidSnapshot, error)
	SubmitDecision(ctx context.Context, bidID, username string, decision models.DecisionType) (*models.BidSnapshot, error)
	BidReviews(ctx context.Context, tenderID, authorUsername, requesterUsername string, page service.Page) ([]models.BidReview, error)
}

var _ Core = (*service.Service)(nil)
