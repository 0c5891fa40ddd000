package store

import (
	"context"

	"tenders/db"
	"tenders/models"

	"github.com/google/uuid"
)

// TenderStore - тендеры и их версии.
type TenderStore interface {
	// CreateTender записывает головную запись и первую версию.
	CreateTender(ctx context.Context, h db.Handler, t *models.Tender, v *models.TenderVersion) error
	FindTender(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Tender, error)
	CurrentTenderVersion(ctx context.Context, h db.Handler, id uuid.UUID) (*models.TenderVersion, error)
	TenderVersion(ctx context.Context, h db.Handler, id uuid.UUID, version int) (*models.TenderVersion, error)
	TenderHistory(ctx context.Context, h db.Handler, id uuid.UUID) ([]models.TenderVersion, error)
	// UpdateTender снимает флаг actual с текущей версии и добавляет следующую.
	UpdateTender(ctx context.Context, h db.Handler, id uuid.UUID, patch models.TenderPatch) (*models.TenderVersion, error)
	SetTenderStatus(ctx context.Context, h db.Handler, id uuid.UUID, status models.TenderStatus) error

	ListPublishedTenders(ctx context.Context, h db.Handler, serviceTypes []models.ServiceType, limit, offset int) ([]models.TenderSnapshot, error)
	ListTendersByCreator(ctx context.Context, h db.Handler, creatorID uuid.UUID, limit, offset int) ([]models.TenderSnapshot, error)
}
