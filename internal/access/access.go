// Package access вычисляет права сотрудника на чтение и изменение
// тендеров и предложений. Все проверки только читают данные.
package access

import (
	"context"
	"errors"

	"tenders/db"
	"tenders/internal/domain"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
)

// Resolver проверяет права по статусу сущности и членству в организации.
type Resolver struct {
	store store.Store
}

func New(s store.Store) *Resolver {
	return &Resolver{store: s}
}

func (r *Resolver) tender(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Tender, error) {
	t, err := r.store.FindTender(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such tender found", err)
	}
	return t, err
}

func (r *Resolver) bid(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Bid, error) {
	b, err := r.store.FindBid(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such bid found", err)
	}
	return b, err
}

// CanReadTender: опубликованный тендер виден всем, остальные - только
// ответственным за организацию тендера.
func (r *Resolver) CanReadTender(ctx context.Context, h db.Handler, tenderID, actorID uuid.UUID) (bool, error) {
	t, err := r.tender(ctx, h, tenderID)
	if err != nil {
		return false, err
	}
	return r.ReadTender(ctx, h, t, actorID)
}

// CanWriteTender: менять тендер может только ответственный за его организацию.
func (r *Resolver) CanWriteTender(ctx context.Context, h db.Handler, tenderID, actorID uuid.UUID) (bool, error) {
	t, err := r.tender(ctx, h, tenderID)
	if err != nil {
		return false, err
	}
	return r.WriteTender(ctx, h, t, actorID)
}

// CanReadBid: автор видит свое предложение всегда, организация тендера -
// только опубликованное.
func (r *Resolver) CanReadBid(ctx context.Context, h db.Handler, bidID, actorID uuid.UUID) (bool, error) {
	b, err := r.bid(ctx, h, bidID)
	if err != nil {
		return false, err
	}
	return r.ReadBid(ctx, h, b, actorID)
}

// CanWriteBid: менять предложение может только его автор.
func (r *Resolver) CanWriteBid(ctx context.Context, h db.Handler, bidID, actorID uuid.UUID) (bool, error) {
	b, err := r.bid(ctx, h, bidID)
	if err != nil {
		return false, err
	}
	return r.WriteBid(ctx, h, b, actorID)
}

// ReadTender - то же, что CanReadTender, для уже загруженного тендера.
func (r *Resolver) ReadTender(ctx context.Context, h db.Handler, t *models.Tender, actorID uuid.UUID) (bool, error) {
	if t.Status == models.TenderPublished {
		return true, nil
	}
	return r.WriteTender(ctx, h, t, actorID)
}

func (r *Resolver) WriteTender(ctx context.Context, h db.Handler, t *models.Tender, actorID uuid.UUID) (bool, error) {
	return r.store.IsResponsible(ctx, h, t.OrganizationID, actorID)
}

func (r *Resolver) ReadBid(ctx context.Context, h db.Handler, b *models.Bid, actorID uuid.UUID) (bool, error) {
	ok, err := r.WriteBid(ctx, h, b, actorID)
	if err != nil || ok {
		return ok, err
	}
	if b.Status != models.BidPublished {
		return false, nil
	}

	t, err := r.tender(ctx, h, b.TenderID)
	if err != nil {
		return false, err
	}
	return r.store.IsResponsible(ctx, h, t.OrganizationID, actorID)
}

func (r *Resolver) WriteBid(ctx context.Context, h db.Handler, b *models.Bid, actorID uuid.UUID) (bool, error) {
	switch a := b.Author().(type) {
	case models.UserAuthor:
		return a.EmployeeID == actorID, nil
	case models.OrganizationAuthor:
		return r.store.IsResponsible(ctx, h, a.OrganizationID, actorID)
	default:
		// неизвестный тип автора не дает прав никому
		return false, nil
	}
}
