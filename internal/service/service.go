// Package service - бизнес-операции над тендерами и предложениями.
// Каждая операция выполняется в одной транзакции: проверка прав,
// изменение цепочки версий и чтение результата видят одно состояние базы.
package service

import (
	"context"
	"errors"

	"tenders/db"
	"tenders/internal/access"
	"tenders/internal/domain"
	"tenders/internal/store"
	"tenders/models"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const reasonForbidden = "you don't have permission to access this resource"

// Service реализует операции, которые вызывает HTTP-слой.
type Service struct {
	db       *db.DB
	store    store.Store
	access   *access.Resolver
	validate *validator.Validate
}

func New(dbx *db.DB, s store.Store) *Service {
	return &Service{
		db:       dbx,
		store:    s,
		access:   access.New(s),
		validate: validator.New(),
	}
}

// Page - параметры постраничной выдачи.
type Page struct {
	Limit  int `validate:"min=0,max=50"`
	Offset int `validate:"min=0"`
}

// DefaultPage - пять записей с начала списка.
var DefaultPage = Page{Limit: 5}

func (s *Service) check(v any) error {
	if err := s.validate.Struct(v); err != nil {
		return domain.Wrap(domain.KindInvalid, "validation error: "+err.Error(), err)
	}
	return nil
}

// employee находит сотрудника по имени. Отсутствие - ошибка аутентификации.
func (s *Service) employee(ctx context.Context, h db.Handler, username string) (*models.Employee, error) {
	e, err := s.store.FindEmployeeByUsername(ctx, h, username)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindUnauthenticated, "no employee found with such username", err)
	}
	return e, err
}

func parseTenderID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.Wrap(domain.KindNotFound, "invalid tender_id", err)
	}
	return u, nil
}

func parseBidID(id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, domain.Wrap(domain.KindNotFound, "invalid bid_id", err)
	}
	return u, nil
}

func (s *Service) tender(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Tender, error) {
	t, err := s.store.FindTender(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such tender found", err)
	}
	return t, err
}

func (s *Service) bid(ctx context.Context, h db.Handler, id uuid.UUID) (*models.Bid, error) {
	b, err := s.store.FindBid(ctx, h, id)
	if errors.Is(err, db.ErrRecordNotFound) {
		return nil, domain.Wrap(domain.KindNotFound, "no such bid found", err)
	}
	return b, err
}

// deny учитывает отказ в метриках и возвращает Forbidden.
func deny(entity, mode string) error {
	accessDenied.WithLabelValues(entity, mode).Inc()
	return domain.Forbidden(reasonForbidden)
}

// storeError классифицирует ошибки хранилища, которые может вызвать клиент.
func storeError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, db.ErrRecordNotFound):
		return domain.Wrap(domain.KindNotFound, "object not found", err)
	case errors.Is(err, store.ErrVersionConflict):
		return domain.Wrap(domain.KindConflict, "entity was modified concurrently, retry the request", err)
	case errors.Is(err, db.ErrDuplicateKey):
		return domain.Wrap(domain.KindConflict, "conflict", err)
	default:
		return err
	}
}

// tx выполняет fn в транзакции и классифицирует ошибки хранилища,
// которые бизнес-логика не обработала сама.
func (s *Service) tx(ctx context.Context, fn func(h db.Handler) error) error {
	err := s.db.TransactionContext(ctx, func(tx *db.Tx) error {
		return fn(tx)
	})
	if err != nil && domain.KindOf(err) == domain.KindInternal {
		return storeError(err)
	}
	return err
}

// HasTenderReadAccess проверяет право сотрудника видеть тендер.
func (s *Service) HasTenderReadAccess(ctx context.Context, tenderID, actorID uuid.UUID) (bool, error) {
	return s.access.CanReadTender(ctx, s.db, tenderID, actorID)
}

func (s *Service) HasTenderWriteAccess(ctx context.Context, tenderID, actorID uuid.UUID) (bool, error) {
	return s.access.CanWriteTender(ctx, s.db, tenderID, actorID)
}

func (s *Service) HasBidReadAccess(ctx context.Context, bidID, actorID uuid.UUID) (bool, error) {
	return s.access.CanReadBid(ctx, s.db, bidID, actorID)
}

func (s *Service) HasBidWriteAccess(ctx context.Context, bidID, actorID uuid.UUID) (bool, error) {
	return s.access.CanWriteBid(ctx, s.db, bidID, actorID)
}
