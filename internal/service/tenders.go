package service

import (
	"context"
	"errors"

	"tenders/db"
	"tenders/internal/domain"
	"tenders/models"

	"github.com/google/uuid"
)

// CreateTenderInput - данные для создания тендера.
type CreateTenderInput struct {
	Name            string             `json:"name" validate:"required,max=100"`
	Description     string             `json:"description" validate:"max=500"`
	ServiceType     models.ServiceType `json:"serviceType" validate:"required,oneof=Construction Delivery Manufacture"`
	OrganizationID  string             `json:"organizationId" validate:"required"`
	CreatorUsername string             `json:"creatorUsername" validate:"required"`
}

// CreateTender создает тендер от имени организации. Создатель должен
// быть ответственным за нее.
func (s *Service) CreateTender(ctx context.Context, in CreateTenderInput) (*models.TenderSnapshot, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var snap models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		creator, err := s.employee(ctx, h, in.CreatorUsername)
		if err != nil {
			return err
		}

		orgID, err := uuid.Parse(in.OrganizationID)
		if err != nil {
			return domain.Wrap(domain.KindUnauthenticated, "invalid organization id", err)
		}
		org, err := s.store.FindOrganizationByID(ctx, h, orgID)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domain.Wrap(domain.KindUnauthenticated, "no such organization", err)
		} else if err != nil {
			return err
		}

		ok, err := s.store.IsResponsible(ctx, h, org.ID, creator.ID)
		if err != nil {
			return err
		}
		if !ok {
			accessDenied.WithLabelValues("tender", "create").Inc()
			return domain.Forbidden("you are not responsible for this organization")
		}

		snap.Tender = models.Tender{OrganizationID: org.ID, CreatorID: creator.ID}
		snap.Version = models.TenderVersion{Name: in.Name, Description: in.Description, ServiceType: in.ServiceType}
		return s.store.CreateTender(ctx, h, &snap.Tender, &snap.Version)
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("tender").Inc()
	return &snap, nil
}

// ListTenders возвращает опубликованные тендеры, при необходимости
// только с указанными типами услуг.
func (s *Service) ListTenders(ctx context.Context, serviceTypes []models.ServiceType, page Page) ([]models.TenderSnapshot, error) {
	if err := s.check(page); err != nil {
		return nil, err
	}
	for _, st := range serviceTypes {
		if !st.Valid() {
			return nil, domain.Invalid("validation error: unknown service type " + string(st))
		}
	}

	var list []models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) (err error) {
		list, err = s.store.ListPublishedTenders(ctx, h, serviceTypes, page.Limit, page.Offset)
		return err
	})
	return list, err
}

// ListMyTenders возвращает тендеры, созданные сотрудником. Без имени
// пользователя список пустой.
func (s *Service) ListMyTenders(ctx context.Context, username string, page Page) ([]models.TenderSnapshot, error) {
	if err := s.check(page); err != nil {
		return nil, err
	}
	if username == "" {
		return []models.TenderSnapshot{}, nil
	}

	var list []models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		e, err := s.employee(ctx, h, username)
		if err != nil {
			return err
		}
		list, err = s.store.ListTendersByCreator(ctx, h, e.ID, page.Limit, page.Offset)
		return err
	})
	return list, err
}

// TenderStatus возвращает статус тендера. Пустое имя пользователя -
// анонимный запрос, ему видны только опубликованные тендеры.
func (s *Service) TenderStatus(ctx context.Context, tenderID, username string) (models.TenderStatus, error) {
	var status models.TenderStatus
	err := s.tx(ctx, func(h db.Handler) error {
		actorID := uuid.Nil
		if username != "" {
			e, err := s.employee(ctx, h, username)
			if err != nil {
				return err
			}
			actorID = e.ID
		}

		id, err := parseTenderID(tenderID)
		if err != nil {
			return err
		}
		t, err := s.tender(ctx, h, id)
		if err != nil {
			return err
		}

		ok, err := s.access.ReadTender(ctx, h, t, actorID)
		if err != nil {
			return err
		}
		if !ok {
			return deny("tender", "read")
		}
		status = t.Status
		return nil
	})
	return status, err
}

// writableTender загружает тендер, который сотрудник вправе менять.
func (s *Service) writableTender(ctx context.Context, h db.Handler, tenderID, username string) (*models.Tender, error) {
	e, err := s.employee(ctx, h, username)
	if err != nil {
		return nil, err
	}
	id, err := parseTenderID(tenderID)
	if err != nil {
		return nil, err
	}
	t, err := s.tender(ctx, h, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.WriteTender(ctx, h, t, e.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, deny("tender", "write")
	}
	return t, nil
}

func (s *Service) tenderSnapshot(ctx context.Context, h db.Handler, id uuid.UUID) (*models.TenderSnapshot, error) {
	t, err := s.tender(ctx, h, id)
	if err != nil {
		return nil, err
	}
	v, err := s.store.CurrentTenderVersion(ctx, h, id)
	if err != nil {
		return nil, err
	}
	return &models.TenderSnapshot{Tender: *t, Version: *v}, nil
}

// SetTenderStatus меняет статус тендера. Допустим любой переход между
// известными статусами.
func (s *Service) SetTenderStatus(ctx context.Context, tenderID, username string, status models.TenderStatus) (*models.TenderSnapshot, error) {
	if !status.Valid() {
		return nil, domain.Invalid("validation error: unknown tender status " + string(status))
	}

	var snap *models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		t, err := s.writableTender(ctx, h, tenderID, username)
		if err != nil {
			return err
		}
		if err := s.store.SetTenderStatus(ctx, h, t.ID, status); err != nil {
			return err
		}
		snap, err = s.tenderSnapshot(ctx, h, t.ID)
		return err
	})
	return snap, err
}

// EditTender добавляет новую версию тендера. Не переданные поля
// переносятся из текущей версии.
func (s *Service) EditTender(ctx context.Context, tenderID, username string, patch models.TenderPatch) (*models.TenderSnapshot, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}

	var snap *models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		t, err := s.writableTender(ctx, h, tenderID, username)
		if err != nil {
			return err
		}
		snap, err = s.updateTender(ctx, h, t, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("tender").Inc()
	return snap, nil
}

// RollbackTender записывает содержимое старой версии как новую.
// Номер версии при этом только растет.
func (s *Service) RollbackTender(ctx context.Context, tenderID, username string, version int) (*models.TenderSnapshot, error) {
	if version < 1 {
		return nil, domain.Invalid("validation error: version must be greater than or equal to 1")
	}

	var snap *models.TenderSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		t, err := s.writableTender(ctx, h, tenderID, username)
		if err != nil {
			return err
		}

		old, err := s.store.TenderVersion(ctx, h, t.ID, version)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domain.Wrap(domain.KindNotFound, "no such tender version found", err)
		} else if err != nil {
			return err
		}

		snap, err = s.updateTender(ctx, h, t, old.Patch())
		return err
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("tender").Inc()
	return snap, nil
}

func (s *Service) updateTender(ctx context.Context, h db.Handler, t *models.Tender, patch models.TenderPatch) (*models.TenderSnapshot, error) {
	v, err := s.store.UpdateTender(ctx, h, t.ID, patch)
	if err != nil {
		return nil, err
	}
	return &models.TenderSnapshot{Tender: *t, Version: *v}, nil
}
