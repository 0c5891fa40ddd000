package service

import (
	"context"
	"errors"

	"tenders/db"
	"tenders/internal/domain"
	"tenders/models"

	"github.com/google/uuid"
)

// CreateBidInput - данные для создания предложения.
type CreateBidInput struct {
	Name        string            `json:"name" validate:"required,max=100"`
	Description string            `json:"description" validate:"max=500"`
	TenderID    string            `json:"tenderId" validate:"required"`
	AuthorType  models.AuthorType `json:"authorType" validate:"required,oneof=Organization User"`
	AuthorID    string            `json:"authorId" validate:"required"`
}

// Feedback - текст отзыва на предложение.
type Feedback struct {
	Text string `validate:"required,max=1000"`
}

// CreateBid подает предложение на опубликованный тендер.
func (s *Service) CreateBid(ctx context.Context, in CreateBidInput) (*models.BidSnapshot, error) {
	if err := s.check(in); err != nil {
		return nil, err
	}

	var snap models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		tenderID, err := uuid.Parse(in.TenderID)
		if err != nil {
			return domain.Wrap(domain.KindNotFound, "tender id invalid", err)
		}
		t, err := s.store.FindTender(ctx, h, tenderID)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domain.Wrap(domain.KindNotFound, "tender not found", err)
		} else if err != nil {
			return err
		}
		if t.Status != models.TenderPublished {
			accessDenied.WithLabelValues("tender", "bid").Inc()
			return domain.Forbidden("you can't bid to this tender")
		}

		authorID, err := uuid.Parse(in.AuthorID)
		if err != nil {
			return domain.Wrap(domain.KindUnauthenticated, "author id invalid", err)
		}
		if err := s.resolveAuthor(ctx, h, models.NewAuthor(in.AuthorType, authorID)); err != nil {
			return err
		}

		snap.Bid = models.Bid{TenderID: t.ID, AuthorType: in.AuthorType, AuthorID: authorID}
		snap.Version = models.BidVersion{Name: in.Name, Description: in.Description}
		return s.store.CreateBid(ctx, h, &snap.Bid, &snap.Version)
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("bid").Inc()
	return &snap, nil
}

// resolveAuthor проверяет, что автор предложения существует.
func (s *Service) resolveAuthor(ctx context.Context, h db.Handler, author models.Author) error {
	var err error
	reason := "no such employee"
	switch a := author.(type) {
	case models.UserAuthor:
		_, err = s.store.FindEmployeeByID(ctx, h, a.EmployeeID)
	case models.OrganizationAuthor:
		reason = "no such organization"
		_, err = s.store.FindOrganizationByID(ctx, h, a.OrganizationID)
	default:
		return domain.Invalid("validation error: unknown author type")
	}
	if errors.Is(err, db.ErrRecordNotFound) {
		return domain.Wrap(domain.KindUnauthenticated, reason, err)
	}
	return err
}

// ListMyBids возвращает предложения, поданные сотрудником от своего имени.
func (s *Service) ListMyBids(ctx context.Context, username string, page Page) ([]models.BidSnapshot, error) {
	if err := s.check(page); err != nil {
		return nil, err
	}
	if username == "" {
		return []models.BidSnapshot{}, nil
	}

	var list []models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		e, err := s.employee(ctx, h, username)
		if err != nil {
			return err
		}
		list, err = s.store.ListBidsByUser(ctx, h, e.ID, page.Limit, page.Offset)
		return err
	})
	return list, err
}

// ListTenderBids возвращает опубликованные предложения по тендеру.
// Доступно ответственным за организацию тендера.
func (s *Service) ListTenderBids(ctx context.Context, tenderID, username string, page Page) ([]models.BidSnapshot, error) {
	if err := s.check(page); err != nil {
		return nil, err
	}

	var list []models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		t, err := s.writableTender(ctx, h, tenderID, username)
		if err != nil {
			return err
		}
		list, err = s.store.ListPublishedBids(ctx, h, t.ID, page.Limit, page.Offset)
		return err
	})
	return list, err
}

// BidStatus возвращает статус предложения, если сотрудник вправе его видеть.
func (s *Service) BidStatus(ctx context.Context, bidID, username string) (models.BidStatus, error) {
	var status models.BidStatus
	err := s.tx(ctx, func(h db.Handler) error {
		e, err := s.employee(ctx, h, username)
		if err != nil {
			return err
		}
		id, err := parseBidID(bidID)
		if err != nil {
			return err
		}
		b, err := s.bid(ctx, h, id)
		if err != nil {
			return err
		}

		ok, err := s.access.ReadBid(ctx, h, b, e.ID)
		if err != nil {
			return err
		}
		if !ok {
			return deny("bid", "read")
		}
		status = b.Status
		return nil
	})
	return status, err
}

// writableBid загружает предложение, которое сотрудник вправе менять.
func (s *Service) writableBid(ctx context.Context, h db.Handler, bidID, username string) (*models.Bid, error) {
	e, err := s.employee(ctx, h, username)
	if err != nil {
		return nil, err
	}
	id, err := parseBidID(bidID)
	if err != nil {
		return nil, err
	}
	b, err := s.bid(ctx, h, id)
	if err != nil {
		return nil, err
	}

	ok, err := s.access.WriteBid(ctx, h, b, e.ID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, deny("bid", "write")
	}
	return b, nil
}

// reviewableBid загружает предложение для сотрудника организации тендера.
func (s *Service) reviewableBid(ctx context.Context, h db.Handler, bidID, username string) (*models.Bid, *models.Employee, error) {
	e, err := s.employee(ctx, h, username)
	if err != nil {
		return nil, nil, err
	}
	id, err := parseBidID(bidID)
	if err != nil {
		return nil, nil, err
	}
	b, err := s.bid(ctx, h, id)
	if err != nil {
		return nil, nil, err
	}

	t, err := s.tender(ctx, h, b.TenderID)
	if err != nil {
		return nil, nil, err
	}
	ok, err := s.access.WriteTender(ctx, h, t, e.ID)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, deny("tender", "write")
	}
	return b, e, nil
}

func (s *Service) bidSnapshot(ctx context.Context, h db.Handler, id uuid.UUID) (*models.BidSnapshot, error) {
	b, err := s.bid(ctx, h, id)
	if err != nil {
		return nil, err
	}
	v, err := s.store.CurrentBidVersion(ctx, h, id)
	if err != nil {
		return nil, err
	}
	return &models.BidSnapshot{Bid: *b, Version: *v}, nil
}

// SetBidStatus меняет статус предложения.
func (s *Service) SetBidStatus(ctx context.Context, bidID, username string, status models.BidStatus) (*models.BidSnapshot, error) {
	if !status.Valid() {
		return nil, domain.Invalid("validation error: unknown bid status " + string(status))
	}

	var snap *models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		b, err := s.writableBid(ctx, h, bidID, username)
		if err != nil {
			return err
		}
		if err := s.store.SetBidStatus(ctx, h, b.ID, status); err != nil {
			return err
		}
		snap, err = s.bidSnapshot(ctx, h, b.ID)
		return err
	})
	return snap, err
}

// EditBid добавляет новую версию предложения.
func (s *Service) EditBid(ctx context.Context, bidID, username string, patch models.BidPatch) (*models.BidSnapshot, error) {
	if err := s.check(patch); err != nil {
		return nil, err
	}

	var snap *models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		b, err := s.writableBid(ctx, h, bidID, username)
		if err != nil {
			return err
		}
		snap, err = s.updateBid(ctx, h, b, patch)
		return err
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("bid").Inc()
	return snap, nil
}

// RollbackBid записывает содержимое старой версии предложения как новую.
func (s *Service) RollbackBid(ctx context.Context, bidID, username string, version int) (*models.BidSnapshot, error) {
	if version < 1 {
		return nil, domain.Invalid("validation error: version must be greater than or equal to 1")
	}

	var snap *models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		b, err := s.writableBid(ctx, h, bidID, username)
		if err != nil {
			return err
		}

		old, err := s.store.BidVersion(ctx, h, b.ID, version)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domain.Wrap(domain.KindNotFound, "no such bid version found", err)
		} else if err != nil {
			return err
		}

		snap, err = s.updateBid(ctx, h, b, old.Patch())
		return err
	})
	if err != nil {
		return nil, err
	}

	versionsAppended.WithLabelValues("bid").Inc()
	return snap, nil
}

func (s *Service) updateBid(ctx context.Context, h db.Handler, b *models.Bid, patch models.BidPatch) (*models.BidSnapshot, error) {
	v, err := s.store.UpdateBid(ctx, h, b.ID, patch)
	if err != nil {
		return nil, err
	}
	return &models.BidSnapshot{Bid: *b, Version: *v}, nil
}

// SubmitFeedback оставляет отзыв на предложение. Отзывы только
// добавляются, решение по предложению от них не зависит.
func (s *Service) SubmitFeedback(ctx context.Context, bidID, username, feedback string) (*models.BidSnapshot, error) {
	if err := s.check(Feedback{Text: feedback}); err != nil {
		return nil, err
	}

	var snap *models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		b, e, err := s.reviewableBid(ctx, h, bidID, username)
		if err != nil {
			return err
		}

		review := &models.BidReview{BidID: b.ID, AuthorID: e.ID, Description: feedback}
		if err := s.store.CreateBidReview(ctx, h, review); err != nil {
			return err
		}
		snap, err = s.bidSnapshot(ctx, h, b.ID)
		return err
	})
	return snap, err
}

// SubmitDecision записывает решение сотрудника организации тендера.
// Решение принимается только по опубликованному предложению и только
// один раз на сотрудника.
func (s *Service) SubmitDecision(ctx context.Context, bidID, username string, decision models.DecisionType) (*models.BidSnapshot, error) {
	if !decision.Valid() {
		return nil, domain.Invalid("validation error: unknown decision " + string(decision))
	}

	var snap *models.BidSnapshot
	err := s.tx(ctx, func(h db.Handler) error {
		b, e, err := s.reviewableBid(ctx, h, bidID, username)
		if err != nil {
			return err
		}
		if b.Status != models.BidPublished {
			return deny("bid", "decide")
		}

		d := &models.BidDecision{BidID: b.ID, AuthorID: e.ID, Decision: decision}
		if err := s.store.CreateBidDecision(ctx, h, d); err != nil {
			if errors.Is(err, db.ErrDuplicateKey) {
				return domain.Wrap(domain.KindConflict, "decision already submitted", err)
			}
			return err
		}
		snap, err = s.bidSnapshot(ctx, h, b.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	bidDecisions.WithLabelValues(string(decision)).Inc()
	return snap, nil
}

// BidReviews возвращает отзывы на предложения автора по тендеру.
// Смотреть их может ответственный за организацию тендера.
func (s *Service) BidReviews(ctx context.Context, tenderID, authorUsername, requesterUsername string, page Page) ([]models.BidReview, error) {
	if err := s.check(page); err != nil {
		return nil, err
	}

	var reviews []models.BidReview
	err := s.tx(ctx, func(h db.Handler) error {
		t, err := s.writableTender(ctx, h, tenderID, requesterUsername)
		if err != nil {
			return err
		}

		author, err := s.store.FindEmployeeByUsername(ctx, h, authorUsername)
		if errors.Is(err, db.ErrRecordNotFound) {
			return domain.Wrap(domain.KindUnauthenticated, "no such author", err)
		} else if err != nil {
			return err
		}

		reviews, err = s.store.ListBidReviews(ctx, h, t.ID, author.ID, page.Limit, page.Offset)
		return err
	})
	return reviews, err
}
