package models

import (
	"time"

	"github.com/google/uuid"
)

type BidStatus string

const (
	BidCreated   BidStatus = "Created"
	BidPublished BidStatus = "Published"
	BidClosed    BidStatus = "Closed"
)

func (s BidStatus) Valid() bool {
	switch s {
	case BidCreated, BidPublished, BidClosed:
		return true
	default:
		return false
	}
}

type AuthorType string

const (
	AuthorOrganization AuthorType = "Organization"
	AuthorUser         AuthorType = "User"
)

func (t AuthorType) Valid() bool {
	return t == AuthorOrganization || t == AuthorUser
}

type DecisionType string

const (
	DecisionApproved DecisionType = "Approved"
	DecisionRejected DecisionType = "Rejected"
)

func (d DecisionType) Valid() bool {
	return d == DecisionApproved || d == DecisionRejected
}

// Author - автор предложения: либо сотрудник, либо организация.
// Реализуется только типами UserAuthor и OrganizationAuthor.
type Author interface {
	Type() AuthorType
	ID() uuid.UUID
	author()
}

// UserAuthor - предложение подано сотрудником от своего имени.
type UserAuthor struct {
	EmployeeID uuid.UUID
}

func (UserAuthor) Type() AuthorType { return AuthorUser }
func (a UserAuthor) ID() uuid.UUID { return a.EmployeeID }
func (UserAuthor) author() {}

// OrganizationAuthor - предложение подано от имени организации.
type OrganizationAuthor struct {
	OrganizationID uuid.UUID
}

func (OrganizationAuthor) Type() AuthorType { return AuthorOrganization }
func (a OrganizationAuthor) ID() uuid.UUID { return a.OrganizationID }
func (OrganizationAuthor) author() {}

// NewAuthor собирает автора из пары (тип, идентификатор).
// Для неизвестного типа возвращает nil.
func NewAuthor(t AuthorType, id uuid.UUID) Author {
	switch t {
	case AuthorUser:
		return UserAuthor{EmployeeID: id}
	case AuthorOrganization:
		return OrganizationAuthor{OrganizationID: id}
	default:
		return nil
	}
}

// Сущность Предложения (головная запись)
type Bid struct {
	ID         uuid.UUID  `db:"id"`
	Status     BidStatus  `db:"status"`
	TenderID   uuid.UUID  `db:"tender_id"`
	AuthorType AuthorType `db:"author_type"`
	AuthorID   uuid.UUID  `db:"author_id"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}

// Author возвращает автора предложения.
func (b *Bid) Author() Author {
	return NewAuthor(b.AuthorType, b.AuthorID)
}

// Версия предложения
type BidVersion struct {
	Revision
	BidID       uuid.UUID `db:"bid_id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
}

func (v *BidVersion) SetOwner(id uuid.UUID) { v.BidID = id }

func (v *BidVersion) Fields() []any {
	return []any{v.Name, v.Description}
}

func (v *BidVersion) Patch() BidPatch {
	name, description := v.Name, v.Description
	return BidPatch{Name: &name, Description: &description}
}

// BidPatch - частичное изменение предложения. Пустое название не затирает текущее.
type BidPatch struct {
	Name        *string `json:"name" validate:"omitnil,max=100"`
	Description *string `json:"description" validate:"omitnil,max=500"`
}

func (p BidPatch) Apply(v *BidVersion) {
	if p.Name != nil && *p.Name != "" {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
}

// Решение по предложению. Один сотрудник - одно решение на предложение.
type BidDecision struct {
	ID        uuid.UUID    `db:"id"`
	BidID     uuid.UUID    `db:"bid_id"`
	AuthorID  uuid.UUID    `db:"author_id"`
	Decision  DecisionType `db:"decision"`
	CreatedAt time.Time    `db:"created_at"`
}

// Сущность Отзыва
type BidReview struct {
	ID          uuid.UUID `db:"id"`
	BidID       uuid.UUID `db:"bid_id"`
	AuthorID    uuid.UUID `db:"author_id"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

type BidResponse struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      BidStatus  `json:"status"`
	TenderID    uuid.UUID  `json:"tenderId"`
	AuthorType  AuthorType `json:"authorType"`
	AuthorID    uuid.UUID  `json:"authorId"`
	Version     int        `json:"version"`
	CreatedAt   string     `json:"createdAt"`
}

// BidSnapshot - предложение вместе с актуальной версией.
type BidSnapshot struct {
	Bid     Bid
	Version BidVersion
}

func (s BidSnapshot) Response() BidResponse {
	return NewBidResponse(&s.Bid, &s.Version)
}

func NewBidResponse(b *Bid, v *BidVersion) BidResponse {
	return BidResponse{
		ID:          b.ID,
		Name:        v.Name,
		Description: v.Description,
		Status:      b.Status,
		TenderID:    b.TenderID,
		AuthorType:  b.AuthorType,
		AuthorID:    b.AuthorID,
		Version:     v.Version,
		CreatedAt:   formatTime(b.CreatedAt),
	}
}

type BidReviewResponse struct {
	ID          uuid.UUID `json:"id"`
	Description string    `json:"description"`
	CreatedAt   string    `json:"createdAt"`
}

func NewBidReviewResponse(r *BidReview) BidReviewResponse {
	return BidReviewResponse{
		ID:          r.ID,
		Description: r.Description,
		CreatedAt:   formatTime(r.CreatedAt),
	}
}
