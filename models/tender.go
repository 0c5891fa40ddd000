package models

import (
	"time"

	"github.com/google/uuid"
)

type TenderStatus string

const (
	TenderCreated   TenderStatus = "Created"
	TenderPublished TenderStatus = "Published"
	TenderClosed    TenderStatus = "Closed"
)

func (s TenderStatus) Valid() bool {
	switch s {
	case TenderCreated, TenderPublished, TenderClosed:
		return true
	default:
		return false
	}
}

type ServiceType string

const (
	ServiceConstruction ServiceType = "Construction"
	ServiceDelivery     ServiceType = "Delivery"
	ServiceManufacture  ServiceType = "Manufacture"
)

func (t ServiceType) Valid() bool {
	switch t {
	case ServiceConstruction, ServiceDelivery, ServiceManufacture:
		return true
	default:
		return false
	}
}

// Сущность Тендера (головная запись). Хранит только статус и принадлежность,
// название и описание живут в версиях.
type Tender struct {
	ID             uuid.UUID    `db:"id"`
	Status         TenderStatus `db:"status"`
	OrganizationID uuid.UUID    `db:"organization_id"`
	CreatorID      uuid.UUID    `db:"creator_id"`
	CreatedAt      time.Time    `db:"created_at"`
	UpdatedAt      time.Time    `db:"updated_at"`
}

// Версия тендера
type TenderVersion struct {
	Revision
	TenderID    uuid.UUID   `db:"tender_id"`
	Name        string      `db:"name"`
	Description string      `db:"description"`
	ServiceType ServiceType `db:"service_type"`
}

// SetOwner привязывает версию к тендеру.
func (v *TenderVersion) SetOwner(id uuid.UUID) { v.TenderID = id }

// Fields возвращает значения редактируемых полей в порядке колонок tender_version.
func (v *TenderVersion) Fields() []any {
	return []any{v.Name, v.Description, v.ServiceType}
}

// Patch возвращает патч, который целиком воспроизводит поля этой версии.
func (v *TenderVersion) Patch() TenderPatch {
	name, description, serviceType := v.Name, v.Description, v.ServiceType
	return TenderPatch{Name: &name, Description: &description, ServiceType: &serviceType}
}

// TenderPatch - частичное изменение тендера. nil означает "оставить как есть",
// пустые название и тип услуги тоже не затирают текущие.
type TenderPatch struct {
	Name        *string      `json:"name" validate:"omitnil,max=100"`
	Description *string      `json:"description" validate:"omitnil,max=500"`
	ServiceType *ServiceType `json:"serviceType" validate:"omitempty,oneof=Construction Delivery Manufacture"`
}

// Apply накладывает патч на копию версии.
func (p TenderPatch) Apply(v *TenderVersion) {
	if p.Name != nil && *p.Name != "" {
		v.Name = *p.Name
	}
	if p.Description != nil {
		v.Description = *p.Description
	}
	if p.ServiceType != nil && *p.ServiceType != "" {
		v.ServiceType = *p.ServiceType
	}
}

// TenderResponse - снимок тендера, который отдается клиенту.
type TenderResponse struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	Description    string       `json:"description"`
	ServiceType    ServiceType  `json:"serviceType"`
	Status         TenderStatus `json:"status"`
	OrganizationID uuid.UUID    `json:"organizationId"`
	Version        int          `json:"version"`
	CreatedAt      string       `json:"createdAt"`
}

// TenderSnapshot - тендер вместе с актуальной версией.
type TenderSnapshot struct {
	Tender  Tender
	Version TenderVersion
}

func (s TenderSnapshot) Response() TenderResponse {
	return NewTenderResponse(&s.Tender, &s.Version)
}

func NewTenderResponse(t *Tender, v *TenderVersion) TenderResponse {
	return TenderResponse{
		ID:             t.ID,
		Name:           v.Name,
		Description:    v.Description,
		ServiceType:    v.ServiceType,
		Status:         t.Status,
		OrganizationID: t.OrganizationID,
		Version:        v.Version,
		CreatedAt:      formatTime(t.CreatedAt),
	}
}
