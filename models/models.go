package models

import (
	"time"

	"github.com/google/uuid"
)

// Сущность Пользователя
type Employee struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Username  string    `db:"username" json:"username"`
	FirstName *string   `db:"first_name" json:"firstName,omitempty"`
	LastName  *string   `db:"last_name" json:"lastName,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`
}

// Сущность Организации
type Organization struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description *string   `db:"description" json:"description,omitempty"`
	Type        string    `db:"type" json:"type"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time `db:"updated_at" json:"-"`
}

// Revision - общие поля любой версии сущности.
// Строка версии после записи не меняется, кроме флага Actual.
type Revision struct {
	ID        uuid.UUID `db:"id"`
	Version   int       `db:"version"`
	Actual    bool      `db:"actual"`
	CreatedAt time.Time `db:"created_at"`
}

// Rev возвращает метаданные версии.
func (r *Revision) Rev() *Revision { return r }

// formatTime приводит время к виду, который отдается клиенту.
func formatTime(t time.Time) string {
	return t.UTC().Truncate(time.Second).Format(time.RFC3339)
}
