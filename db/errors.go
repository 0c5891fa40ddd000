package db

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/lib/pq"
)

var (
	// ErrDuplicateKey - нарушено ограничение уникальности.
	ErrDuplicateKey = errors.New("duplicate key value violates table constraint")

	// ErrRecordNotFound - запись не найдена.
	ErrRecordNotFound = errors.New("record not found")
)

// WrapError приводит ошибки драйверов к ошибкам пакета db.
func WrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrRecordNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return ErrDuplicateKey
	}

	// modernc.org/sqlite не экспортирует коды в удобном виде, сверяем текст
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return ErrDuplicateKey
	}

	return err
}
