package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// Handler - общий интерфейс для *DB и *Tx. Хранилища принимают его явным
// параметром, поэтому одна операция может выполняться и в транзакции, и без нее.
type Handler interface {
	Rebind(string) string
	DriverName() string

	SelectContext(context.Context, interface{}, string, ...interface{}) error
	GetContext(context.Context, interface{}, string, ...interface{}) error
	QueryxContext(context.Context, string, ...interface{}) (*sqlx.Rows, error)
	QueryRowxContext(context.Context, string, ...interface{}) *sqlx.Row
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
}
