// Package db - обертка над sqlx: подключение, транзакции, трассировка запросов.
package db

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jmoiron/sqlx"
)

// DB - подключение к базе данных.
type DB struct {
	*sqlx.DB
	logger *log.Logger
}

// Tx - транзакция. Все запросы одной бизнес-операции идут через нее.
type Tx struct {
	*sqlx.Tx
	logger *log.Logger
}

var (
	_ Handler = (*DB)(nil)
	_ Handler = (*Tx)(nil)
)

// Open открывает подключение и проверяет его. Логгер берется из контекста.
func Open(ctx context.Context, driverName string, dsn string) (*DB, error) {
	db, err := sqlx.ConnectContext(ctx, driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driverName, err)
	}
	return New(db, log.FromContext(ctx)), nil
}

// New оборачивает уже открытое подключение.
func New(db *sqlx.DB, logger *log.Logger) *DB {
	if logger != nil {
		logger = logger.WithPrefix("db")
	}
	return &DB{DB: db, logger: logger}
}

// TransactionContext выполняет fn в транзакции. Если fn вернула ошибку или
// запаниковала, транзакция откатывается, иначе фиксируется.
func (d *DB) TransactionContext(ctx context.Context, fn func(tx *Tx) error) (err error) {
	txx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	tx := &Tx{Tx: txx, logger: d.logger}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rerr := tx.Rollback(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
