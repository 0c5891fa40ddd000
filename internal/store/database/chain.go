package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"tenders/db"
	"tenders/internal/store"
	"tenders/models"

	"github.com/google/uuid"
)

// revision - строка таблицы версий: *models.TenderVersion или *models.BidVersion.
type revision[V any] interface {
	*V
	Rev() *models.Revision
	SetOwner(uuid.UUID)
	Fields() []any
}

// chain - цепочка версий одной сущности: головная таблица со статусом
// и таблица неизменяемых версий, из которых ровно одна актуальная.
type chain[V any, P revision[V]] struct {
	head   string   // головная таблица
	table  string   // таблица версий
	owner  string   // колонка версии со ссылкой на головную запись
	fields []string // редактируемые колонки, в порядке P.Fields()
}

var (
	tenderChain = chain[models.TenderVersion, *models.TenderVersion]{
		head:   "tender",
		table:  "tender_version",
		owner:  "tender_id",
		fields: []string{"name", "description", "service_type"},
	}
	bidChain = chain[models.BidVersion, *models.BidVersion]{
		head:   "bid",
		table:  "bid_version",
		owner:  "bid_id",
		fields: []string{"name", "description"},
	}
)

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func (c chain[V, P]) insert(ctx context.Context, h db.Handler, headID uuid.UUID, v P) error {
	rev := v.Rev()
	cols := append([]string{"id", c.owner, "version", "actual"}, c.fields...)
	args := append([]any{rev.ID, headID, rev.Version, rev.Actual}, v.Fields()...)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", c.table, strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := h.ExecContext(ctx, h.Rebind(query), args...); err != nil {
		return db.WrapError(err)
	}
	return nil
}

// first записывает версию 1 и делает ее актуальной.
func (c chain[V, P]) first(ctx context.Context, h db.Handler, headID uuid.UUID, v P) error {
	rev := v.Rev()
	rev.ID = uuid.New()
	rev.Version = 1
	rev.Actual = true
	v.SetOwner(headID)

	if err := c.insert(ctx, h, headID, v); err != nil {
		return fmt.Errorf("insert first %s: %w", c.table, err)
	}
	return nil
}

func (c chain[V, P]) get(ctx context.Context, h db.Handler, where string, args ...any) (P, error) {
	var v V
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s", c.table, where)
	if err := h.GetContext(ctx, &v, h.Rebind(query), args...); err != nil {
		return nil, db.WrapError(err)
	}
	return P(&v), nil
}

// current возвращает актуальную версию.
func (c chain[V, P]) current(ctx context.Context, h db.Handler, headID uuid.UUID) (P, error) {
	v, err := c.get(ctx, h, c.owner+" = ? AND actual = ?", headID, true)
	if err != nil {
		return nil, fmt.Errorf("current %s of %s: %w", c.table, headID, err)
	}
	return v, nil
}

// at возвращает версию с заданным номером.
func (c chain[V, P]) at(ctx context.Context, h db.Handler, headID uuid.UUID, version int) (P, error) {
	v, err := c.get(ctx, h, c.owner+" = ? AND version = ?", headID, version)
	if err != nil {
		return nil, fmt.Errorf("%s %d of %s: %w", c.table, version, headID, err)
	}
	return v, nil
}

// history возвращает все версии по возрастанию номера.
func (c chain[V, P]) history(ctx context.Context, h db.Handler, headID uuid.UUID) ([]V, error) {
	var vs []V
	query := fmt.Sprintf("SELECT * FROM %s WHERE %s = ? ORDER BY version", c.table, c.owner)
	if err := h.SelectContext(ctx, &vs, h.Rebind(query), headID); err != nil {
		return nil, fmt.Errorf("history of %s: %w", headID, db.WrapError(err))
	}
	return vs, nil
}

// advance снимает флаг actual с текущей версии и записывает следующую.
// Поля новой версии - копия текущей с примененным patch.
// Должен вызываться внутри транзакции.
func (c chain[V, P]) advance(ctx context.Context, h db.Handler, headID uuid.UUID, patch func(P)) (P, error) {
	cur, err := c.current(ctx, h, headID)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf("UPDATE %s SET actual = ? WHERE id = ? AND actual = ?", c.table)
	res, err := h.ExecContext(ctx, h.Rebind(query), false, cur.Rev().ID, true)
	if err != nil {
		return nil, fmt.Errorf("retire %s %d: %w", c.table, cur.Rev().Version, db.WrapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("retire %s %d: %w", c.table, cur.Rev().Version, err)
	}
	// актуальную версию уже сняла другая транзакция
	if n != 1 {
		return nil, store.ErrVersionConflict
	}

	next := *cur
	np := P(&next)
	patch(np)

	rev := np.Rev()
	rev.ID = uuid.New()
	rev.Version = cur.Rev().Version + 1
	rev.Actual = true

	if err := c.insert(ctx, h, headID, np); err != nil {
		// параллельное обновление уже заняло этот номер
		if errors.Is(err, db.ErrDuplicateKey) {
			return nil, store.ErrVersionConflict
		}
		return nil, fmt.Errorf("insert %s %d: %w", c.table, rev.Version, err)
	}

	return c.current(ctx, h, headID)
}

// setStatus меняет только статус головной записи. Переходы не проверяются.
func (c chain[V, P]) setStatus(ctx context.Context, h db.Handler, headID uuid.UUID, status string) error {
	query := fmt.Sprintf("UPDATE %s SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", c.head)
	res, err := h.ExecContext(ctx, h.Rebind(query), status, headID)
	if err != nil {
		return fmt.Errorf("set %s status: %w", c.head, db.WrapError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", c.head, headID, db.ErrRecordNotFound)
	}
	return nil
}
