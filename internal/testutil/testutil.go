// Package testutil поднимает тестовую базу на modernc.org/sqlite с теми же
// миграциями, что и в проде, и заполняет справочники.
package testutil

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"tenders/db"
	"tenders/db/migrations"
	"tenders/internal/store"
	"tenders/models"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// OpenDB открывает чистую базу во временном каталоге теста.
func OpenDB(t testing.TB) *db.DB {
	t.Helper()

	ctx := log.WithContext(context.Background(), log.New(io.Discard))
	dsn := "file:" + filepath.Join(t.TempDir(), "tenders.db") +
		"?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"

	dbx, err := db.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	// sqlite пишет из одного соединения, транзакции выстраиваются в очередь
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = dbx.Close() })

	require.NoError(t, migrations.Run(ctx, dbx))
	return dbx
}

// Seed создает сотрудников и организации для тестов.
type Seed struct {
	t     testing.TB
	db    *db.DB
	store store.IdentityStore
}

func NewSeed(t testing.TB, dbx *db.DB, s store.IdentityStore) *Seed {
	return &Seed{t: t, db: dbx, store: s}
}

func (s *Seed) Employee(username string) *models.Employee {
	s.t.Helper()
	e := &models.Employee{Username: username}
	require.NoError(s.t, s.store.CreateEmployee(context.Background(), s.db, e))
	return e
}

func (s *Seed) Organization(name string) *models.Organization {
	s.t.Helper()
	o := &models.Organization{Name: name, Type: "LLC"}
	require.NoError(s.t, s.store.CreateOrganization(context.Background(), s.db, o))
	return o
}

// Responsible делает сотрудников ответственными за организацию.
func (s *Seed) Responsible(o *models.Organization, employees ...*models.Employee) {
	s.t.Helper()
	for _, e := range employees {
		require.NoError(s.t, s.store.AddResponsible(context.Background(), s.db, o.ID, e.ID))
	}
}
