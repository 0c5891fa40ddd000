// Package database - реализация store.Store поверх sqlx.
package database

import "tenders/internal/store"

type datastore struct {
	*identityStore
	*tenderStore
	*bidStore
}

var _ store.Store = (*datastore)(nil)

// New возвращает хранилище, работающее с переданными db.Handler.
func New() store.Store {
	return &datastore{
		identityStore: &identityStore{},
		tenderStore:   &tenderStore{},
		bidStore:      &bidStore{},
	}
}
