// Package store описывает хранилища. Каждый метод принимает db.Handler явно:
// транзакцию открывает и закрывает вызывающая сторона.
package store

import "errors"

// Store объединяет все хранилища сервиса.
type Store interface {
	IdentityStore
	TenderStore
	BidStore
}

// ErrVersionConflict - актуальная версия сменилась, пока шло обновление.
var ErrVersionConflict = errors.New("version chain was modified concurrently")
