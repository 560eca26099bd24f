// Package cache is the administrative surface over the store: aggregate
// size reporting and bulk clear.
package cache

import (
	"math"

	"github.com/lox/weatheralert/internal/store"
)

type Admin struct {
	store *store.Store
}

func NewAdmin(st *store.Store) *Admin {
	return &Admin{store: st}
}

// SizeMB reports the aggregate on-disk size of all stored entries in
// megabytes, rounded to 3 decimal places.
func (a *Admin) SizeMB() (float64, error) {
	bytes, err := a.store.SizeBytes()
	if err != nil {
		return 0, err
	}
	mb := float64(bytes) / (1024.0 * 1024.0)
	return math.Round(mb*1000) / 1000, nil
}

// Clear deletes every stored entity in every namespace. Idempotent:
// clearing an empty store is a no-op success.
func (a *Admin) Clear() error {
	return a.store.ClearAll()
}
