// Package store persists the single account record.
package store

import (
	"context"

	"PiggyVault/internal/model"
)

// Store loads and saves the whole account record as one unit. Load returns
// a defaulted fresh state when nothing has been persisted yet.
type Store interface {
	Load(ctx context.Context) (*model.AccountState, error)
	Save(ctx context.Context, st *model.AccountState) error
	Close() error
}
