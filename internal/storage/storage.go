// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"time"

	"socialfeed/internal/model"
)

// Storage is the interface for all persistence operations.
type Storage interface {
	MarkSeen(ctx context.Context, scope, itemID string) error
	IsSeen(ctx context.Context, scope, itemID string) (bool, error)
	PruneSeen(ctx context.Context, before time.Time) (int64, error)

	Profile(ctx context.Context, userID string) (model.Profile, bool, error)
	SaveProfile(ctx context.Context, p model.Profile) error
	CountProfiles(ctx context.Context) (int, error)

	Close() error
}
