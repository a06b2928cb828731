// Package store provides durable keyed persistence for session
// snapshots. The engine imposes no schema beyond round-trip fidelity.
package store

import (
	"context"
	"errors"

	"github.com/swipehire/interview-engine/internal/models"
)

// ErrNotFound means no snapshot exists under the given session id
var ErrNotFound = errors.New("session snapshot not found")

// SessionStore defines keyed get/set/delete over serialized sessions
type SessionStore interface {
	Save(ctx context.Context, snap *models.SessionState) error
	Get(ctx context.Context, id string) (*models.SessionState, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}
