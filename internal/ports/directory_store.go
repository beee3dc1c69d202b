package ports

import (
	"context"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

// DirectoryStore persists the requester directory. Apply is a read-modify-write
// against the stored state; Save replaces it wholesale.
type DirectoryStore interface {
	Load(ctx context.Context) (domain.DirectorySnapshot, error)
	Save(ctx context.Context, snapshot domain.DirectorySnapshot) error
	Apply(ctx context.Context, change domain.DirectoryChange) error
}
