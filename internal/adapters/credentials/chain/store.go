package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/abdallah-zarea/savior-bot/internal/adapters/credentials/file"
	passstore "github.com/abdallah-zarea/savior-bot/internal/adapters/credentials/pass"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

var errNoStores = errors.New("credential chain needs at least one store")

// Store consults its backends in order. Reads and writes stop at the first
// backend that succeeds; deletes reach every backend so a stale copy further
// down the chain cannot resurface.
type Store struct {
	stores []ports.CredentialStore
}

var _ ports.CredentialStore = (*Store)(nil)

func New(stores ...ports.CredentialStore) (*Store, error) {
	if len(stores) == 0 {
		return nil, errNoStores
	}
	for i, store := range stores {
		if store == nil {
			return nil, fmt.Errorf("credential store %d is nil", i)
		}
	}

	return &Store{stores: stores}, nil
}

// NewPassFirst prefers the password-store and falls back to files under
// fileRoot.
func NewPassFirst(fileRoot string) (*Store, error) {
	return New(passstore.NewStore(), filestore.NewStore(fileRoot))
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var errs []error
	for i, store := range s.stores {
		value, err := store.Get(ctx, key)
		if err == nil {
			return value, nil
		}
		if isContextErr(err) {
			return "", err
		}
		errs = append(errs, fmt.Errorf("backend %d get: %w", i, err))
	}

	return "", errors.Join(errs...)
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	var errs []error
	for i, store := range s.stores {
		err := store.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if isContextErr(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d put: %w", i, err))
	}

	return errors.Join(errs...)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	var errs []error
	deleted := false
	for i, store := range s.stores {
		err := store.Delete(ctx, key)
		if err == nil {
			deleted = true
			continue
		}
		if isContextErr(err) {
			return err
		}
		errs = append(errs, fmt.Errorf("backend %d delete: %w", i, err))
	}

	if deleted {
		return nil
	}
	return errors.Join(errs...)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
