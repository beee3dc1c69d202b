package bolt

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
	bbolt "go.etcd.io/bbolt"
)

var (
	requestersBucket = []byte("requesters")
	bannedBucket     = []byte("banned")
)

const (
	fileMode    = 0o600
	dirMode     = 0o700
	openTimeout = 2 * time.Second
)

// Repository keeps the directory in a bbolt file with one bucket for
// requester records and one for the ban list. The file is opened per call so
// the CLI can read it while the server is idle.
type Repository struct {
	path string
}

var _ ports.DirectoryStore = (*Repository)(nil)

type requesterRecord struct {
	DisplayName string    `json:"display_name"`
	Handle      string    `json:"handle,omitempty"`
	JoinedAt    time.Time `json:"joined_at"`
}

func NewRepository(path string) (*Repository, error) {
	if path == "" {
		return nil, errors.New("directory path is empty")
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve directory path: %w", err)
	}

	return &Repository{path: filepath.Clean(absPath)}, nil
}

func (r *Repository) Path() string {
	return r.path
}

func (r *Repository) Load(ctx context.Context) (domain.DirectorySnapshot, error) {
	snapshot := domain.DirectorySnapshot{
		Requesters: map[domain.RequesterID]domain.Requester{},
		Banned:     []domain.RequesterID{},
	}
	if err := ctx.Err(); err != nil {
		return snapshot, err
	}

	if _, err := os.Stat(r.path); errors.Is(err, os.ErrNotExist) {
		return snapshot, nil
	}

	db, err := r.open(true)
	if err != nil {
		return snapshot, err
	}
	defer func() { _ = db.Close() }()

	err = db.View(func(tx *bbolt.Tx) error {
		if b := tx.Bucket(requestersBucket); b != nil {
			if err := b.ForEach(func(k, v []byte) error {
				var rec requesterRecord
				if len(v) > 0 {
					if err := json.Unmarshal(v, &rec); err != nil {
						// skip malformed records
						return nil
					}
				}
				id := domain.RequesterID(k)
				snapshot.Requesters[id] = domain.Requester{
					ID:          id,
					DisplayName: rec.DisplayName,
					Handle:      rec.Handle,
					JoinedAt:    rec.JoinedAt,
				}
				return nil
			}); err != nil {
				return err
			}
		}

		if b := tx.Bucket(bannedBucket); b != nil {
			return b.ForEach(func(k, _ []byte) error {
				snapshot.Banned = append(snapshot.Banned, domain.RequesterID(k))
				return nil
			})
		}
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("read directory db: %w", err)
	}

	return snapshot, nil
}

// Save replaces both buckets with the snapshot in a single transaction.
func (r *Repository) Save(ctx context.Context, snapshot domain.DirectorySnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(r.path), dirMode); err != nil {
		return fmt.Errorf("create directory folder: %w", err)
	}

	db, err := r.open(false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	ids := make([]domain.RequesterID, 0, len(snapshot.Requesters))
	for id := range snapshot.Requesters {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	err = db.Update(func(tx *bbolt.Tx) error {
		requesters, err := recreateBucket(tx, requestersBucket)
		if err != nil {
			return err
		}
		for _, id := range ids {
			requester := snapshot.Requesters[id]
			enc, err := json.Marshal(requesterRecord{
				DisplayName: requester.DisplayName,
				Handle:      requester.Handle,
				JoinedAt:    requester.JoinedAt.UTC(),
			})
			if err != nil {
				return err
			}
			if err := requesters.Put([]byte(id), enc); err != nil {
				return err
			}
		}

		banned, err := recreateBucket(tx, bannedBucket)
		if err != nil {
			return err
		}
		for _, id := range snapshot.Banned {
			if err := banned.Put([]byte(id), []byte{1}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("write directory db: %w", err)
	}

	return nil
}

// Apply changes only the keys the mutation touches, inside one transaction.
func (r *Repository) Apply(ctx context.Context, change domain.DirectoryChange) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	id := []byte(change.Requester.ID)
	if len(id) == 0 {
		return fmt.Errorf("%s: requester id is empty", change.Op)
	}

	if err := os.MkdirAll(filepath.Dir(r.path), dirMode); err != nil {
		return fmt.Errorf("create directory folder: %w", err)
	}

	db, err := r.open(false)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	err = db.Update(func(tx *bbolt.Tx) error {
		switch change.Op {
		case domain.DirectoryRegister:
			requesters, err := tx.CreateBucketIfNotExists(requestersBucket)
			if err != nil {
				return err
			}
			if requesters.Get(id) != nil {
				return nil
			}
			enc, err := json.Marshal(requesterRecord{
				DisplayName: change.Requester.DisplayName,
				Handle:      change.Requester.Handle,
				JoinedAt:    change.Requester.JoinedAt.UTC(),
			})
			if err != nil {
				return err
			}
			return requesters.Put(id, enc)
		case domain.DirectoryBan:
			banned, err := tx.CreateBucketIfNotExists(bannedBucket)
			if err != nil {
				return err
			}
			return banned.Put(id, []byte{1})
		case domain.DirectoryUnban:
			if banned := tx.Bucket(bannedBucket); banned != nil {
				return banned.Delete(id)
			}
			return nil
		default:
			return fmt.Errorf("unknown directory change %q", change.Op)
		}
	})
	if err != nil {
		return fmt.Errorf("apply directory change: %w", err)
	}

	return nil
}

func (r *Repository) open(readOnly bool) (*bbolt.DB, error) {
	db, err := bbolt.Open(r.path, fileMode, &bbolt.Options{Timeout: openTimeout, ReadOnly: readOnly})
	if err != nil {
		return nil, fmt.Errorf("open directory db: %w", err)
	}
	return db, nil
}

func recreateBucket(tx *bbolt.Tx, name []byte) (*bbolt.Bucket, error) {
	if tx.Bucket(name) != nil {
		if err := tx.DeleteBucket(name); err != nil {
			return nil, err
		}
	}
	return tx.CreateBucket(name)
}
