package application

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

// Directory is the in-memory requester directory. Each change is written
// through to the store as a single mutation, and a failed write never rolls
// back memory.
type Directory struct {
	mu         sync.RWMutex
	requesters map[domain.RequesterID]domain.Requester
	banned     map[domain.RequesterID]struct{}

	store  ports.DirectoryStore
	clock  ports.Clock
	logger *slog.Logger
}

func NewDirectory(ctx context.Context, store ports.DirectoryStore, clock ports.Clock, logger *slog.Logger) *Directory {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	d := &Directory{
		requesters: map[domain.RequesterID]domain.Requester{},
		banned:     map[domain.RequesterID]struct{}{},
		store:      store,
		clock:      clock,
		logger:     logger,
	}
	d.load(ctx)

	return d
}

func (d *Directory) load(ctx context.Context) {
	if d.store == nil {
		return
	}

	snapshot, err := d.store.Load(ctx)
	if err != nil {
		d.logger.Error("directory load failed", "error", &domain.PersistenceError{Op: "load", Err: err})
		return
	}

	for id, requester := range snapshot.Requesters {
		requester.ID = id
		requester.Banned = false
		d.requesters[id] = requester
	}
	for _, id := range snapshot.Banned {
		d.banned[id] = struct{}{}
	}
}

// EnsureRegistered records the sender on first contact and reports whether it
// was new.
func (d *Directory) EnsureRegistered(ctx context.Context, sender domain.Sender) bool {
	id := domain.RequesterID(sender.ID)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.requesters[id]; ok {
		return false
	}

	requester := domain.RequesterFromSender(sender, d.clock.Now().UTC())
	d.requesters[id] = requester
	d.persistLocked(ctx, domain.RegisterChange(requester))

	return true
}

func (d *Directory) IsBanned(id domain.RequesterID) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.banned[id]
	return ok
}

// Ban is idempotent and does not require the id to be registered. It reports
// whether the ban list changed.
func (d *Directory) Ban(ctx context.Context, id domain.RequesterID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.banned[id]; ok {
		return false
	}

	d.banned[id] = struct{}{}
	d.persistLocked(ctx, domain.BanChange(id))

	return true
}

func (d *Directory) Unban(ctx context.Context, id domain.RequesterID) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.banned[id]; !ok {
		return false
	}

	delete(d.banned, id)
	d.persistLocked(ctx, domain.UnbanChange(id))

	return true
}

func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.requesters)
}

func (d *Directory) BannedCount() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.banned)
}

func (d *Directory) Get(id domain.RequesterID) (domain.Requester, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	requester, ok := d.requesters[id]
	if !ok {
		return domain.Requester{}, domain.ErrRequesterNotFound
	}
	_, requester.Banned = d.banned[id]

	return requester, nil
}

// Requesters lists registered requesters, oldest first, with Banned filled in.
func (d *Directory) Requesters() []domain.Requester {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Requester, 0, len(d.requesters))
	for id, requester := range d.requesters {
		_, requester.Banned = d.banned[id]
		out = append(out, requester)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt.Equal(out[j].JoinedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].JoinedAt.Before(out[j].JoinedAt)
	})

	return out
}

// BannedRequesters lists banned requesters sorted by id, including ids that were
// banned before they ever wrote in.
func (d *Directory) BannedRequesters() []domain.Requester {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]domain.Requester, 0, len(d.banned))
	for id := range d.banned {
		requester, ok := d.requesters[id]
		if !ok {
			requester = domain.Requester{ID: id}
		}
		requester.Banned = true
		out = append(out, requester)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out
}

// Reachable lists registered requesters who are not banned, the audience of a
// broadcast.
func (d *Directory) Reachable() []domain.RequesterID {
	requesters := d.Requesters()
	out := make([]domain.RequesterID, 0, len(requesters))
	for _, requester := range requesters {
		if !requester.Banned {
			out = append(out, requester.ID)
		}
	}
	return out
}

func (d *Directory) Snapshot() domain.DirectorySnapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.snapshotLocked()
}

func (d *Directory) snapshotLocked() domain.DirectorySnapshot {
	snapshot := domain.DirectorySnapshot{
		Requesters: make(map[domain.RequesterID]domain.Requester, len(d.requesters)),
		Banned:     make([]domain.RequesterID, 0, len(d.banned)),
	}
	for id, requester := range d.requesters {
		snapshot.Requesters[id] = requester
	}
	for id := range d.banned {
		snapshot.Banned = append(snapshot.Banned, id)
	}
	sort.Slice(snapshot.Banned, func(i, j int) bool { return snapshot.Banned[i] < snapshot.Banned[j] })

	return snapshot
}

// persistLocked must be called with d.mu held for writing so changes reach
// the store in mutation order.
func (d *Directory) persistLocked(ctx context.Context, change domain.DirectoryChange) {
	if d.store == nil {
		return
	}

	op := string(change.Op)
	if err := d.store.Apply(ctx, change); err != nil {
		d.logger.Error("directory save failed", "op", op, "requester", change.Requester.ID, "error", &domain.PersistenceError{Op: op, Err: err})
	}
}
