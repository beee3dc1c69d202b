package application

import (
	"sort"
	"sync"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
	"github.com/abdallah-zarea/savior-bot/internal/ports"
)

// Ledger records which operator owns which requester's conversation. A single
// mutex guards the map, so claim is an atomic check-and-set and ReleaseAll
// cannot interleave with a claim in flight.
type Ledger struct {
	mu     sync.Mutex
	claims map[domain.RequesterID]domain.Claim
	clock  ports.Clock
}

func NewLedger(clock ports.Clock) *Ledger {
	if clock == nil {
		clock = ports.SystemClock{}
	}

	return &Ledger{claims: map[domain.RequesterID]domain.Claim{}, clock: clock}
}

// Claim succeeds only when the requester is unowned. Otherwise it returns a
// *domain.ContentionError carrying the current owner, even when that owner is
// the caller.
func (l *Ledger) Claim(requester domain.RequesterID, operator domain.OperatorID, operatorName string) (domain.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if owner, ok := l.claims[requester]; ok {
		return domain.Claim{}, &domain.ContentionError{Owner: owner}
	}

	claim := domain.Claim{
		RequesterID:  requester,
		OperatorID:   operator,
		OperatorName: operatorName,
		ClaimedAt:    l.clock.Now(),
	}
	l.claims[requester] = claim

	return claim, nil
}

func (l *Ledger) Release(requester domain.RequesterID, operator domain.OperatorID) (domain.Claim, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	claim, ok := l.claims[requester]
	if !ok {
		return domain.Claim{}, domain.ErrNotOwned
	}
	if claim.OperatorID != operator {
		return claim, domain.ErrNotOwner
	}

	delete(l.claims, requester)
	return claim, nil
}

func (l *Ledger) ReleaseAll() []domain.Claim {
	l.mu.Lock()
	defer l.mu.Unlock()

	released := sortedClaims(l.claims)
	l.claims = map[domain.RequesterID]domain.Claim{}
	return released
}

func (l *Ledger) OwnerOf(requester domain.RequesterID) (domain.Claim, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	claim, ok := l.claims[requester]
	return claim, ok
}

func (l *Ledger) IsOwnedBy(requester domain.RequesterID, operator domain.OperatorID) bool {
	claim, ok := l.OwnerOf(requester)
	return ok && claim.OperatorID == operator
}

func (l *Ledger) Size() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return len(l.claims)
}

func (l *Ledger) Claims() []domain.Claim {
	l.mu.Lock()
	defer l.mu.Unlock()

	return sortedClaims(l.claims)
}

func sortedClaims(claims map[domain.RequesterID]domain.Claim) []domain.Claim {
	out := make([]domain.Claim, 0, len(claims))
	for _, claim := range claims {
		out = append(out, claim)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].ClaimedAt.Equal(out[j].ClaimedAt) {
			return out[i].RequesterID < out[j].RequesterID
		}
		return out[i].ClaimedAt.Before(out[j].ClaimedAt)
	})

	return out
}
