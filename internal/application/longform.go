package application

import (
	"errors"
	"sync"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

type longformSession struct {
	requester domain.RequesterID
	fragments []string
}

// SessionManager buffers longform replies per operator. Every session is
// backed by a claim in the ledger; a session whose claim has disappeared is
// dropped the next time it is touched.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[domain.OperatorID]*longformSession
	ledger   *Ledger
}

func NewSessionManager(ledger *Ledger) *SessionManager {
	return &SessionManager{
		sessions: map[domain.OperatorID]*longformSession{},
		ledger:   ledger,
	}
}

// Begin opens a session, claiming the requester when nobody owns it. Restarting
// a session for the same requester keeps the buffered fragments.
func (m *SessionManager) Begin(operator domain.OperatorID, operatorName string, requester domain.RequesterID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if current, ok := m.sessions[operator]; ok {
		if current.requester == requester && m.ledger.IsOwnedBy(requester, operator) {
			return nil
		}
		if m.ledger.IsOwnedBy(current.requester, operator) {
			return domain.ErrSessionActive
		}
		delete(m.sessions, operator)
	}

	if !m.ledger.IsOwnedBy(requester, operator) {
		if _, err := m.ledger.Claim(requester, operator, operatorName); err != nil {
			return err
		}
	}

	m.sessions[operator] = &longformSession{requester: requester}
	return nil
}

// Append buffers one text fragment and returns how many are buffered.
func (m *SessionManager) Append(operator domain.OperatorID, content domain.Content) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.liveLocked(operator)
	if err != nil {
		return 0, err
	}
	if !content.IsText() {
		return len(session.fragments), domain.ErrNonTextFragment
	}

	session.fragments = append(session.fragments, content.Text)
	return len(session.fragments), nil
}

// End closes the session and releases its claim. The composition is returned
// even when the claim was already gone, together with ErrClaimLost.
func (m *SessionManager) End(operator domain.OperatorID) (domain.Composition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[operator]
	if !ok {
		return domain.Composition{}, domain.ErrNoSession
	}
	delete(m.sessions, operator)

	composition := domain.Composition{Requester: session.requester, Fragments: session.fragments}
	if _, err := m.ledger.Release(session.requester, operator); err != nil {
		if errors.Is(err, domain.ErrNotOwned) || errors.Is(err, domain.ErrNotOwner) {
			return composition, domain.ErrClaimLost
		}
		return composition, err
	}

	return composition, nil
}

// Discard drops the session and releases its claim without delivering.
func (m *SessionManager) Discard(operator domain.OperatorID) (domain.RequesterID, error) {
	composition, err := m.End(operator)
	if err != nil && !errors.Is(err, domain.ErrClaimLost) {
		return "", err
	}
	return composition.Requester, nil
}

// Active reports the requester the operator is composing for.
func (m *SessionManager) Active(operator domain.OperatorID) (domain.RequesterID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, err := m.liveLocked(operator)
	if err != nil {
		return "", false
	}
	return session.requester, true
}

// DropRequester removes any session composing for requester, without touching
// the ledger. It returns the operator whose session was dropped.
func (m *SessionManager) DropRequester(requester domain.RequesterID) (domain.OperatorID, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for operator, session := range m.sessions {
		if session.requester == requester {
			delete(m.sessions, operator)
			return operator, true
		}
	}
	return "", false
}

// ReleaseAll empties the ledger and drops every session in one step, so no
// session can outlive the clear with a fresh claim behind it.
func (m *SessionManager) ReleaseAll() ([]domain.Claim, int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	released := m.ledger.ReleaseAll()
	dropped := len(m.sessions)
	m.sessions = map[domain.OperatorID]*longformSession{}

	return released, dropped
}

func (m *SessionManager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *SessionManager) liveLocked(operator domain.OperatorID) (*longformSession, error) {
	session, ok := m.sessions[operator]
	if !ok {
		return nil, domain.ErrNoSession
	}
	if !m.ledger.IsOwnedBy(session.requester, operator) {
		delete(m.sessions, operator)
		return nil, domain.ErrClaimLost
	}
	return session, nil
}
