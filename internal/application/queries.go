package application

import (
	"time"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

type Stats struct {
	Requesters       int            `json:"requesters"`
	Banned           int            `json:"banned"`
	ActiveClaims     int            `json:"active_claims"`
	LongformSessions int            `json:"longform_sessions"`
	Operators        int            `json:"operators"`
	Claims           []domain.Claim `json:"claims,omitempty"`
	StartedAt        time.Time      `json:"started_at,omitempty"`
}

// Stats reads the directory counts and the live ledger.
func (r *Router) Stats() Stats {
	return Stats{
		Requesters:       r.directory.Count(),
		Banned:           r.directory.BannedCount(),
		ActiveClaims:     r.ledger.Size(),
		LongformSessions: r.sessions.Count(),
		Operators:        len(r.cfg.Roster.Operators),
		Claims:           r.ledger.Claims(),
		StartedAt:        r.startedAt,
	}
}
