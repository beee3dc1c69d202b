package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

type RequesterID string
type OperatorID string

// ChatID addresses a transport destination. Requesters and operators talk to
// the bot in private chats, so their ids double as chat ids.
type ChatID string

type MessageHandle int64

func (id RequesterID) Chat() ChatID { return ChatID(id) }
func (id OperatorID) Chat() ChatID  { return ChatID(id) }

type Sender struct {
	ID          string
	DisplayName string
	Handle      string
}

func (s Sender) Name() string {
	if name := strings.TrimSpace(s.DisplayName); name != "" {
		return name
	}
	if s.Handle != "" {
		return "@" + s.Handle
	}
	return s.ID
}

type Requester struct {
	ID          RequesterID
	DisplayName string
	Handle      string
	JoinedAt    time.Time
	Banned      bool
}

func RequesterFromSender(sender Sender, joinedAt time.Time) Requester {
	return Requester{
		ID:          RequesterID(sender.ID),
		DisplayName: sender.DisplayName,
		Handle:      sender.Handle,
		JoinedAt:    joinedAt,
	}
}

// DirectorySnapshot is the persisted form of the requester directory. The ban
// list is independent of registration: an id can be banned before it ever
// writes in.
type DirectorySnapshot struct {
	Requesters map[RequesterID]Requester
	Banned     []RequesterID
}

type DirectoryOp string

const (
	DirectoryRegister DirectoryOp = "register"
	DirectoryBan      DirectoryOp = "ban"
	DirectoryUnban    DirectoryOp = "unban"
)

// DirectoryChange is a single directory mutation. Stores apply it to what they
// currently hold, so several writers sharing one store keep each other's
// changes.
type DirectoryChange struct {
	Op        DirectoryOp
	Requester Requester
}

func RegisterChange(requester Requester) DirectoryChange {
	return DirectoryChange{Op: DirectoryRegister, Requester: requester}
}

func BanChange(id RequesterID) DirectoryChange {
	return DirectoryChange{Op: DirectoryBan, Requester: Requester{ID: id}}
}

func UnbanChange(id RequesterID) DirectoryChange {
	return DirectoryChange{Op: DirectoryUnban, Requester: Requester{ID: id}}
}

// Apply folds change into s. Registering a known id keeps the existing record.
func (s *DirectorySnapshot) Apply(change DirectoryChange) error {
	id := change.Requester.ID
	if id == "" {
		return fmt.Errorf("%s: requester id is empty", change.Op)
	}

	switch change.Op {
	case DirectoryRegister:
		if s.Requesters == nil {
			s.Requesters = map[RequesterID]Requester{}
		}
		if _, ok := s.Requesters[id]; !ok {
			requester := change.Requester
			requester.Banned = false
			s.Requesters[id] = requester
		}
	case DirectoryBan:
		if !slices.Contains(s.Banned, id) {
			s.Banned = append(s.Banned, id)
		}
	case DirectoryUnban:
		s.Banned = slices.DeleteFunc(s.Banned, func(banned RequesterID) bool { return banned == id })
	default:
		return fmt.Errorf("unknown directory change %q", change.Op)
	}

	return nil
}
