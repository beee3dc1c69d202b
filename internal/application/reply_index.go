package application

import (
	"sync"

	"github.com/abdallah-zarea/savior-bot/internal/domain"
)

const DefaultReplyIndexCapacity = 500

// PinFunc reports whether the operator currently owns the requester. The
// newest entry of a pinned pair survives eviction so an active conversation
// always stays resolvable.
type PinFunc func(operator domain.OperatorID, requester domain.RequesterID) bool

// ReplyIndex maps a message delivered to an operator back to the requester it
// came from. Entries are recorded at delivery time; transport forward
// metadata is never consulted.
type ReplyIndex struct {
	mu         sync.Mutex
	capacity   int
	pinned     PinFunc
	byOperator map[domain.OperatorID]*operatorReplies
}

type operatorReplies struct {
	entries map[domain.MessageHandle]domain.RequesterID
	order   []domain.MessageHandle
	latest  map[domain.RequesterID]domain.MessageHandle
}

func NewReplyIndex(capacity int, pinned PinFunc) *ReplyIndex {
	if capacity <= 0 {
		capacity = DefaultReplyIndexCapacity
	}

	return &ReplyIndex{
		capacity:   capacity,
		pinned:     pinned,
		byOperator: map[domain.OperatorID]*operatorReplies{},
	}
}

func (x *ReplyIndex) Record(operator domain.OperatorID, handle domain.MessageHandle, requester domain.RequesterID) {
	x.mu.Lock()
	defer x.mu.Unlock()

	replies, ok := x.byOperator[operator]
	if !ok {
		replies = &operatorReplies{
			entries: map[domain.MessageHandle]domain.RequesterID{},
			latest:  map[domain.RequesterID]domain.MessageHandle{},
		}
		x.byOperator[operator] = replies
	}

	if previous, exists := replies.entries[handle]; exists {
		if replies.latest[previous] == handle {
			delete(replies.latest, previous)
		}
	} else {
		replies.order = append(replies.order, handle)
	}
	replies.entries[handle] = requester
	if handle >= replies.latest[requester] {
		replies.latest[requester] = handle
	}

	x.evict(operator, replies)
}

func (x *ReplyIndex) Resolve(operator domain.OperatorID, handle domain.MessageHandle) (domain.RequesterID, bool) {
	x.mu.Lock()
	defer x.mu.Unlock()

	replies, ok := x.byOperator[operator]
	if !ok {
		return "", false
	}

	requester, ok := replies.entries[handle]
	return requester, ok
}

func (x *ReplyIndex) Len(operator domain.OperatorID) int {
	x.mu.Lock()
	defer x.mu.Unlock()

	if replies, ok := x.byOperator[operator]; ok {
		return len(replies.entries)
	}
	return 0
}

// evict trims the oldest entries until the map is back at capacity, skipping
// the newest entry of every pinned conversation.
func (x *ReplyIndex) evict(operator domain.OperatorID, replies *operatorReplies) {
	excess := len(replies.entries) - x.capacity
	if excess <= 0 {
		return
	}

	kept := make([]domain.MessageHandle, 0, len(replies.order))
	for i, handle := range replies.order {
		if excess == 0 {
			kept = append(kept, replies.order[i:]...)
			break
		}

		requester := replies.entries[handle]
		if replies.latest[requester] == handle && x.pinned != nil && x.pinned(operator, requester) {
			kept = append(kept, handle)
			continue
		}

		delete(replies.entries, handle)
		if replies.latest[requester] == handle {
			delete(replies.latest, requester)
		}
		excess--
	}

	replies.order = kept
}
