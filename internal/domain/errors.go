package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyOwned      = errors.New("conversation already owned")
	ErrNotOwner          = errors.New("conversation owned by another operator")
	ErrNotOwned          = errors.New("conversation not owned")
	ErrUnresolvedReply   = errors.New("reply does not resolve to a requester")
	ErrNoSession         = errors.New("no active longform session")
	ErrSessionActive     = errors.New("longform session already active")
	ErrNonTextFragment   = errors.New("longform accepts text only")
	ErrClaimLost         = errors.New("claim no longer held")
	ErrNotController     = errors.New("controller only")
	ErrRequesterNotFound = errors.New("requester not found")
	ErrEmptyComposition  = errors.New("nothing to send")
)

// ContentionError reports a claim attempt on a conversation someone else
// already owns.
type ContentionError struct {
	Owner Claim
}

func (e *ContentionError) Error() string {
	return fmt.Sprintf("conversation with %s already owned by %s", e.Owner.RequesterID, e.Owner.OperatorName)
}

func (e *ContentionError) Is(target error) bool {
	return target == ErrAlreadyOwned
}

// DeliveryError is a transport failure reaching a chat.
type DeliveryError struct {
	Chat ChatID
	Err  error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("deliver to %s: %v", e.Chat, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// PersistenceError is a directory store failure. The in-memory directory stays
// authoritative when one occurs.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s directory: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
