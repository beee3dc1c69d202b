package domain

import "time"

// Claim is exclusive ownership of one requester's conversation by one
// operator. At most one Claim exists per requester.
type Claim struct {
	RequesterID  RequesterID `json:"requester_id"`
	OperatorID   OperatorID  `json:"operator_id"`
	OperatorName string      `json:"operator_name"`
	ClaimedAt    time.Time   `json:"claimed_at"`
}
