package domain

import (
	"fmt"
	"strings"
)

type Roster struct {
	Operators  []OperatorID
	Controller OperatorID
}

func NewRoster(operators []string, controller string) Roster {
	roster := Roster{Controller: OperatorID(strings.TrimSpace(controller))}
	seen := make(map[OperatorID]struct{}, len(operators))
	for _, raw := range operators {
		id := OperatorID(strings.TrimSpace(raw))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		roster.Operators = append(roster.Operators, id)
	}
	return roster
}

func (r Roster) Validate() error {
	if len(r.Operators) == 0 {
		return fmt.Errorf("at least one operator is required")
	}
	if r.Controller != "" && !r.IsOperator(string(r.Controller)) {
		return fmt.Errorf("controller %q is not an operator", r.Controller)
	}
	return nil
}

func (r Roster) IsOperator(id string) bool {
	for _, op := range r.Operators {
		if string(op) == id {
			return true
		}
	}
	return false
}

func (r Roster) IsController(id OperatorID) bool {
	return r.Controller != "" && r.Controller == id
}
