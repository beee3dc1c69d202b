package domain

import (
	"fmt"
	"strings"
)

type ControlAction string

const (
	ControlClaim   ControlAction = "claim"
	ControlRelease ControlAction = "release"
	ControlPanel   ControlAction = "panel"
)

const (
	PanelStats         = "stats"
	PanelReleaseAll    = "release_all"
	PanelBroadcastHelp = "broadcast_help"
)

// Control is an action button attached to an outbound message.
type Control struct {
	Label  string
	Action ControlAction
	Target string
}

func ClaimControl(label string, requester RequesterID) Control {
	return Control{Label: label, Action: ControlClaim, Target: string(requester)}
}

func ReleaseControl(label string, requester RequesterID) Control {
	return Control{Label: label, Action: ControlRelease, Target: string(requester)}
}

func PanelControl(label, action string) Control {
	return Control{Label: label, Action: ControlPanel, Target: action}
}

func (c Control) Data() string {
	return string(c.Action) + ":" + c.Target
}

func ParseControlData(data string) (ControlAction, string, error) {
	action, target, ok := strings.Cut(strings.TrimSpace(data), ":")
	if !ok || target == "" {
		return "", "", fmt.Errorf("malformed control data %q", data)
	}

	switch ControlAction(action) {
	case ControlClaim, ControlRelease, ControlPanel:
		return ControlAction(action), target, nil
	default:
		return "", "", fmt.Errorf("unknown control action %q", action)
	}
}

// ControlEvent is an operator pressing a control on a message the bot sent.
type ControlEvent struct {
	ID     string
	From   Sender
	Chat   ChatID
	Handle MessageHandle
	Data   string
}

type SendOptions struct {
	ReplyTo  MessageHandle
	Controls []Control
}
