package raid

import "strings"

// Wire format of the button custom ids posted with every board.
// Kept stable so boards posted by older deployments keep working
const (
	signUpPrefix   = "raid_signup_"
	CancelCustomID = "raid_cancel_signup"
	DeleteCustomID = "raid_delete_cta"
	customIDPrefix = "raid_"
)

type ActionKind int

const (
	ActionSignUp ActionKind = iota
	ActionCancel
	ActionDelete
)

// An inbound UI action decoded from a button custom id
type Action struct {
	Kind ActionKind
	Role string
}

// SignUpCustomID builds the custom id of the sign-up button for a role
func SignUpCustomID(role string) string {
	return signUpPrefix + role
}

// IsBoardAction tells whether a custom id belongs to a raid board at
// all, so unrelated components can be dispatched elsewhere
func IsBoardAction(customid string) bool {
	return strings.HasPrefix(customid, customIDPrefix)
}

// DecodeAction maps a button custom id to the engine operation it
// stands for. Malformed tokens come back as ErrUnknownAction and must
// be rejected before any engine call
func DecodeAction(customid string) (Action, error) {
	switch {
	case customid == CancelCustomID:
		return Action{Kind: ActionCancel}, nil
	case customid == DeleteCustomID:
		return Action{Kind: ActionDelete}, nil
	case strings.HasPrefix(customid, signUpPrefix):
		role := customid[len(signUpPrefix):]
		if role == "" {
			return Action{}, ErrUnknownAction
		}
		return Action{Kind: ActionSignUp, Role: role}, nil
	default:
		return Action{}, ErrUnknownAction
	}
}
