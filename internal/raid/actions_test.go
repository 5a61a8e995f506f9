package raid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAction(t *testing.T) {

	cases := []struct {
		customid string
		action   Action
		ok       bool
	}{
		{"raid_signup_Tank", Action{Kind: ActionSignUp, Role: "Tank"}, true},
		{"raid_signup_Melee DPS", Action{Kind: ActionSignUp, Role: "Melee DPS"}, true},
		{"raid_cancel_signup", Action{Kind: ActionCancel}, true},
		{"raid_delete_cta", Action{Kind: ActionDelete}, true},
		{"raid_signup_", Action{}, false},
		{"raid_bogus", Action{}, false},
		{"unrelated_button", Action{}, false},
		{"", Action{}, false},
	}
	for _, tc := range cases {
		t.Run(tc.customid, func(t *testing.T) {
			action, err := DecodeAction(tc.customid)
			if tc.ok {
				require.NoError(t, err)
				assert.Equal(t, tc.action, action)
			} else {
				assert.ErrorIs(t, err, ErrUnknownAction)
			}
		})
	}
}

func TestSignUpCustomIDRoundTrip(t *testing.T) {

	action, err := DecodeAction(SignUpCustomID("Nature Healer"))
	require.NoError(t, err)
	assert.Equal(t, Action{Kind: ActionSignUp, Role: "Nature Healer"}, action)
}

func TestIsBoardAction(t *testing.T) {

	assert.True(t, IsBoardAction("raid_signup_Tank"))
	assert.True(t, IsBoardAction("raid_delete_cta"))
	assert.False(t, IsBoardAction("poll_vote_1"))
}
