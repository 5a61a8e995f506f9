package raid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBoard(t *testing.T) {

	preset := Preset{
		GuildID: "guild-1",
		Name:    "zvz",
		Slots:   Slots{{Role: "Tank", Capacity: 2}, {Role: "Healer", Capacity: 1}, {Role: "Support", Capacity: 0}},
	}
	roster := Roster{
		GuildID:     "guild-1",
		MessageID:   "message-1",
		CreatedBy:   "creator",
		Preset:      "zvz",
		Date:        "2025-06-01",
		Time:        "20:00",
		Description: "Castle fight",
		ItemPower:   "1400",
		Participants: Participants{
			"Tank":     {"userA", "userB"},
			"Healer":   {"userC"},
			"Obsolete": {"userD"},
		},
	}

	board, err := BuildBoard(&roster, &preset)
	require.NoError(t, err)

	assert.Equal(t, "zvz", board.Preset)
	assert.Equal(t, "2025-06-01", board.Date)
	assert.Equal(t, "1400", board.ItemPower)

	// Slots come out in the preset's declared order; the stale role
	// is not rendered and the stored roster is left alone
	require.Len(t, board.Slots, 3)
	assert.Equal(t, "Tank", board.Slots[0].Role)
	assert.Equal(t, 2, board.Slots[0].Count())
	assert.Equal(t, []string{"userA", "userB"}, board.Slots[0].Occupants)
	assert.Equal(t, "Healer", board.Slots[1].Role)
	assert.Equal(t, []string{"userC"}, board.Slots[1].Occupants)
	assert.Equal(t, "Support", board.Slots[2].Role)
	assert.Equal(t, 0, board.Slots[2].Capacity)
	assert.Empty(t, board.Slots[2].Occupants)

	assert.Contains(t, roster.Participants, "Obsolete")
}

func TestBuildBoardWithoutPreset(t *testing.T) {

	roster := Roster{Preset: "gone", Participants: Participants{"Tank": {"userA"}}}

	_, err := BuildBoard(&roster, nil)
	assert.ErrorIs(t, err, ErrPresetMissing)
	assert.Equal(t, []string{"userA"}, roster.Participants["Tank"])
}
