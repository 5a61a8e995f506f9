package raid

// The rendered, human-readable view of a roster: metadata plus one
// entry per preset role, in the preset's declared order
type Board struct {
	Preset          string
	CreatedBy       string
	Date            string
	Time            string
	Description     string
	GearRequirement string
	ItemPower       string
	Slots           []BoardSlot
}

type BoardSlot struct {
	Role      string
	Capacity  int
	Occupants []string
}

func (slot BoardSlot) Count() int {
	return len(slot.Occupants)
}

// BuildBoard is a pure projection of a roster and its preset into a
// board. It reads a normalized copy of the participants, so a roster
// carrying stale roles renders correctly without being written back
func BuildBoard(roster *Roster, preset *Preset) (Board, error) {
	if preset == nil {
		return Board{}, ErrPresetMissing
	}

	participants := roster.Participants.Clone()
	participants.Normalize(preset.Slots)

	board := Board{
		Preset:          roster.Preset,
		CreatedBy:       roster.CreatedBy,
		Date:            roster.Date,
		Time:            roster.Time,
		Description:     roster.Description,
		GearRequirement: roster.GearRequirement,
		ItemPower:       roster.ItemPower,
	}
	for _, slot := range preset.Slots {
		board.Slots = append(board.Slots, BoardSlot{
			Role:      slot.Role,
			Capacity:  slot.Capacity,
			Occupants: participants[slot.Role],
		})
	}
	return board, nil
}
