package raid

import (
	"fmt"
	"slices"
)

// One role slot of a preset. The slice order of Slots is the order
// the roles were declared in, and the order boards display them in.
type SlotCount struct {
	Role     string `json:"role"`
	Capacity int    `json:"capacity"`
}

type Slots []SlotCount

// Capacity returns the slot count for the given role, and whether
// the role exists in the preset at all
func (slots Slots) Capacity(role string) (int, bool) {
	for _, slot := range slots {
		if slot.Role == role {
			return slot.Capacity, true
		}
	}
	return 0, false
}

func (slots Slots) Roles() []string {
	roles := make([]string, len(slots))
	for i, slot := range slots {
		roles[i] = slot.Role
	}
	return roles
}

// Validate rejects slot lists a preset cannot be created with:
// no roles at all, a repeated role, or a negative capacity.
// A capacity of zero is fine and simply disables the role
func (slots Slots) Validate() error {
	if len(slots) == 0 {
		return fmt.Errorf("a preset needs at least one role")
	}
	seen := make(map[string]struct{}, len(slots))
	for _, slot := range slots {
		if slot.Role == "" {
			return fmt.Errorf("empty role name")
		}
		if _, ok := seen[slot.Role]; ok {
			return fmt.Errorf("role %q appears twice", slot.Role)
		}
		seen[slot.Role] = struct{}{}
		if slot.Capacity < 0 {
			return fmt.Errorf("role %q has negative capacity %d", slot.Role, slot.Capacity)
		}
	}
	return nil
}

// A named template of role capacities, unique per Discord guild.
// Rosters reference a preset by name, so deleting one does not touch
// existing rosters; their boards degrade until the roster is deleted
type Preset struct {
	GuildID string
	Name    string
	Slots   Slots
}

// Participants maps a role to the ordered list of signed-up user ids.
// A user id appears in at most one list at any committed state
type Participants map[string][]string

// RoleOf returns the role the user is currently signed up for
func (p Participants) RoleOf(userid string) (string, bool) {
	for role, users := range p {
		if slices.Contains(users, userid) {
			return role, true
		}
	}
	return "", false
}

// Remove takes the user out of whichever role list contains them
// and returns that role
func (p Participants) Remove(userid string) (string, bool) {
	for role, users := range p {
		if i := slices.Index(users, userid); i != -1 {
			p[role] = slices.Delete(users, i, i+1)
			return role, true
		}
	}
	return "", false
}

func (p Participants) Clone() Participants {
	clone := make(Participants, len(p))
	for role, users := range p {
		clone[role] = slices.Clone(users)
	}
	return clone
}

// Normalize repairs the stored map against the preset it belongs to:
// roles that are no longer in the preset are pruned, roles missing
// from the map get an empty list, and a user found in more than one
// list keeps only the first occurrence in preset order.
// Every engine operation and every render normalizes before reading
func (p Participants) Normalize(slots Slots) {
	for role := range p {
		if _, ok := slots.Capacity(role); !ok {
			delete(p, role)
		}
	}
	seen := make(map[string]struct{})
	for _, slot := range slots {
		users := p[slot.Role]
		kept := make([]string, 0, len(users))
		for _, userid := range users {
			if _, ok := seen[userid]; ok {
				continue
			}
			seen[userid] = struct{}{}
			kept = append(kept, userid)
		}
		p[slot.Role] = kept
	}
}

// One posted raid board's live sign-up record.
// The schedule fields are free text, kept exactly as the creator
// typed them
type Roster struct {
	GuildID         string
	MessageID       string
	ChannelID       string
	CreatedBy       string
	Preset          string
	Date            string
	Time            string
	Description     string
	GearRequirement string
	ItemPower       string
	Participants    Participants
}

func (roster *Roster) Clone() Roster {
	clone := *roster
	clone.Participants = roster.Participants.Clone()
	return clone
}
