package raid

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Engine runs the sign-up state machine over one roster at a time.
// It is the sole writer of a roster's participants: every mutation
// happens inside the store transaction, behind a per-roster mutex,
// so the capacity check and the insertion it gates are atomic with
// respect to any other click on the same board
type Engine struct {
	rosters RosterStore
	presets PresetCatalog
	locks   *keyedMutex
}

func NewEngine(rosters RosterStore, presets PresetCatalog) *Engine {
	return &Engine{rosters: rosters, presets: presets, locks: newKeyedMutex()}
}

func rosterKey(guildid string, messageid string) string {
	return guildid + "/" + messageid
}

type SignUpResult struct {
	// Committed state of the roster after the operation
	Roster Roster
	// The role the user ended up in
	Role string
	// The role the user switched away from, if any
	PreviousRole string
}

type CancelResult struct {
	Roster Roster
	// The role the user was removed from
	Role string
}

// SignUp puts the user into the given role, switching them over if
// they were signed up for another one. It reports ErrInvalidRole for
// a role the preset does not know, ErrAlreadyAssigned for a repeat
// click on the user's current role, and ErrSlotFull when the role is
// at capacity; a full slot aborts the transaction, so a failed switch
// leaves the user in the role they came from
func (engine *Engine) SignUp(ctx context.Context, guildid string, messageid string, userid string, role string) (SignUpResult, error) {

	unlock := engine.locks.lock(rosterKey(guildid, messageid))
	defer unlock()

	var result SignUpResult
	roster, err := engine.rosters.WithRoster(ctx, guildid, messageid, func(roster *Roster) error {

		preset, err := engine.findPreset(ctx, roster)
		if err != nil {
			return err
		}
		roster.Participants.Normalize(preset.Slots)

		capacity, ok := preset.Slots.Capacity(role)
		if !ok {
			return ErrInvalidRole
		}

		// The same-role check has to run before the capacity check,
		// otherwise a user re-confirming their own slot in a full
		// role would be rejected
		if current, ok := roster.Participants.RoleOf(userid); ok {
			if current == role {
				return ErrAlreadyAssigned
			}
			roster.Participants.Remove(userid)
			result.PreviousRole = current
		}

		if len(roster.Participants[role]) >= capacity {
			return ErrSlotFull
		}

		roster.Participants[role] = append(roster.Participants[role], userid)
		result.Role = role
		return nil
	})
	if err != nil {
		return SignUpResult{}, err
	}

	if result.PreviousRole != "" {
		log.Debug().Msg(fmt.Sprintf("User %s switched from %s to %s on board %s", userid, result.PreviousRole, result.Role, messageid))
	}
	result.Roster = roster
	return result, nil
}

// CancelSignUp takes the user off the board, whatever role they are
// in. ErrNotAssigned means there was nothing to cancel and nothing
// was written
func (engine *Engine) CancelSignUp(ctx context.Context, guildid string, messageid string, userid string) (CancelResult, error) {

	unlock := engine.locks.lock(rosterKey(guildid, messageid))
	defer unlock()

	var result CancelResult
	roster, err := engine.rosters.WithRoster(ctx, guildid, messageid, func(roster *Roster) error {

		// Normalize if the preset is still around; cancelling must
		// keep working on a degraded board
		if preset, err := engine.findPreset(ctx, roster); err == nil {
			roster.Participants.Normalize(preset.Slots)
		} else if !errors.Is(err, ErrPresetMissing) {
			return err
		}

		role, ok := roster.Participants.Remove(userid)
		if !ok {
			return ErrNotAssigned
		}
		result.Role = role
		return nil
	})
	if err != nil {
		return CancelResult{}, err
	}

	result.Roster = roster
	return result, nil
}

// Delete destroys the roster record. Only the creator may do so,
// unless the caller attests elevated capability (administrator or
// moderator, decided outside this package). Removing the posted
// board message afterwards is the caller's business; the record is
// gone either way
func (engine *Engine) Delete(ctx context.Context, guildid string, messageid string, userid string, elevated bool) (Roster, error) {

	unlock := engine.locks.lock(rosterKey(guildid, messageid))
	defer unlock()

	roster, err := engine.rosters.FindByMessageID(ctx, guildid, messageid)
	if err != nil {
		return Roster{}, err
	}
	if roster.CreatedBy != userid && !elevated {
		return Roster{}, ErrForbidden
	}
	if err := engine.rosters.Destroy(ctx, guildid, messageid); err != nil {
		return Roster{}, err
	}
	return roster, nil
}

// Board renders the committed roster into its display form.
// ErrPresetMissing tells the caller to render a degraded board that
// keeps the metadata but cannot show slot detail
func (engine *Engine) Board(ctx context.Context, roster *Roster) (Board, error) {
	preset, err := engine.presets.Find(ctx, roster.GuildID, roster.Preset)
	if errors.Is(err, ErrNotFound) {
		return Board{}, ErrPresetMissing
	}
	if err != nil {
		return Board{}, err
	}
	return BuildBoard(roster, &preset)
}

func (engine *Engine) findPreset(ctx context.Context, roster *Roster) (Preset, error) {
	preset, err := engine.presets.Find(ctx, roster.GuildID, roster.Preset)
	if errors.Is(err, ErrNotFound) {
		return Preset{}, ErrPresetMissing
	}
	return preset, err
}
