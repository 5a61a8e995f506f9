package raid

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory implementations of the two store boundaries, with the
// same transactional contract as the real ones: WithRoster hands out
// a copy and only publishes it if fn succeeds

type memCatalog struct {
	mu      sync.Mutex
	presets map[string]Preset
}

func newMemCatalog() *memCatalog {
	return &memCatalog{presets: make(map[string]Preset)}
}

func presetKey(guildid string, name string) string {
	return guildid + "/" + name
}

func (c *memCatalog) Create(ctx context.Context, preset *Preset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := presetKey(preset.GuildID, preset.Name)
	if _, ok := c.presets[key]; ok {
		return ErrAlreadyExists
	}
	c.presets[key] = *preset
	return nil
}

func (c *memCatalog) Find(ctx context.Context, guildid string, name string) (Preset, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	preset, ok := c.presets[presetKey(guildid, name)]
	if !ok {
		return Preset{}, ErrNotFound
	}
	return preset, nil
}

func (c *memCatalog) List(ctx context.Context, guildid string) iter.Seq2[Preset, error] {
	return func(yield func(Preset, error) bool) {
		c.mu.Lock()
		var presets []Preset
		for _, preset := range c.presets {
			if preset.GuildID == guildid {
				presets = append(presets, preset)
			}
		}
		c.mu.Unlock()
		sort.Slice(presets, func(i, j int) bool { return presets[i].Name < presets[j].Name })
		for _, preset := range presets {
			if !yield(preset, nil) {
				return
			}
		}
	}
}

func (c *memCatalog) Delete(ctx context.Context, guildid string, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := presetKey(guildid, name)
	if _, ok := c.presets[key]; !ok {
		return ErrNotFound
	}
	delete(c.presets, key)
	return nil
}

type memRosters struct {
	mu      sync.Mutex
	rosters map[string]Roster
}

func newMemRosters() *memRosters {
	return &memRosters{rosters: make(map[string]Roster)}
}

func (s *memRosters) Create(ctx context.Context, roster *Roster) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rosterKey(roster.GuildID, roster.MessageID)
	if _, ok := s.rosters[key]; ok {
		return ErrAlreadyExists
	}
	s.rosters[key] = roster.Clone()
	return nil
}

func (s *memRosters) FindByMessageID(ctx context.Context, guildid string, messageid string) (Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	roster, ok := s.rosters[rosterKey(guildid, messageid)]
	if !ok {
		return Roster{}, ErrNotFound
	}
	return roster.Clone(), nil
}

func (s *memRosters) Destroy(ctx context.Context, guildid string, messageid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := rosterKey(guildid, messageid)
	if _, ok := s.rosters[key]; !ok {
		return ErrNotFound
	}
	delete(s.rosters, key)
	return nil
}

func (s *memRosters) WithRoster(ctx context.Context, guildid string, messageid string, fn func(*Roster) error) (Roster, error) {
	s.mu.Lock()
	stored, ok := s.rosters[rosterKey(guildid, messageid)]
	s.mu.Unlock()
	if !ok {
		return Roster{}, ErrNotFound
	}

	working := stored.Clone()
	if err := fn(&working); err != nil {
		return Roster{}, err
	}

	s.mu.Lock()
	s.rosters[rosterKey(guildid, messageid)] = working.Clone()
	s.mu.Unlock()
	return working, nil
}

const (
	testGuild   = "guild-1"
	testMessage = "message-1"
)

func newTestEngine(t *testing.T, slots Slots) (*Engine, *memRosters, *memCatalog) {
	t.Helper()

	catalog := newMemCatalog()
	rosters := newMemRosters()

	preset := Preset{GuildID: testGuild, Name: "zvz", Slots: slots}
	require.NoError(t, catalog.Create(context.Background(), &preset))

	roster := Roster{
		GuildID:      testGuild,
		MessageID:    testMessage,
		CreatedBy:    "creator",
		Preset:       "zvz",
		Date:         "2025-06-01",
		Time:         "20:00",
		Description:  "Castle fight",
		Participants: Participants{},
	}
	require.NoError(t, rosters.Create(context.Background(), &roster))

	return NewEngine(rosters, catalog), rosters, catalog
}

func storedParticipants(t *testing.T, rosters *memRosters) Participants {
	t.Helper()
	roster, err := rosters.FindByMessageID(context.Background(), testGuild, testMessage)
	require.NoError(t, err)
	return roster.Participants
}

func TestSignUpScenario(t *testing.T) {

	// Preset {Tank:1, Healer:1}: A takes the tank slot, B bounces
	// off the full slot, A cancels, B gets in
	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}, {Role: "Healer", Capacity: 1}})
	ctx := context.Background()

	result, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)
	assert.Equal(t, "Tank", result.Role)
	assert.Empty(t, result.PreviousRole)
	assert.Equal(t, []string{"userA"}, result.Roster.Participants["Tank"])

	_, err = engine.SignUp(ctx, testGuild, testMessage, "userB", "Tank")
	assert.ErrorIs(t, err, ErrSlotFull)
	assert.Equal(t, []string{"userA"}, storedParticipants(t, rosters)["Tank"])

	cancel, err := engine.CancelSignUp(ctx, testGuild, testMessage, "userA")
	require.NoError(t, err)
	assert.Equal(t, "Tank", cancel.Role)
	assert.Empty(t, cancel.Roster.Participants["Tank"])

	result, err = engine.SignUp(ctx, testGuild, testMessage, "userB", "Tank")
	require.NoError(t, err)
	assert.Equal(t, []string{"userB"}, result.Roster.Participants["Tank"])
}

func TestSignUpIdempotent(t *testing.T) {

	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)
	before := storedParticipants(t, rosters)

	// The second click lands on a role that is full to capacity, but
	// re-confirming your own slot is a no-op, not a rejection
	_, err = engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	assert.ErrorIs(t, err, ErrAlreadyAssigned)
	assert.Equal(t, before, storedParticipants(t, rosters))
}

func TestSignUpSwitch(t *testing.T) {

	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 2}, {Role: "Healer", Capacity: 2}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)

	result, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Healer")
	require.NoError(t, err)
	assert.Equal(t, "Healer", result.Role)
	assert.Equal(t, "Tank", result.PreviousRole)

	participants := storedParticipants(t, rosters)
	assert.Empty(t, participants["Tank"])
	assert.Equal(t, []string{"userA"}, participants["Healer"])
}

func TestSwitchToFullRoleKeepsPreviousRole(t *testing.T) {

	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 2}, {Role: "Healer", Capacity: 1}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userB", "Healer")
	require.NoError(t, err)
	_, err = engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)

	_, err = engine.SignUp(ctx, testGuild, testMessage, "userA", "Healer")
	assert.ErrorIs(t, err, ErrSlotFull)

	// The failed switch must not have cost userA their tank slot
	participants := storedParticipants(t, rosters)
	assert.Equal(t, []string{"userA"}, participants["Tank"])
	assert.Equal(t, []string{"userB"}, participants["Healer"])
}

func TestSignUpInvalidRole(t *testing.T) {

	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Bard")
	assert.ErrorIs(t, err, ErrInvalidRole)
	assert.Empty(t, storedParticipants(t, rosters)["Tank"])
}

func TestSignUpZeroCapacityRole(t *testing.T) {

	engine, _, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 0}})

	_, err := engine.SignUp(context.Background(), testGuild, testMessage, "userA", "Tank")
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestSignUpUnknownRoster(t *testing.T) {

	engine, _, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})

	_, err := engine.SignUp(context.Background(), testGuild, "no-such-message", "userA", "Tank")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSignUpAfterPresetDeleted(t *testing.T) {

	engine, rosters, catalog := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)
	require.NoError(t, catalog.Delete(ctx, testGuild, "zvz"))

	_, err = engine.SignUp(ctx, testGuild, testMessage, "userB", "Tank")
	assert.ErrorIs(t, err, ErrPresetMissing)

	// The roster record and its participants survive untouched
	assert.Equal(t, []string{"userA"}, storedParticipants(t, rosters)["Tank"])

	// Cancelling still works on the degraded board
	cancel, err := engine.CancelSignUp(ctx, testGuild, testMessage, "userA")
	require.NoError(t, err)
	assert.Equal(t, "Tank", cancel.Role)
}

func TestCancelRoundTrip(t *testing.T) {

	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 2}, {Role: "Healer", Capacity: 2}})
	ctx := context.Background()

	_, err := engine.SignUp(ctx, testGuild, testMessage, "userB", "Healer")
	require.NoError(t, err)
	before := storedParticipants(t, rosters)

	_, err = engine.SignUp(ctx, testGuild, testMessage, "userA", "Tank")
	require.NoError(t, err)
	_, err = engine.CancelSignUp(ctx, testGuild, testMessage, "userA")
	require.NoError(t, err)

	assert.Equal(t, before, storedParticipants(t, rosters))
}

func TestCancelNotAssigned(t *testing.T) {

	engine, _, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})

	_, err := engine.CancelSignUp(context.Background(), testGuild, testMessage, "userA")
	assert.ErrorIs(t, err, ErrNotAssigned)
}

func TestDeletePermissions(t *testing.T) {

	ctx := context.Background()

	t.Run("stranger is rejected", func(t *testing.T) {
		engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
		_, err := engine.Delete(ctx, testGuild, testMessage, "stranger", false)
		assert.ErrorIs(t, err, ErrForbidden)
		_, err = rosters.FindByMessageID(ctx, testGuild, testMessage)
		assert.NoError(t, err)
	})

	t.Run("creator may delete", func(t *testing.T) {
		engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
		roster, err := engine.Delete(ctx, testGuild, testMessage, "creator", false)
		require.NoError(t, err)
		assert.Equal(t, testMessage, roster.MessageID)
		_, err = rosters.FindByMessageID(ctx, testGuild, testMessage)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("elevated requester may delete", func(t *testing.T) {
		engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
		_, err := engine.Delete(ctx, testGuild, testMessage, "moderator", true)
		require.NoError(t, err)
		_, err = rosters.FindByMessageID(ctx, testGuild, testMessage)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("missing roster", func(t *testing.T) {
		engine, _, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
		_, err := engine.Delete(ctx, testGuild, "no-such-message", "creator", false)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestConcurrentSignUpRace(t *testing.T) {

	// Two clicks racing for the last slot: exactly one success and
	// one SlotFull, never two of either
	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: 1}})
	ctx := context.Background()

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for _, userid := range []string{"userA", "userB"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := engine.SignUp(ctx, testGuild, testMessage, userid, "Tank")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var successes, full int
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, ErrSlotFull):
			full++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, full)
	assert.Len(t, storedParticipants(t, rosters)["Tank"], 1)
}

func TestConcurrentSignUpCapacityInvariant(t *testing.T) {

	const capacity = 3
	engine, rosters, _ := newTestEngine(t, Slots{{Role: "Tank", Capacity: capacity}, {Role: "Healer", Capacity: 2}})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			userid := fmt.Sprintf("user-%d", i)
			role := "Tank"
			if i%3 == 0 {
				role = "Healer"
			}
			_, err := engine.SignUp(ctx, testGuild, testMessage, userid, role)
			if err != nil && !errors.Is(err, ErrSlotFull) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	participants := storedParticipants(t, rosters)
	assert.LessOrEqual(t, len(participants["Tank"]), capacity)
	assert.LessOrEqual(t, len(participants["Healer"]), 2)

	// Single-membership invariant
	seen := make(map[string]string)
	for role, users := range participants {
		for _, userid := range users {
			if other, ok := seen[userid]; ok {
				t.Fatalf("user %s is in both %s and %s", userid, other, role)
			}
			seen[userid] = role
		}
	}
}
