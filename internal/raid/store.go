package raid

import (
	"context"
	"iter"
)

// PresetCatalog is the persistence boundary for presets.
// Find reports ErrNotFound and Create reports ErrAlreadyExists;
// List yields presets lazily and can be ranged over again, re-reading
// the catalog each time
type PresetCatalog interface {
	Create(ctx context.Context, preset *Preset) error
	Find(ctx context.Context, guildid string, name string) (Preset, error)
	List(ctx context.Context, guildid string) iter.Seq2[Preset, error]
	Delete(ctx context.Context, guildid string, name string) error
}

// RosterStore is the persistence boundary for rosters.
//
// WithRoster is the unit of atomicity the engine builds on: it loads
// the roster inside a transaction, hands a mutable copy to fn, and
// commits whatever fn leaves behind. Any error from fn rolls the
// whole transaction back and is returned unchanged, so no partial
// mutation is ever observable. The returned roster is the committed
// state
type RosterStore interface {
	Create(ctx context.Context, roster *Roster) error
	FindByMessageID(ctx context.Context, guildid string, messageid string) (Roster, error)
	Destroy(ctx context.Context, guildid string, messageid string) error
	WithRoster(ctx context.Context, guildid string, messageid string, fn func(*Roster) error) (Roster, error)
}
