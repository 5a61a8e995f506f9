package store

import (
	"context"
	"errors"
	"iter"

	"gorm.io/gorm"

	"albot/internal/raid"
)

// PresetRepository implements raid.PresetCatalog on the raid_presets
// table
type PresetRepository struct {
	db *gorm.DB
}

func NewPresetRepository(db *gorm.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

func (repo *PresetRepository) Create(ctx context.Context, preset *raid.Preset) error {
	if err := preset.Slots.Validate(); err != nil {
		return err
	}
	record := RaidPreset{GuildID: preset.GuildID, Name: preset.Name, Slots: preset.Slots}
	return translate(repo.db.WithContext(ctx).Create(&record).Error)
}

func (repo *PresetRepository) Find(ctx context.Context, guildid string, name string) (raid.Preset, error) {
	var record RaidPreset
	err := repo.db.WithContext(ctx).
		Where("guild_id = ? AND name = ?", guildid, name).
		First(&record).Error
	if err != nil {
		return raid.Preset{}, translate(err)
	}
	return record.toDomain(), nil
}

// List re-queries the table every time the sequence is ranged over,
// so callers always see the current catalog
func (repo *PresetRepository) List(ctx context.Context, guildid string) iter.Seq2[raid.Preset, error] {
	return func(yield func(raid.Preset, error) bool) {
		var records []RaidPreset
		err := repo.db.WithContext(ctx).
			Where("guild_id = ?", guildid).
			Order("name").
			Find(&records).Error
		if err != nil {
			yield(raid.Preset{}, translate(err))
			return
		}
		for _, record := range records {
			if !yield(record.toDomain(), nil) {
				return
			}
		}
	}
}

func (repo *PresetRepository) Delete(ctx context.Context, guildid string, name string) error {
	result := repo.db.WithContext(ctx).
		Where("guild_id = ? AND name = ?", guildid, name).
		Delete(&RaidPreset{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return raid.ErrNotFound
	}
	return nil
}

// translate maps gorm errors onto the domain taxonomy. Anything not
// covered is a persistence fault and passes through for the caller
// to wrap
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return raid.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return raid.ErrAlreadyExists
	default:
		return err
	}
}
