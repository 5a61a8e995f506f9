package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AlbionGuildRepository struct {
	db *gorm.DB
}

func NewAlbionGuildRepository(db *gorm.DB) *AlbionGuildRepository {
	return &AlbionGuildRepository{db: db}
}

func (repo *AlbionGuildRepository) Create(ctx context.Context, guild *AlbionGuild) error {
	return translate(repo.db.WithContext(ctx).Create(guild).Error)
}

func (repo *AlbionGuildRepository) Find(ctx context.Context, discordGuildID string, albionID string) (*AlbionGuild, error) {
	var guild AlbionGuild
	err := repo.db.WithContext(ctx).
		Where("discord_guild_id = ? AND albion_id = ?", discordGuildID, albionID).
		First(&guild).Error
	if err != nil {
		return nil, translate(err)
	}
	return &guild, nil
}

func (repo *AlbionGuildRepository) ListByDiscordGuild(ctx context.Context, discordGuildID string) ([]AlbionGuild, error) {
	var guilds []AlbionGuild
	err := repo.db.WithContext(ctx).
		Where("discord_guild_id = ?", discordGuildID).
		Order("guild_tag").
		Find(&guilds).Error
	if err != nil {
		return nil, translate(err)
	}
	return guilds, nil
}

// ListByAlbionID returns every Discord guild tracking the given Albion
// guild. The verification sweep uses this to find which roles to touch
func (repo *AlbionGuildRepository) ListByAlbionID(ctx context.Context, albionID string) ([]AlbionGuild, error) {
	var guilds []AlbionGuild
	err := repo.db.WithContext(ctx).
		Where("albion_id = ?", albionID).
		Find(&guilds).Error
	if err != nil {
		return nil, translate(err)
	}
	return guilds, nil
}

// GuildConfigRepository stores the per-Discord-guild settings
type GuildConfigRepository struct {
	db *gorm.DB
}

func NewGuildConfigRepository(db *gorm.DB) *GuildConfigRepository {
	return &GuildConfigRepository{db: db}
}

func (repo *GuildConfigRepository) Find(ctx context.Context, guildid string) (*GuildConfig, error) {
	var config GuildConfig
	err := repo.db.WithContext(ctx).Where("guild_id = ?", guildid).First(&config).Error
	if err != nil {
		return nil, translate(err)
	}
	return &config, nil
}

// Upsert replaces the settings for the guild, keeping /setup config
// re-runnable
func (repo *GuildConfigRepository) Upsert(ctx context.Context, config *GuildConfig) error {
	return translate(repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "guild_id"}},
			UpdateAll: true,
		}).
		Create(config).Error)
}
