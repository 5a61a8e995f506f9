package store

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type PlayerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

func (repo *PlayerRepository) Create(ctx context.Context, player *Player) error {
	return translate(repo.db.WithContext(ctx).Create(player).Error)
}

func (repo *PlayerRepository) FindByDiscordID(ctx context.Context, discordid string) (*Player, error) {
	var player Player
	err := repo.db.WithContext(ctx).Where("discord_id = ?", discordid).First(&player).Error
	if err != nil {
		return nil, translate(err)
	}
	return &player, nil
}

func (repo *PlayerRepository) Update(ctx context.Context, player *Player) error {
	return translate(repo.db.WithContext(ctx).Save(player).Error)
}

func (repo *PlayerRepository) DeleteByDiscordID(ctx context.Context, discordid string) error {
	return translate(repo.db.WithContext(ctx).Where("discord_id = ?", discordid).Delete(&Player{}).Error)
}

// Stale returns players whose last verification is older than the
// cutoff, including those never verified at all
func (repo *PlayerRepository) Stale(ctx context.Context, cutoff time.Time) ([]Player, error) {
	var players []Player
	err := repo.db.WithContext(ctx).
		Where("last_verified IS NULL OR last_verified < ?", cutoff).
		Find(&players).Error
	if err != nil {
		return nil, translate(err)
	}
	return players, nil
}
