package store

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"albot/internal/raid"
)

// RosterRepository implements raid.RosterStore on the raid_rosters
// table. WithRoster serializes writers on the same roster through a
// row lock, so two boards never block each other
type RosterRepository struct {
	db *gorm.DB
}

func NewRosterRepository(db *gorm.DB) *RosterRepository {
	return &RosterRepository{db: db}
}

func (repo *RosterRepository) Create(ctx context.Context, roster *raid.Roster) error {
	var record RaidRoster
	record.fromDomain(roster)
	return translate(repo.db.WithContext(ctx).Create(&record).Error)
}

func (repo *RosterRepository) FindByMessageID(ctx context.Context, guildid string, messageid string) (raid.Roster, error) {
	var record RaidRoster
	err := repo.db.WithContext(ctx).
		Where("guild_id = ? AND message_id = ?", guildid, messageid).
		First(&record).Error
	if err != nil {
		return raid.Roster{}, translate(err)
	}
	return record.toDomain(), nil
}

func (repo *RosterRepository) Destroy(ctx context.Context, guildid string, messageid string) error {
	result := repo.db.WithContext(ctx).
		Where("guild_id = ? AND message_id = ?", guildid, messageid).
		Delete(&RaidRoster{})
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return raid.ErrNotFound
	}
	return nil
}

// WithRoster loads the roster under SELECT ... FOR UPDATE, lets fn
// mutate a copy and commits the result. Errors from fn roll the
// transaction back and come out unchanged; database faults come out
// wrapped
func (repo *RosterRepository) WithRoster(ctx context.Context, guildid string, messageid string, fn func(*raid.Roster) error) (raid.Roster, error) {
	var committed raid.Roster
	err := repo.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record RaidRoster
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("guild_id = ? AND message_id = ?", guildid, messageid).
			First(&record).Error
		if err != nil {
			return translate(err)
		}

		roster := record.toDomain()
		if err := fn(&roster); err != nil {
			return err
		}

		record.fromDomain(&roster)
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("could not save roster %s: %w", messageid, err)
		}
		committed = roster
		return nil
	})
	if err != nil {
		return raid.Roster{}, err
	}
	return committed, nil
}
