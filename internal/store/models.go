package store

import (
	"time"

	"albot/internal/raid"
)

// Per-Discord-guild bot settings, written by /setup config
type GuildConfig struct {
	GuildID        string `gorm:"primaryKey;size:32"`
	AdminRole      string `gorm:"size:32;not null"`
	ModRole        string `gorm:"size:32;not null"`
	AllowedRole    string `gorm:"size:32"`
	RaidRole       string `gorm:"size:32"`
	RaidNotifyRole string `gorm:"size:32"`
	AlertChannel   string `gorm:"size:32"`
	PurgeOnLeave   bool   `gorm:"not null"`
	EditNick       bool   `gorm:"not null"`
	ShowGuildTag   bool   `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// An Albion guild registered with /guild add, tied to the Discord
// role its members get and the tag shown in nicknames
type AlbionGuild struct {
	ID             uint   `gorm:"primaryKey"`
	AlbionID       string `gorm:"size:64;not null;uniqueIndex:uk_albion_discord,priority:1"`
	DiscordGuildID string `gorm:"size:32;not null;uniqueIndex:uk_albion_discord,priority:2"`
	GuildRole      string `gorm:"size:32;not null"`
	GuildTag       string `gorm:"size:8;not null"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// A registered player, linking a Discord account to an Albion
// character. LastVerified drives the daily sweep
type Player struct {
	ID           uint   `gorm:"primaryKey"`
	DiscordID    string `gorm:"size:32;not null;uniqueIndex"`
	AlbionID     string `gorm:"size:64;not null;uniqueIndex"`
	AlbionName   string `gorm:"size:64;not null"`
	GuildID      string `gorm:"size:64"`
	GuildName    string `gorm:"size:128"`
	KillFame     int64  `gorm:"not null;default:0"`
	DeathFame    int64  `gorm:"not null;default:0"`
	LastVerified *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type RaidPreset struct {
	ID        uint       `gorm:"primaryKey"`
	GuildID   string     `gorm:"size:32;not null;uniqueIndex:uk_guild_preset,priority:1"`
	Name      string     `gorm:"size:64;not null;uniqueIndex:uk_guild_preset,priority:2"`
	Slots     raid.Slots `gorm:"serializer:json;not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (record *RaidPreset) toDomain() raid.Preset {
	return raid.Preset{GuildID: record.GuildID, Name: record.Name, Slots: record.Slots}
}

// One posted raid board. Participants is stored as a single typed
// JSON structure; a value that does not decode fails the transaction
// instead of being re-parsed into shape
type RaidRoster struct {
	ID              uint   `gorm:"primaryKey"`
	GuildID         string `gorm:"size:32;not null;uniqueIndex:uk_guild_message,priority:1"`
	MessageID       string `gorm:"size:32;not null;uniqueIndex:uk_guild_message,priority:2"`
	ChannelID       string `gorm:"size:32;not null"`
	CreatedBy       string `gorm:"size:32;not null"`
	Preset          string `gorm:"size:64;not null"`
	RaidDate        string `gorm:"size:32;not null"`
	RaidTime        string `gorm:"size:32;not null"`
	Description     string `gorm:"type:text"`
	GearRequirement string `gorm:"size:64"`
	ItemPower       string `gorm:"size:32"`
	Participants    raid.Participants `gorm:"serializer:json"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (record *RaidRoster) toDomain() raid.Roster {
	participants := record.Participants
	if participants == nil {
		participants = raid.Participants{}
	}
	return raid.Roster{
		GuildID:         record.GuildID,
		MessageID:       record.MessageID,
		ChannelID:       record.ChannelID,
		CreatedBy:       record.CreatedBy,
		Preset:          record.Preset,
		Date:            record.RaidDate,
		Time:            record.RaidTime,
		Description:     record.Description,
		GearRequirement: record.GearRequirement,
		ItemPower:       record.ItemPower,
		Participants:    participants,
	}
}

func (record *RaidRoster) fromDomain(roster *raid.Roster) {
	record.GuildID = roster.GuildID
	record.MessageID = roster.MessageID
	record.ChannelID = roster.ChannelID
	record.CreatedBy = roster.CreatedBy
	record.Preset = roster.Preset
	record.RaidDate = roster.Date
	record.RaidTime = roster.Time
	record.Description = roster.Description
	record.GearRequirement = roster.GearRequirement
	record.ItemPower = roster.ItemPower
	record.Participants = roster.Participants
}
