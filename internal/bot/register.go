package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"albot/internal/albionapi"
	"albot/internal/store"
)

// handleRegister links the calling Discord user to their Albion
// character: exact name match against the API, nickname rewrite,
// role swap, player row
func (bot *Bot) handleRegister(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	if err := deferReply(discord, interaction, false); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer register command: %v", err))
		return
	}

	config, ok := bot.guildConfig(ctx, discord, interaction, logger)
	if !ok {
		return
	}

	discordid := interaction.Member.User.ID
	if _, err := bot.players.FindByDiscordID(ctx, discordid); err == nil {
		editReply(discord, interaction, "⚠️ You are already registered.")
		return
	}

	albionName := mapOptions(interaction.ApplicationCommandData().Options).stringValue("albion_name")
	player, err := bot.api.GetPlayerInfo(ctx, albionName)
	if errors.Is(err, albionapi.ErrNotFound) {
		editReply(discord, interaction, fmt.Sprintf("Character \"%s\" not found. Check spelling and try again.", albionName))
		return
	}
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not look up player %s: %v", albionName, err))
		editReply(discord, interaction, "❌ An error occurred during registration.")
		return
	}

	guildData := bot.registeredGuild(ctx, interaction.GuildID, player.GuildId)
	if guildData == nil {
		bot.alertUnregisteredGuild(discord, config, discordid, interaction.Member.User.Username, player, logger)
	}

	nickname, roleAdded, err := bot.applyMembership(discord, interaction.GuildID, discordid, config, guildData, player)
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Role management failed for user %s: %v", discordid, err))
		editReply(discord, interaction, "❌ Failed to update roles. Please check bot permissions and role hierarchy.")
		return
	}

	record := store.Player{
		DiscordID:  discordid,
		AlbionID:   player.Id,
		AlbionName: player.Name,
		GuildID:    player.GuildId,
		GuildName:  player.GuildName,
		KillFame:   player.KillFame,
		DeathFame:  player.DeathFame,
	}
	if err := bot.players.Create(ctx, &record); err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not store player %s: %v", player.Name, err))
		editReply(discord, interaction, "❌ An error occurred during registration.")
		return
	}

	logger.Debug().Msg(fmt.Sprintf("Registered player %s for user %s", player.Name, discordid))
	editReplyEmbed(discord, interaction, RegistrationEmbed(player, roleAdded, nickname))
}

// registeredGuild returns the AlbionGuild record for the player's
// guild, or nil when the guild is unknown or untracked
func (bot *Bot) registeredGuild(ctx context.Context, discordGuildID string, albionGuildID string) *store.AlbionGuild {
	if albionGuildID == "" {
		return nil
	}
	record, err := bot.guilds.Find(ctx, discordGuildID, albionGuildID)
	if err != nil {
		return nil
	}
	return record
}

func (bot *Bot) alertUnregisteredGuild(discord *discordgo.Session, config *store.GuildConfig, discordid string, userTag string, player albionapi.Player, logger zerolog.Logger) {
	if config.AlertChannel == "" {
		return
	}
	if _, err := discord.ChannelMessageSendEmbed(config.AlertChannel, UnregisteredGuildAlert(discordid, userTag, player)); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not send alert to channel %s: %v", config.AlertChannel, err))
		return
	}
	if config.ModRole != "" {
		if _, err := discord.ChannelMessageSend(config.AlertChannel, fmt.Sprintf("<@&%s>", config.ModRole)); err != nil {
			logger.Warn().Msg(fmt.Sprintf("Could not mention mod role in channel %s: %v", config.AlertChannel, err))
		}
	}
}

// applyMembership rewrites the member's nickname and swaps the
// allowed role for the guild role, per the guild settings. The
// nickname is best effort; a failed role grant is an error
func (bot *Bot) applyMembership(discord *discordgo.Session, guildid string, discordid string, config *store.GuildConfig, guildData *store.AlbionGuild, player albionapi.Player) (string, string, error) {

	nickname := player.Name
	if config.EditNick {
		if config.ShowGuildTag && guildData != nil && guildData.GuildTag != "" {
			nickname = fmt.Sprintf("[%s] %s", guildData.GuildTag, player.Name)
		}
		if err := discord.GuildMemberNickname(guildid, discordid, nickname); err != nil {
			log.Warn().Msg(fmt.Sprintf("Could not set nickname for user %s: %v", discordid, err))
		}
	}

	roleAdded := ""
	if config.AllowedRole != "" {
		// Ignore a failure here; the member may not carry the role
		_ = discord.GuildMemberRoleRemove(guildid, discordid, config.AllowedRole)
	}
	if guildData != nil && guildData.GuildRole != "" {
		if err := discord.GuildMemberRoleAdd(guildid, discordid, guildData.GuildRole); err != nil {
			return nickname, "", err
		}
		roleAdded = fmt.Sprintf("<@&%s>", guildData.GuildRole)
	}
	return nickname, roleAdded, nil
}

// verifyPlayers is the daily sweep: every player not verified within
// the configured window is re-checked against the API. Players who
// left their Albion guild lose the guild role and their row; the rest
// get their fame refreshed
func (bot *Bot) verifyPlayers() {

	if bot.session == nil {
		return
	}
	ctx := context.Background()
	cutoff := time.Now().Add(-bot.verifyMaxAge)

	stale, err := bot.players.Stale(ctx, cutoff)
	if err != nil {
		log.Error().Msg(fmt.Sprintf("Verification sweep could not list players: %v", err))
		return
	}
	if len(stale) == 0 {
		return
	}
	log.Debug().Msg(fmt.Sprintf("Verifying %d players", len(stale)))

	for _, player := range stale {
		info, err := bot.api.GetPlayerByID(ctx, player.AlbionID)
		switch {
		case errors.Is(err, albionapi.ErrNotFound), err == nil && info.GuildId == "":
			log.Debug().Msg(fmt.Sprintf("Player %s left their guild, removing", player.AlbionName))
			bot.removeDepartedPlayer(ctx, player)
		case err != nil:
			// Skip this player; the next sweep retries
			log.Warn().Msg(fmt.Sprintf("Verification failed for %s: %v", player.AlbionName, err))
		default:
			now := time.Now()
			player.GuildID = info.GuildId
			player.GuildName = info.GuildName
			player.KillFame = info.KillFame
			player.DeathFame = info.DeathFame
			player.LastVerified = &now
			if err := bot.players.Update(ctx, &player); err != nil {
				log.Warn().Msg(fmt.Sprintf("Could not update player %s: %v", player.AlbionName, err))
			}
		}
	}
}

// removeDepartedPlayer strips the guild role in every Discord guild
// tracking the player's former Albion guild and deletes the row
func (bot *Bot) removeDepartedPlayer(ctx context.Context, player store.Player) {

	if player.GuildID != "" {
		records, err := bot.guilds.ListByAlbionID(ctx, player.GuildID)
		if err == nil {
			for _, record := range records {
				if record.GuildRole == "" {
					continue
				}
				// Best effort; the member may have left Discord too
				_ = bot.session.GuildMemberRoleRemove(record.DiscordGuildID, player.DiscordID, record.GuildRole)
			}
		}
	}
	_ = bot.players.DeleteByDiscordID(ctx, player.DiscordID)
}
