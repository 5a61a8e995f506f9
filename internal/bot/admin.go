package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"albot/internal/albionapi"
	"albot/internal/store"
)

// handleAdmin covers manual registration and removal, for when a
// member cannot run /register themselves
func (bot *Bot) handleAdmin(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	config, err := bot.configs.Find(ctx, interaction.GuildID)
	if err != nil {
		replyEphemeral(discord, interaction, "❌ Bot not configured. Run `/setup config` first.")
		return
	}

	member := interaction.Member
	if !isAdministrator(member) && !hasRoleOrHigher(discord, interaction.GuildID, member, config.ModRole) {
		replyEphemeral(discord, interaction, "⛔ You must have the Mod role or higher to use this command.")
		return
	}

	if err := deferReply(discord, interaction, false); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer admin command: %v", err))
		return
	}

	data := interaction.ApplicationCommandData()
	sub := data.Options[0]
	options := mapOptions(sub.Options)

	switch sub.Name {
	case "register":
		bot.adminRegister(ctx, discord, interaction, config, options, logger)
	case "unregister":
		bot.adminUnregister(ctx, discord, interaction, config, options, logger)
	}
}

func (bot *Bot) adminRegister(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, config *store.GuildConfig, options commandOptions, logger zerolog.Logger) {

	userOption, ok := options["user"]
	if !ok {
		return
	}
	user := userOption.UserValue(discord)
	albionName := options.stringValue("albion_name")
	albionID := options.stringValue("albion_id")

	player, ok := bot.resolvePlayer(ctx, discord, interaction, albionName, albionID, logger)
	if !ok {
		return
	}

	// A character in an untracked guild has to be rejected here; the
	// self-service /register merely alerts the moderators
	guildData := bot.registeredGuild(ctx, interaction.GuildID, player.GuildId)
	if player.GuildId != "" && guildData == nil {
		editReply(discord, interaction, fmt.Sprintf("❌ This player's guild (%s) is not registered.\nPlease register it first with `/guild add`", player.GuildName))
		return
	}

	if _, err := bot.players.FindByDiscordID(ctx, user.ID); err == nil {
		editReply(discord, interaction, fmt.Sprintf("⚠️ %s is already registered.", user.Username))
		return
	}
	nickname, roleAdded, err := bot.applyMembership(discord, interaction.GuildID, user.ID, config, guildData, player)
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Role management failed for user %s: %v", user.ID, err))
		editReply(discord, interaction, "❌ Failed to update roles. Please check bot permissions and role hierarchy.")
		return
	}

	record := store.Player{
		DiscordID:  user.ID,
		AlbionID:   player.Id,
		AlbionName: player.Name,
		GuildID:    player.GuildId,
		GuildName:  player.GuildName,
		KillFame:   player.KillFame,
		DeathFame:  player.DeathFame,
	}
	if err := bot.players.Create(ctx, &record); err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not store player %s: %v", player.Name, err))
		editReply(discord, interaction, "❌ Something went wrong storing the registration.")
		return
	}

	logger.Debug().Msg(fmt.Sprintf("Admin registered player %s for user %s", player.Name, user.ID))
	editReplyEmbed(discord, interaction, AdminRegistrationEmbed(player, user.ID, roleAdded, nickname))
}

// resolvePlayer finds the character by id when one is given, else by
// exact name; near misses are listed so the moderator can pick
func (bot *Bot) resolvePlayer(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, albionName string, albionID string, logger zerolog.Logger) (albionapi.Player, bool) {

	if albionID != "" {
		player, err := bot.api.GetPlayerByID(ctx, albionID)
		if errors.Is(err, albionapi.ErrNotFound) {
			editReply(discord, interaction, fmt.Sprintf("❌ No player found with ID \"%s\"", albionID))
			return albionapi.Player{}, false
		}
		if err != nil {
			logger.Error().Msg(fmt.Sprintf("Could not look up player id %s: %v", albionID, err))
			editReply(discord, interaction, "❌ Something went wrong. Please try again.")
			return albionapi.Player{}, false
		}
		return player, true
	}

	player, err := bot.api.GetPlayerInfo(ctx, albionName)
	if err == nil {
		return player, true
	}
	if !errors.Is(err, albionapi.ErrNotFound) {
		logger.Error().Msg(fmt.Sprintf("Could not look up player %s: %v", albionName, err))
		editReply(discord, interaction, "❌ Something went wrong. Please try again.")
		return albionapi.Player{}, false
	}

	// No exact match; offer the closest hits
	candidates, err := bot.api.SearchPlayers(ctx, albionName)
	if err != nil || len(candidates) == 0 {
		editReply(discord, interaction, fmt.Sprintf("❌ No player found matching \"%s\"", albionName))
		return albionapi.Player{}, false
	}
	if len(candidates) > 5 {
		candidates = candidates[:5]
	}
	lines := make([]string, 0, len(candidates))
	for index, candidate := range candidates {
		guild := "(No Guild)"
		if candidate.GuildName != "" {
			guild = fmt.Sprintf("[%s]", candidate.GuildName)
		}
		lines = append(lines, fmt.Sprintf("%d. %s %s", index+1, candidate.Name, guild))
	}
	editReply(discord, interaction, fmt.Sprintf(
		"Multiple similar players found:\n%s\n\nPlease either:\n1. Use the exact character name\n2. Use the Albion ID (/whois in game)\n3. Register their guild first using `/guild add`",
		strings.Join(lines, "\n")))
	return albionapi.Player{}, false
}

func (bot *Bot) adminUnregister(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, config *store.GuildConfig, options commandOptions, logger zerolog.Logger) {

	userOption, ok := options["user"]
	if !ok {
		return
	}
	user := userOption.UserValue(discord)

	player, err := bot.players.FindByDiscordID(ctx, user.ID)
	if err != nil {
		editReply(discord, interaction, fmt.Sprintf("⚠️ No registration found for <@%s>.", user.ID))
		return
	}

	if guildData := bot.registeredGuild(ctx, interaction.GuildID, player.GuildID); guildData != nil && guildData.GuildRole != "" {
		// Best effort; the member may have left already
		_ = discord.GuildMemberRoleRemove(interaction.GuildID, user.ID, guildData.GuildRole)
	}
	if config.EditNick {
		_ = discord.GuildMemberNickname(interaction.GuildID, user.ID, "")
	}

	if err := bot.players.DeleteByDiscordID(ctx, user.ID); err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not delete player %s: %v", user.ID, err))
		editReply(discord, interaction, "❌ Error removing user. Check logs.")
		return
	}

	logger.Debug().Msg(fmt.Sprintf("Unregistered user %s", user.ID))
	editReply(discord, interaction, fmt.Sprintf("✅ <@%s> has been unregistered and cleaned up.", user.ID))
}
