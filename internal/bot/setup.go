package bot

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"albot/internal/store"
)

func (options commandOptions) roleID(discord *discordgo.Session, guildid string, name string) string {
	option, ok := options[name]
	if !ok {
		return ""
	}
	role := option.RoleValue(discord, guildid)
	if role == nil {
		return ""
	}
	return role.ID
}

func (options commandOptions) channelID(discord *discordgo.Session, name string) string {
	option, ok := options[name]
	if !ok {
		return ""
	}
	channel := option.ChannelValue(discord)
	if channel == nil {
		return ""
	}
	return channel.ID
}

// handleSetup stores the per-guild settings. Administrator only; every
// run replaces the previous configuration wholesale
func (bot *Bot) handleSetup(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	if !isAdministrator(interaction.Member) {
		replyEphemeral(discord, interaction, "⛔ You must have **Administrator** permissions to use this command.")
		return
	}

	data := interaction.ApplicationCommandData()
	sub := data.Options[0]
	if sub.Name != "config" {
		return
	}

	if err := deferReply(discord, interaction, false); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer setup command: %v", err))
		return
	}

	options := mapOptions(sub.Options)
	config := store.GuildConfig{
		GuildID:        interaction.GuildID,
		AdminRole:      options.roleID(discord, interaction.GuildID, "admin_role"),
		ModRole:        options.roleID(discord, interaction.GuildID, "mod_role"),
		AllowedRole:    options.roleID(discord, interaction.GuildID, "allowed_role"),
		RaidRole:       options.roleID(discord, interaction.GuildID, "raid_role"),
		RaidNotifyRole: options.roleID(discord, interaction.GuildID, "raid_notify_role"),
		AlertChannel:   options.channelID(discord, "alert_channel"),
		PurgeOnLeave:   options.stringValue("purge_users_on_leave") == "yes",
		EditNick:       options.stringValue("edit_nick") == "yes",
		ShowGuildTag:   options.stringValue("guild_tag_visibility") == "yes",
	}

	if err := bot.configs.Upsert(ctx, &config); err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not save config for guild %s: %v", interaction.GuildID, err))
		editReply(discord, interaction, "❌ There was an error saving the configuration. Please check the inputs and try again.")
		return
	}

	logger.Debug().Msg(fmt.Sprintf("Configuration updated for guild %s", interaction.GuildID))
	editReplyEmbed(discord, interaction, ConfigEmbed(&config))
}
