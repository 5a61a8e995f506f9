package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"albot/internal/albionapi"
	"albot/internal/raid"
	"albot/internal/store"
)

// handleGuild manages the Albion guilds tracked by this server.
// Only /guild add exists for now
func (bot *Bot) handleGuild(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	if err := deferReply(discord, interaction, false); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer guild command: %v", err))
		return
	}

	config, ok := bot.guildConfig(ctx, discord, interaction, logger)
	if !ok {
		return
	}
	if !bot.isAdminOrMod(interaction.Member, config) {
		editReply(discord, interaction, "⛔ You must be an admin or mod to use this command.")
		return
	}

	data := interaction.ApplicationCommandData()
	sub := data.Options[0]
	if sub.Name != "add" {
		return
	}
	options := mapOptions(sub.Options)

	albionID := options.stringValue("guild_id")
	roleid := options.roleID(discord, interaction.GuildID, "guild_role")
	tag := options.stringValue("guild_tag")
	if len(tag) > maxGuildTagLength {
		editReply(discord, interaction, fmt.Sprintf("❌ Guild tag cannot exceed %d characters.", maxGuildTagLength))
		return
	}

	// The guild has to exist on the game server before it is tracked
	guildInfo, err := bot.api.GetGuildInfo(ctx, albionID)
	if errors.Is(err, albionapi.ErrNotFound) {
		editReply(discord, interaction, "❌ Guild not found. Please check the guild ID and try again.")
		return
	}
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not look up guild %s: %v", albionID, err))
		editReply(discord, interaction, "❌ There was an error adding the guild to the database.")
		return
	}

	record := store.AlbionGuild{
		AlbionID:       albionID,
		DiscordGuildID: interaction.GuildID,
		GuildRole:      roleid,
		GuildTag:       tag,
	}
	err = bot.guilds.Create(ctx, &record)
	switch {
	case errors.Is(err, raid.ErrAlreadyExists):
		editReply(discord, interaction, "⚠️ This guild is already registered in the database.")
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Could not store guild %s: %v", albionID, err))
		editReply(discord, interaction, "❌ There was an error adding the guild to the database.")
	default:
		logger.Debug().Msg(fmt.Sprintf("Guild %s registered with tag %s", albionID, tag))
		editReplyEmbed(discord, interaction, GuildAddedEmbed(guildInfo, roleid, tag))
	}
}

func (bot *Bot) isAdminOrMod(member *discordgo.Member, config *store.GuildConfig) bool {
	return isAdministrator(member) || hasRole(member, config.AdminRole) || hasRole(member, config.ModRole)
}

// handleGuildMembers lists the members of a tracked Albion guild. With
// several tracked guilds, a select menu asks which one first
func (bot *Bot) handleGuildMembers(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	config, err := bot.configs.Find(ctx, interaction.GuildID)
	if err != nil {
		replyEphemeral(discord, interaction, "Please run `/setup config` first to configure the bot.")
		return
	}
	if !bot.isAdminOrMod(interaction.Member, config) {
		replyEphemeral(discord, interaction, "⛔ You must be an admin or mod to use this command.")
		return
	}

	guilds, err := bot.guilds.ListByDiscordGuild(ctx, interaction.GuildID)
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not list guilds: %v", err))
		replyEphemeral(discord, interaction, "❌ An error occurred. Please try again.")
		return
	}
	if len(guilds) == 0 {
		replyEphemeral(discord, interaction, "❌ No guilds are registered for this server. Use `/guild add` first.")
		return
	}

	if len(guilds) == 1 {
		if err := deferReply(discord, interaction, false); err != nil {
			logger.Warn().Msg(fmt.Sprintf("Could not defer guildmembers command: %v", err))
			return
		}
		bot.showGuildMembers(ctx, discord, interaction, &guilds[0], logger)
		return
	}

	options := make([]discordgo.SelectMenuOption, 0, len(guilds))
	for _, guild := range guilds {
		options = append(options, discordgo.SelectMenuOption{
			Label:       guild.GuildTag,
			Description: fmt.Sprintf("Guild ID: %s", guild.AlbionID),
			Value:       guild.AlbionID,
		})
	}
	err = discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "Please select a guild:",
			Flags:   discordgo.MessageFlagsEphemeral,
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{Components: []discordgo.MessageComponent{
					discordgo.SelectMenu{
						MenuType:    discordgo.StringSelectMenu,
						CustomID:    guildMembersSelectID,
						Placeholder: "Select a guild to view members",
						Options:     options,
					},
				}},
			},
		},
	})
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not send guild selector: %v", err))
	}
}

// guildMembersSelected handles the select menu pick
func (bot *Bot) guildMembersSelected(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, values []string, logger zerolog.Logger) {

	if len(values) == 0 {
		return
	}
	guild, err := bot.guilds.Find(ctx, interaction.GuildID, values[0])
	if err != nil {
		replyEphemeral(discord, interaction, "❌ Guild not found.")
		return
	}
	if err := deferReply(discord, interaction, false); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer guild selection: %v", err))
		return
	}
	bot.showGuildMembers(ctx, discord, interaction, guild, logger)
}

func (bot *Bot) showGuildMembers(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, guild *store.AlbionGuild, logger zerolog.Logger) {

	members, err := bot.api.GetGuildMembers(ctx, guild.AlbionID)
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not fetch members of guild %s: %v", guild.AlbionID, err))
		editReply(discord, interaction, "❌ Failed to fetch members from Albion API.")
		return
	}
	if len(members) == 0 {
		editReply(discord, interaction, fmt.Sprintf("❌ No members found for guild `%s`.", guild.GuildTag))
		return
	}
	editReplyEmbed(discord, interaction, GuildMembersEmbed(guild.GuildTag, members))
}
