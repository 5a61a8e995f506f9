package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"

	"albot/internal/raid"
	"albot/internal/store"
)

type commandOptions map[string]*discordgo.ApplicationCommandInteractionDataOption

func mapOptions(options []*discordgo.ApplicationCommandInteractionDataOption) commandOptions {
	mapped := make(commandOptions, len(options))
	for _, option := range options {
		mapped[option.Name] = option
	}
	return mapped
}

func (options commandOptions) stringValue(name string) string {
	option, ok := options[name]
	if !ok {
		return ""
	}
	return option.StringValue()
}

func (bot *Bot) handleRaid(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	data := interaction.ApplicationCommandData()
	sub := data.Options[0]

	if err := deferReply(discord, interaction, sub.Name == "preset_list"); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer raid command: %v", err))
		return
	}

	config, ok := bot.guildConfig(ctx, discord, interaction, logger)
	if !ok {
		return
	}

	// Raid management takes the configured raid manager role (or any
	// role above it) or full Administrator
	member := interaction.Member
	if !isAdministrator(member) && !hasRoleOrHigher(discord, interaction.GuildID, member, config.RaidRole) {
		editReply(discord, interaction, "⛔ You must have the Raid Manager role or Administrator permission to use this command.")
		return
	}

	options := mapOptions(sub.Options)
	switch sub.Name {
	case "setup":
		bot.raidSetup(ctx, discord, interaction, config, options, logger)
	case "preset_create":
		bot.raidPresetCreate(ctx, discord, interaction, options, logger)
	case "preset_list":
		bot.raidPresetList(ctx, discord, interaction, logger)
	case "preset_delete":
		bot.raidPresetDelete(ctx, discord, interaction, options, logger)
	case "cancel":
		bot.raidCancel(ctx, discord, interaction, options, logger)
	default:
		editReply(discord, interaction, fmt.Sprintf("❌ Unknown subcommand: %s", sub.Name))
	}
}

func (bot *Bot) raidSetup(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, config *store.GuildConfig, options commandOptions, logger zerolog.Logger) {

	presetName := options.stringValue("preset")
	preset, err := bot.presets.Find(ctx, interaction.GuildID, presetName)
	if errors.Is(err, raid.ErrNotFound) {
		editReply(discord, interaction, fmt.Sprintf("❌ Preset \"%s\" not found. Use `/raid preset_create` first.", presetName))
		return
	}
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not load preset %s: %v", presetName, err))
		editReply(discord, interaction, "❌ An error occurred. Please try again.")
		return
	}

	roster := raid.Roster{
		GuildID:         interaction.GuildID,
		ChannelID:       interaction.ChannelID,
		CreatedBy:       interaction.Member.User.ID,
		Preset:          presetName,
		Date:            options.stringValue("date"),
		Time:            options.stringValue("time"),
		Description:     options.stringValue("description"),
		GearRequirement: options.stringValue("gear_requirement"),
		ItemPower:       options.stringValue("item_power"),
		Participants:    raid.Participants{},
	}

	board, err := raid.BuildBoard(&roster, &preset)
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not build board for preset %s: %v", presetName, err))
		editReply(discord, interaction, "❌ An error occurred. Please try again.")
		return
	}

	// Post the board first; its message id becomes the roster identity
	embeds := []*discordgo.MessageEmbed{BoardEmbed(board)}
	components := BoardComponents(preset.Slots)
	message, err := discord.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{
		Embeds:     &embeds,
		Components: &components,
	})
	if err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not post raid board: %v", err))
		return
	}

	roster.MessageID = message.ID
	if err := bot.rosters.Create(ctx, &roster); err != nil {
		logger.Error().Msg(fmt.Sprintf("Could not store roster %s: %v", message.ID, err))
		followUp(discord, interaction, "❌ An error occurred storing the raid. Please delete the board and try again.", true)
		return
	}
	logger.Debug().Msg(fmt.Sprintf("Raid board %s posted for preset %s", message.ID, presetName))

	bot.mentionNotificationRole(discord, interaction, config.RaidNotifyRole, logger)
}

func (bot *Bot) mentionNotificationRole(discord *discordgo.Session, interaction *discordgo.InteractionCreate, roleid string, logger zerolog.Logger) {
	if roleid == "" {
		return
	}
	_, err := discord.FollowupMessageCreate(interaction.Interaction, true, &discordgo.WebhookParams{
		Content:         fmt.Sprintf("<@&%s> New raid posted!", roleid),
		AllowedMentions: &discordgo.MessageAllowedMentions{Roles: []string{roleid}},
	})
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not mention notification role %s: %v", roleid, err))
		followUp(discord, interaction, "✅ Raid posted (role mention failed)", true)
	}
}

func (bot *Bot) raidPresetCreate(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions, logger zerolog.Logger) {

	name := options.stringValue("name")
	slots := make(raid.Slots, 0, len(raidRoles))
	for index, option := range presetSlotOptions {
		capacity := 0
		if value, ok := options[option]; ok {
			capacity = int(value.IntValue())
		}
		slots = append(slots, raid.SlotCount{Role: raidRoles[index], Capacity: capacity})
	}

	preset := raid.Preset{GuildID: interaction.GuildID, Name: name, Slots: slots}
	err := bot.presets.Create(ctx, &preset)
	switch {
	case errors.Is(err, raid.ErrAlreadyExists):
		editReply(discord, interaction, fmt.Sprintf("❌ Preset \"%s\" already exists.", name))
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Could not create preset %s: %v", name, err))
		editReply(discord, interaction, fmt.Sprintf("❌ Could not create preset: %v", err))
	default:
		editReply(discord, interaction, fmt.Sprintf("✅ Preset \"%s\" created successfully!", name))
	}
}

func (bot *Bot) raidPresetList(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	presets := []raid.Preset{}
	for preset, err := range bot.presets.List(ctx, interaction.GuildID) {
		if err != nil {
			logger.Error().Msg(fmt.Sprintf("Could not list presets: %v", err))
			editReply(discord, interaction, "❌ An error occurred. Please try again.")
			return
		}
		presets = append(presets, preset)
	}

	if len(presets) == 0 {
		editReply(discord, interaction, "No raid presets found.")
		return
	}
	editReplyEmbed(discord, interaction, PresetListEmbed(presets))
}

func (bot *Bot) raidPresetDelete(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions, logger zerolog.Logger) {

	name := options.stringValue("name")
	err := bot.presets.Delete(ctx, interaction.GuildID, name)
	switch {
	case errors.Is(err, raid.ErrNotFound):
		editReply(discord, interaction, fmt.Sprintf("❌ Preset \"%s\" not found.", name))
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Could not delete preset %s: %v", name, err))
		editReply(discord, interaction, "❌ An error occurred. Please try again.")
	default:
		editReply(discord, interaction, fmt.Sprintf("✅ Preset \"%s\" deleted.", name))
	}
}

func (bot *Bot) raidCancel(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, options commandOptions, logger zerolog.Logger) {

	messageid := options.stringValue("id")
	elevated := isAdministrator(interaction.Member)
	roster, err := bot.engine.Delete(ctx, interaction.GuildID, messageid, interaction.Member.User.ID, elevated)
	switch {
	case errors.Is(err, raid.ErrNotFound):
		editReply(discord, interaction, fmt.Sprintf("❌ Raid with ID \"%s\" not found.", messageid))
		return
	case errors.Is(err, raid.ErrForbidden):
		editReply(discord, interaction, "⛔ You can only cancel raids you created (unless you're an admin).")
		return
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Could not cancel raid %s: %v", messageid, err))
		editReply(discord, interaction, "❌ An error occurred. Please try again.")
		return
	}

	// The record is gone; removing the posted board is best effort
	channelid := roster.ChannelID
	if channelid == "" {
		channelid = interaction.ChannelID
	}
	if err := discord.ChannelMessageDelete(channelid, messageid); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not delete board message %s: %v", messageid, err))
	}
	editReply(discord, interaction, fmt.Sprintf("✅ Raid CTA (ID: %s) cancelled and removed.", messageid))
}

// raidAutocomplete completes preset names on /raid setup and
// /raid preset_delete
func (bot *Bot) raidAutocomplete(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	data := interaction.ApplicationCommandData()
	sub := data.Options[0]

	var focused *discordgo.ApplicationCommandInteractionDataOption
	for _, option := range sub.Options {
		if option.Focused {
			focused = option
			break
		}
	}
	if focused == nil || (focused.Name != "preset" && focused.Name != "name") {
		return
	}
	query := strings.ToLower(focused.StringValue())

	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for preset, err := range bot.presets.List(ctx, interaction.GuildID) {
		if err != nil {
			logger.Warn().Msg(fmt.Sprintf("Could not list presets for autocomplete: %v", err))
			return
		}
		if !strings.Contains(strings.ToLower(preset.Name), query) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: preset.Name, Value: preset.Name})
		if len(choices) == 25 {
			break
		}
	}

	err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionApplicationCommandAutocompleteResult,
		Data: &discordgo.InteractionResponseData{Choices: choices},
	})
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not respond to autocomplete: %v", err))
	}
}

// handleComponent dispatches button and select menu clicks
func (bot *Bot) handleComponent(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) {

	data := interaction.MessageComponentData()

	if data.CustomID == guildMembersSelectID {
		bot.guildMembersSelected(ctx, discord, interaction, data.Values, logger)
		return
	}
	if !raid.IsBoardAction(data.CustomID) {
		return
	}

	// Acknowledge immediately; the board itself is updated after the
	// engine commits
	err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	})
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not defer component interaction: %v", err))
		return
	}

	action, err := raid.DecodeAction(data.CustomID)
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Unknown component custom id %s", data.CustomID))
		followUp(discord, interaction, "❌ Unknown button action", true)
		return
	}

	guildid := interaction.GuildID
	messageid := interaction.Message.ID
	userid := interaction.Member.User.ID

	switch action.Kind {
	case raid.ActionSignUp:
		bot.boardSignUp(ctx, discord, interaction, guildid, messageid, userid, action.Role, logger)
	case raid.ActionCancel:
		bot.boardCancelSignUp(ctx, discord, interaction, guildid, messageid, userid, logger)
	case raid.ActionDelete:
		bot.boardDelete(ctx, discord, interaction, guildid, messageid, userid, logger)
	}
}

func (bot *Bot) boardSignUp(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, guildid string, messageid string, userid string, role string, logger zerolog.Logger) {

	result, err := bot.engine.SignUp(ctx, guildid, messageid, userid, role)
	switch {
	case errors.Is(err, raid.ErrNotFound):
		followUp(discord, interaction, "❌ Raid not found. It may have been deleted.", true)
		return
	case errors.Is(err, raid.ErrPresetMissing):
		followUp(discord, interaction, "❌ Preset not found for this raid.", true)
		return
	case errors.Is(err, raid.ErrInvalidRole):
		followUp(discord, interaction, fmt.Sprintf("❌ The role '%s' is not a valid role in this raid's preset.", role), true)
		return
	case errors.Is(err, raid.ErrAlreadyAssigned):
		followUp(discord, interaction, fmt.Sprintf("ℹ️ You're already signed up as %s", role), true)
		return
	case errors.Is(err, raid.ErrSlotFull):
		followUp(discord, interaction, fmt.Sprintf("⛔ %s slots are full", role), true)
		return
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Sign-up failed on board %s: %v", messageid, err))
		followUp(discord, interaction, "❌ An unexpected error occurred. Please try again.", true)
		return
	}

	bot.refreshBoard(ctx, discord, interaction, &result.Roster, logger)
	if result.PreviousRole != "" {
		followUp(discord, interaction, fmt.Sprintf("✅ Signed up as %s! (switched from %s)", result.Role, result.PreviousRole), true)
	} else {
		followUp(discord, interaction, fmt.Sprintf("✅ Signed up as %s!", result.Role), true)
	}
}

func (bot *Bot) boardCancelSignUp(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, guildid string, messageid string, userid string, logger zerolog.Logger) {

	result, err := bot.engine.CancelSignUp(ctx, guildid, messageid, userid)
	switch {
	case errors.Is(err, raid.ErrNotFound):
		followUp(discord, interaction, "❌ Raid not found. It may have been deleted.", true)
		return
	case errors.Is(err, raid.ErrNotAssigned):
		followUp(discord, interaction, "ℹ️ You were not signed up for this raid.", true)
		return
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Cancel failed on board %s: %v", messageid, err))
		followUp(discord, interaction, "❌ An unexpected error occurred. Please try again.", true)
		return
	}

	bot.refreshBoard(ctx, discord, interaction, &result.Roster, logger)
	followUp(discord, interaction, fmt.Sprintf("✅ Signup cancelled from %s!", result.Role), true)
}

func (bot *Bot) boardDelete(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, guildid string, messageid string, userid string, logger zerolog.Logger) {

	// Moderators may delete boards they did not create
	elevated := isAdministrator(interaction.Member)
	if !elevated {
		if config, err := bot.configs.Find(ctx, guildid); err == nil {
			elevated = hasRole(interaction.Member, config.ModRole)
		}
	}

	_, err := bot.engine.Delete(ctx, guildid, messageid, userid, elevated)
	switch {
	case errors.Is(err, raid.ErrNotFound):
		followUp(discord, interaction, "❌ Raid not found. It may have been deleted.", true)
		return
	case errors.Is(err, raid.ErrForbidden):
		followUp(discord, interaction, "⛔ You lack permission to delete this.", true)
		return
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Delete failed on board %s: %v", messageid, err))
		followUp(discord, interaction, "❌ An unexpected error occurred. Please try again.", true)
		return
	}

	if err := discord.ChannelMessageDelete(interaction.ChannelID, messageid); err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not delete board message %s: %v", messageid, err))
		followUp(discord, interaction, "✅ Raid deleted from database. (Discord message might have been deleted manually).", true)
		return
	}
	followUp(discord, interaction, "✅ Raid deleted successfully.", true)
}

// refreshBoard re-renders the posted board from the committed roster.
// The commit already happened; a render failure here is reported to
// the user but never undoes it
func (bot *Bot) refreshBoard(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, roster *raid.Roster, logger zerolog.Logger) {

	var embed *discordgo.MessageEmbed
	board, err := bot.engine.Board(ctx, roster)
	switch {
	case errors.Is(err, raid.ErrPresetMissing):
		embed = DegradedBoardEmbed(roster)
	case err != nil:
		logger.Error().Msg(fmt.Sprintf("Could not render board %s: %v", roster.MessageID, err))
		followUp(discord, interaction, "❌ Your change was saved but the board could not be updated. Please notify an admin.", true)
		return
	default:
		embed = BoardEmbed(board)
	}

	embeds := []*discordgo.MessageEmbed{embed}
	_, err = discord.ChannelMessageEditComplex(&discordgo.MessageEdit{
		Channel: interaction.ChannelID,
		ID:      roster.MessageID,
		Embeds:  &embeds,
	})
	if err != nil {
		logger.Warn().Msg(fmt.Sprintf("Could not update board message %s: %v", roster.MessageID, err))
		followUp(discord, interaction, "❌ Your change was saved but the board could not be updated. Please notify an admin.", true)
	}
}
