package bot

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"albot/config"
	"albot/internal/albionapi"
	"albot/internal/common"
	"albot/internal/raid"
	"albot/internal/store"
)

// How often the main loop wakes up to poke the background executors
const mainCycle = time.Minute

type Bot struct {
	token   string
	appID   string
	guildID string

	engine  *raid.Engine
	presets raid.PresetCatalog
	rosters raid.RosterStore
	players *store.PlayerRepository
	guilds  *store.AlbionGuildRepository
	configs *store.GuildConfigRepository
	api     albionapi.Client

	session *discordgo.Session

	verifyExecutor common.TimedExecutor
	verifyMaxAge   time.Duration
}

func New(cfg *config.Config, db *gorm.DB, api albionapi.Client) *Bot {

	var bot Bot
	bot.token = cfg.Discord.Token
	bot.appID = cfg.Discord.AppID
	bot.guildID = cfg.Discord.GuildID
	bot.api = api

	// Repositories
	presets := store.NewPresetRepository(db)
	rosters := store.NewRosterRepository(db)
	bot.presets = presets
	bot.rosters = rosters
	bot.players = store.NewPlayerRepository(db)
	bot.guilds = store.NewAlbionGuildRepository(db)
	bot.configs = store.NewGuildConfigRepository(db)

	// The engine owns every roster mutation
	bot.engine = raid.NewEngine(rosters, presets)

	// Daily verification sweep
	bot.verifyMaxAge = cfg.Verify.MaxAge()
	bot.verifyExecutor = common.NewTimedExecutor(cfg.Verify.Interval(), bot.verifyPlayers)

	return &bot
}

func (bot *Bot) Run() error {

	// Create session
	discord, err := discordgo.New("Bot " + bot.token)
	if err != nil {
		return fmt.Errorf("could not create discord session: %w", err)
	}
	discord.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildMembers

	discord.AddHandler(bot.handleInteraction)
	discord.AddHandler(bot.handleMemberRemove)

	if err := discord.Open(); err != nil {
		return fmt.Errorf("could not open discord session: %w", err)
	}
	defer discord.Close()
	bot.session = discord

	// Register the whole command surface in one go. With a guild id
	// the commands show up immediately; globally they take up to an
	// hour to propagate
	if _, err := discord.ApplicationCommandBulkOverwrite(bot.appID, bot.guildID, Commands()); err != nil {
		return fmt.Errorf("could not register application commands: %w", err)
	}
	log.Info().Msg("Application commands registered")

	// Keep the bot running until interrupted, waking up periodically
	// for the background executors
	ticker := time.NewTicker(mainCycle)
	defer ticker.Stop()
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	for {
		select {
		case <-ticker.C:
			bot.verifyExecutor.Execute()
		case <-interrupt:
			log.Info().Msg("Shutting down")
			return nil
		}
	}
}

func (bot *Bot) handleInteraction(discord *discordgo.Session, interaction *discordgo.InteractionCreate) {

	// One trace id per interaction, shared by everything it logs
	logger := log.With().Str("trace", uuid.NewString()[:8]).Logger()
	ctx := context.Background()

	// Everything the bot does is scoped to a guild
	if interaction.GuildID == "" || interaction.Member == nil {
		return
	}

	switch interaction.Type {
	case discordgo.InteractionApplicationCommand:
		data := interaction.ApplicationCommandData()
		logger.Debug().Msg(fmt.Sprintf("Received command /%s from user %s in guild %s", data.Name, interaction.Member.User.ID, interaction.GuildID))
		switch data.Name {
		case "setup":
			bot.handleSetup(ctx, discord, interaction, logger)
		case "register":
			bot.handleRegister(ctx, discord, interaction, logger)
		case "guild":
			bot.handleGuild(ctx, discord, interaction, logger)
		case "guildmembers":
			bot.handleGuildMembers(ctx, discord, interaction, logger)
		case "admin":
			bot.handleAdmin(ctx, discord, interaction, logger)
		case "raid":
			bot.handleRaid(ctx, discord, interaction, logger)
		default:
			logger.Warn().Msg(fmt.Sprintf("Unknown command %s", data.Name))
		}
	case discordgo.InteractionApplicationCommandAutocomplete:
		if interaction.ApplicationCommandData().Name == "raid" {
			bot.raidAutocomplete(ctx, discord, interaction, logger)
		}
	case discordgo.InteractionMessageComponent:
		bot.handleComponent(ctx, discord, interaction, logger)
	}
}

// handleMemberRemove purges the registration of a member who left the
// server, when the guild opted in to that
func (bot *Bot) handleMemberRemove(discord *discordgo.Session, event *discordgo.GuildMemberRemove) {
	ctx := context.Background()
	config, err := bot.configs.Find(ctx, event.GuildID)
	if err != nil || !config.PurgeOnLeave {
		return
	}
	if err := bot.players.DeleteByDiscordID(ctx, event.User.ID); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not purge player %s: %v", event.User.ID, err))
		return
	}
	log.Debug().Msg(fmt.Sprintf("Purged registration of user %s after leaving guild %s", event.User.ID, event.GuildID))
}

// Reply helpers. Slash command handlers defer first and edit the
// deferred reply once they know the outcome

func deferReply(discord *discordgo.Session, interaction *discordgo.InteractionCreate, ephemeral bool) error {
	response := discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	}
	if ephemeral {
		response.Data = &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral}
	}
	return discord.InteractionRespond(interaction.Interaction, &response)
}

func replyEphemeral(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	err := discord.InteractionRespond(interaction.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content, Flags: discordgo.MessageFlagsEphemeral},
	})
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not reply to interaction: %v", err))
	}
}

func editReply(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string) {
	_, err := discord.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{Content: &content})
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not edit interaction reply: %v", err))
	}
}

func editReplyEmbed(discord *discordgo.Session, interaction *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	embeds := []*discordgo.MessageEmbed{embed}
	_, err := discord.InteractionResponseEdit(interaction.Interaction, &discordgo.WebhookEdit{Embeds: &embeds})
	if err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not edit interaction reply: %v", err))
	}
}

func followUp(discord *discordgo.Session, interaction *discordgo.InteractionCreate, content string, ephemeral bool) {
	params := discordgo.WebhookParams{Content: content}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	if _, err := discord.FollowupMessageCreate(interaction.Interaction, true, &params); err != nil {
		log.Warn().Msg(fmt.Sprintf("Could not send follow-up message: %v", err))
	}
}

// guildConfig loads the per-guild settings, telling the user to run
// /setup config when there are none yet
func (bot *Bot) guildConfig(ctx context.Context, discord *discordgo.Session, interaction *discordgo.InteractionCreate, logger zerolog.Logger) (*store.GuildConfig, bool) {
	config, err := bot.configs.Find(ctx, interaction.GuildID)
	if err != nil {
		logger.Debug().Msg(fmt.Sprintf("No configuration for guild %s: %v", interaction.GuildID, err))
		editReply(discord, interaction, "❌ No configuration found. Please ensure the bot is properly set up with the /setup command.")
		return nil, false
	}
	return config, true
}
