package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// The fixed set of raid roles, in the order the boards display them
var raidRoles = []string{
	"Tank",
	"Melee DPS",
	"Ranged DPS",
	"Magic DPS",
	"Holy Healer",
	"Nature Healer",
	"Support",
}

// Option names of /raid preset_create, one per raid role, same order
var presetSlotOptions = []string{
	"tank_slots",
	"melee_dps_slots",
	"ranged_dps_slots",
	"magic_dps_slots",
	"healer_holy_slots",
	"healer_nature_slots",
	"support_slots",
}

const guildMembersSelectID = "guildmembers_select"

const maxGuildTagLength = 5

var administratorOnly int64 = discordgo.PermissionAdministrator

// Commands returns the full slash command surface, registered in one
// bulk overwrite on startup
func Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		setupCommand(),
		registerCommand(),
		guildCommand(),
		guildMembersCommand(),
		adminCommand(),
		raidCommand(),
	}
}

func setupCommand() *discordgo.ApplicationCommand {
	yesNo := []*discordgo.ApplicationCommandOptionChoice{
		{Name: "Yes", Value: "yes"},
		{Name: "No", Value: "no"},
	}
	return &discordgo.ApplicationCommand{
		Name:                     "setup",
		Description:              "Configure the guild registration bot",
		DefaultMemberPermissions: &administratorOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "config",
				Description: "Configure the bot settings",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "admin_role",
						Description: "Select the admin role",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "mod_role",
						Description: "Select the mod role",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "purge_users_on_leave",
						Description: "Purge users when they leave?",
						Required:    true,
						Choices:     yesNo,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "edit_nick",
						Description: "Edit user nicknames?",
						Required:    true,
						Choices:     yesNo,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "guild_tag_visibility",
						Description: "Should the guild tag be visible during registration?",
						Required:    true,
						Choices:     yesNo,
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "allowed_role",
						Description: "Select the allowed role (optional)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "raid_role",
						Description: "Role allowed to manage raids (optional)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "raid_notify_role",
						Description: "Role mentioned when a raid is posted (optional)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionChannel,
						Name:        "alert_channel",
						Description: "Channel for moderation alerts (optional)",
					},
				},
			},
		},
	}
}

func registerCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "register",
		Description: "Register your Albion Online character",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "albion_name",
				Description: "Your exact Albion Online character name",
				Required:    true,
				MaxLength:   30,
			},
		},
	}
}

func guildCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "guild",
		Description:              "Admin-only Manage Albion Online guilds",
		DefaultMemberPermissions: &administratorOnly,
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "add",
				Description: "Add an Albion Online guild to the database",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "guild_id",
						Description: "The Albion Online guild ID",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionRole,
						Name:        "guild_role",
						Description: "The Discord role for this guild",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "guild_tag",
						Description: fmt.Sprintf("The guild tag to use in nicknames (max %d chars)", maxGuildTagLength),
						Required:    true,
						MaxLength:   maxGuildTagLength,
					},
				},
			},
		},
	}
}

func guildMembersCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:                     "guildmembers",
		Description:              "View members of a registered Albion Online guild",
		DefaultMemberPermissions: &administratorOnly,
	}
}

func adminCommand() *discordgo.ApplicationCommand {
	return &discordgo.ApplicationCommand{
		Name:        "admin",
		Description: "Admin-only manual registration/removal of players",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "register",
				Description: "Manually register a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Discord user to register",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "albion_name",
						Description: "Albion character name",
						Required:    true,
						MaxLength:   30,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "albion_id",
						Description: "Albion character ID (use if name search fails)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "unregister",
				Description: "Manually unregister a user",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionUser,
						Name:        "user",
						Description: "Discord user to unregister",
						Required:    true,
					},
				},
			},
		},
	}
}

func raidCommand() *discordgo.ApplicationCommand {
	presetCreateOptions := []*discordgo.ApplicationCommandOption{
		{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        "name",
			Description: "Name of the preset",
			Required:    true,
		},
	}
	for index, option := range presetSlotOptions {
		presetCreateOptions = append(presetCreateOptions, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionInteger,
			Name:        option,
			Description: fmt.Sprintf("Number of %s slots", raidRoles[index]),
			Required:    true,
		})
	}

	return &discordgo.ApplicationCommand{
		Name:        "raid",
		Description: "Manage Albion raid CTAs",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "setup",
				Description: "Create a new raid CTA",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "preset",
						Description:  "Choose a raid preset",
						Required:     true,
						Autocomplete: true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "date",
						Description: "Raid date in YYYY-MM-DD",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "time",
						Description: "Raid time in UTC (HH:MM)",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "description",
						Description: "Short description or instructions",
						Required:    true,
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "gear_requirement",
						Description: "Optional: Gear type requirement (e.g., 6.1)",
					},
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "item_power",
						Description: "Optional: Minimum Item Power (IP)",
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "preset_create",
				Description: "Create a new raid preset",
				Options:     presetCreateOptions,
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "preset_list",
				Description: "List all saved raid presets",
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "preset_delete",
				Description: "Delete a preset",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:         discordgo.ApplicationCommandOptionString,
						Name:         "name",
						Description:  "Name of the preset to delete",
						Required:     true,
						Autocomplete: true,
					},
				},
			},
			{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "cancel",
				Description: "Cancel a raid",
				Options: []*discordgo.ApplicationCommandOption{
					{
						Type:        discordgo.ApplicationCommandOptionString,
						Name:        "id",
						Description: "Message ID of the raid to cancel",
						Required:    true,
					},
				},
			},
		},
	}
}
