package bot

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"albot/internal/albionapi"
	"albot/internal/raid"
	"albot/internal/store"
)

// Embed colors
const (
	raidColor    int = 0xffcc00
	successColor int = 0x00ff00
	alertColor   int = 0xff0000
	guildColor   int = 0x00ae86
)

// Invisible field name used to pad embed rows
const blank = "​"

const avatarRenderURL = "https://render.albiononline.com/v1/spell/"
const defaultAvatar = "T8_2H_NATURESTAFF"

// BoardEmbed renders a raid board: metadata on top, then one inline
// field per preset role with the current occupants. Fields are padded
// to a multiple of three so the rows line up
func BoardEmbed(board raid.Board) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📣 Raid CTA: %s", board.Preset),
		Description: board.Description,
		Color:       raidColor,
	}
	embed.Fields = boardMetadataFields(board.Date, board.Time, board.GearRequirement, board.ItemPower)

	slotFields := []*discordgo.MessageEmbedField{}
	for _, slot := range board.Slots {
		value := "No signups yet"
		if slot.Count() > 0 {
			mentions := make([]string, 0, slot.Count())
			for _, userid := range slot.Occupants {
				mentions = append(mentions, fmt.Sprintf("<@%s>", userid))
			}
			value = strings.Join(mentions, ", ")
		}
		slotFields = append(slotFields, &discordgo.MessageEmbedField{
			Name:   fmt.Sprintf("%s (%d/%d)", slot.Role, slot.Count(), slot.Capacity),
			Value:  value,
			Inline: true,
		})
	}
	for len(slotFields)%3 != 0 {
		slotFields = append(slotFields, &discordgo.MessageEmbedField{Name: blank, Value: blank, Inline: true})
	}
	embed.Fields = append(embed.Fields, slotFields...)

	return &embed
}

// DegradedBoardEmbed keeps the roster metadata visible when the preset
// behind the board is gone and slot detail cannot be shown
func DegradedBoardEmbed(roster *raid.Roster) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{
		Title:       fmt.Sprintf("📣 Raid CTA: %s", roster.Preset),
		Description: roster.Description,
		Color:       raidColor,
	}
	embed.Fields = boardMetadataFields(roster.Date, roster.Time, roster.GearRequirement, roster.ItemPower)
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
		Name:  "Error",
		Value: "Preset not found",
	})
	return &embed
}

func boardMetadataFields(date string, time string, gear string, itemPower string) []*discordgo.MessageEmbedField {
	return []*discordgo.MessageEmbedField{
		{Name: "📅 Date", Value: orNotSpecified(date), Inline: true},
		{Name: "🕒 Time (UTC)", Value: orNotSpecified(time), Inline: true},
		{Name: "🛡️ Gear Requirement", Value: orNotSpecified(gear), Inline: true},
		{Name: "📈 Min Item Power", Value: orNotSpecified(itemPower), Inline: true},
		{Name: blank, Value: "**Available Slots**"},
	}
}

func orNotSpecified(value string) string {
	if value == "" {
		return "Not specified"
	}
	return value
}

// BoardComponents builds the button rows posted under a board: one
// sign-up button per preset role, then the cancel and delete controls.
// Discord caps a row at five buttons, so the rows are chunked
func BoardComponents(slots raid.Slots) []discordgo.MessageComponent {

	buttons := []discordgo.MessageComponent{}
	for _, slot := range slots {
		buttons = append(buttons, discordgo.Button{
			Label:    slot.Role,
			Style:    discordgo.PrimaryButton,
			CustomID: raid.SignUpCustomID(slot.Role),
		})
	}
	buttons = append(buttons,
		discordgo.Button{
			Label:    "Cancel Signup",
			Style:    discordgo.SecondaryButton,
			CustomID: raid.CancelCustomID,
		},
		discordgo.Button{
			Label:    "Delete CTA",
			Style:    discordgo.DangerButton,
			CustomID: raid.DeleteCustomID,
		},
	)

	rows := []discordgo.MessageComponent{}
	for start := 0; start < len(buttons); start += 5 {
		end := min(start+5, len(buttons))
		rows = append(rows, discordgo.ActionsRow{Components: buttons[start:end]})
	}
	return rows
}

func PresetListEmbed(presets []raid.Preset) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{Title: "Available Raid Presets", Color: successColor}
	for _, preset := range presets {
		parts := make([]string, 0, len(preset.Slots))
		for _, slot := range preset.Slots {
			// Short role names keep the line readable
			short, _, _ := strings.Cut(slot.Role, " ")
			parts = append(parts, fmt.Sprintf("%s: %d", short, slot.Capacity))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  preset.Name,
			Value: strings.Join(parts, ", "),
		})
	}
	return &embed
}

// RegistrationEmbed summarizes a completed registration: identity,
// guild, role and nickname changes, fame totals
func RegistrationEmbed(player albionapi.Player, roleAdded string, nickname string) *discordgo.MessageEmbed {

	return &discordgo.MessageEmbed{
		Title:       "✅ Registration Complete",
		Description: fmt.Sprintf("Successfully registered %s", player.Name),
		Color:       successColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: avatarURL(player.Avatar)},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Albion Online Nickname", Value: player.Name, Inline: true},
			{Name: "Albion Online ID", Value: orNone(player.Id), Inline: true},
			{Name: blank, Value: blank},
			{Name: "Guild", Value: orNone(player.GuildName), Inline: true},
			{Name: "Guild ID", Value: orNone(player.GuildId), Inline: true},
			{Name: blank, Value: blank},
			{Name: "Role Added", Value: orNone(roleAdded), Inline: true},
			{Name: "New Nickname", Value: orNone(nickname), Inline: true},
			{Name: blank, Value: blank},
			{Name: "Kill Fame", Value: fmt.Sprintf("%d", player.KillFame), Inline: true},
			{Name: "Death Fame", Value: fmt.Sprintf("%d", player.DeathFame), Inline: true},
			{Name: "Total Fame", Value: fmt.Sprintf("%d", player.TotalFame()), Inline: true},
		},
	}
}

func AdminRegistrationEmbed(player albionapi.Player, discordid string, roleAdded string, nickname string) *discordgo.MessageEmbed {

	return &discordgo.MessageEmbed{
		Title:       "✅ Admin Registration Complete",
		Description: fmt.Sprintf("Registered **%s** for <@%s>", player.Name, discordid),
		Color:       successColor,
		Thumbnail:   &discordgo.MessageEmbedThumbnail{URL: avatarURL(player.Avatar)},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Guild", Value: orNone(player.GuildName), Inline: true},
			{Name: "Role Added", Value: orNone(roleAdded), Inline: true},
			{Name: "New Nickname", Value: orNone(nickname), Inline: true},
			{Name: "Total Fame", Value: fmt.Sprintf("%d", player.TotalFame()), Inline: true},
		},
	}
}

// UnregisteredGuildAlert is sent to the configured alert channel when
// someone registers from an Albion guild the server does not track
func UnregisteredGuildAlert(discordid string, userTag string, player albionapi.Player) *discordgo.MessageEmbed {

	return &discordgo.MessageEmbed{
		Title:       "🚨 Unregistered Guild Registration Attempt",
		Description: "A user tried to register from a guild that is not registered.",
		Color:       alertColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: fmt.Sprintf("<@%s> (%s)", discordid, userTag), Inline: true},
			{Name: "Albion Name", Value: player.Name, Inline: true},
			{Name: "Guild Name", Value: orUnknown(player.GuildName), Inline: true},
			{Name: "Guild ID", Value: orNone(player.GuildId), Inline: true},
		},
	}
}

func ConfigEmbed(config *store.GuildConfig) *discordgo.MessageEmbed {

	embed := discordgo.MessageEmbed{
		Title: "⚙️ Bot Configuration Updated",
		Color: successColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Admin Role", Value: roleMention(config.AdminRole), Inline: true},
			{Name: "Mod Role", Value: roleMention(config.ModRole), Inline: true},
			{Name: "Allowed Role", Value: roleMention(config.AllowedRole), Inline: true},
			{Name: "Raid Manager Role", Value: roleMention(config.RaidRole), Inline: true},
			{Name: "Raid Notification Role", Value: roleMention(config.RaidNotifyRole), Inline: true},
			{Name: "Alert Channel", Value: channelMention(config.AlertChannel), Inline: true},
			{Name: "Purge Users on Leave", Value: yesNo(config.PurgeOnLeave), Inline: true},
			{Name: "Edit Nicknames", Value: yesNo(config.EditNick), Inline: true},
			{Name: "Guild Tag Visible", Value: yesNo(config.ShowGuildTag), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "You can update these settings anytime by running /setup config again"},
	}
	return &embed
}

func GuildAddedEmbed(guild albionapi.Guild, roleid string, tag string) *discordgo.MessageEmbed {

	return &discordgo.MessageEmbed{
		Title: "✅ Guild Added Successfully",
		Color: successColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Guild Name", Value: orNone(guild.Name), Inline: true},
			{Name: "Guild ID", Value: guild.Id, Inline: true},
			{Name: "Discord Role", Value: roleMention(roleid), Inline: true},
			{Name: "Guild Tag", Value: tag, Inline: true},
		},
	}
}

func GuildMembersEmbed(tag string, members []albionapi.Player) *discordgo.MessageEmbed {

	shown := members
	if len(shown) > 20 {
		shown = shown[:20]
	}
	lines := make([]string, 0, len(shown))
	for _, member := range shown {
		lines = append(lines, fmt.Sprintf("• %s", member.Name))
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Members of %s (%d)", tag, len(members)),
		Description: strings.Join(lines, "\n"),
		Color:       guildColor,
		Footer:      &discordgo.MessageEmbedFooter{Text: "Showing first 20 members"},
	}
}

func avatarURL(avatar string) string {
	if avatar == "" {
		avatar = defaultAvatar
	}
	return avatarRenderURL + avatar
}

func roleMention(roleid string) string {
	if roleid == "" {
		return "None"
	}
	return fmt.Sprintf("<@&%s>", roleid)
}

func channelMention(channelid string) string {
	if channelid == "" {
		return "None"
	}
	return fmt.Sprintf("<#%s>", channelid)
}

func yesNo(value bool) string {
	if value {
		return "✅ Yes"
	}
	return "❌ No"
}

func orNone(value string) string {
	if value == "" {
		return "None"
	}
	return value
}

func orUnknown(value string) string {
	if value == "" {
		return "Unknown"
	}
	return value
}
