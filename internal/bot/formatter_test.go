package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"albot/internal/albionapi"
	"albot/internal/raid"
)

func testBoard() raid.Board {
	return raid.Board{
		Preset:          "zvz",
		Date:            "2025-01-10",
		Time:            "20:00",
		Description:     "Bring sets",
		GearRequirement: "8.1",
		ItemPower:       "1400",
		Slots: []raid.BoardSlot{
			{Role: "Tank", Capacity: 2, Occupants: []string{"100", "200"}},
			{Role: "Support", Capacity: 1},
		},
	}
}

func TestBoardEmbed(t *testing.T) {

	embed := BoardEmbed(testBoard())

	assert.Equal(t, "📣 Raid CTA: zvz", embed.Title)
	assert.Equal(t, "Bring sets", embed.Description)
	assert.Equal(t, raidColor, embed.Color)

	// Metadata, separator, then slot fields padded to a multiple of 3
	require.Len(t, embed.Fields, 5+3)
	assert.Equal(t, "2025-01-10", embed.Fields[0].Value)
	assert.Equal(t, "20:00", embed.Fields[1].Value)
	assert.Equal(t, "8.1", embed.Fields[2].Value)
	assert.Equal(t, "1400", embed.Fields[3].Value)

	tank := embed.Fields[5]
	assert.Equal(t, "Tank (2/2)", tank.Name)
	assert.Equal(t, "<@100>, <@200>", tank.Value)

	support := embed.Fields[6]
	assert.Equal(t, "Support (0/1)", support.Name)
	assert.Equal(t, "No signups yet", support.Value)

	assert.Equal(t, blank, embed.Fields[7].Name)
}

func TestBoardEmbedEmptyMetadata(t *testing.T) {

	board := testBoard()
	board.GearRequirement = ""
	board.ItemPower = ""

	embed := BoardEmbed(board)
	assert.Equal(t, "Not specified", embed.Fields[2].Value)
	assert.Equal(t, "Not specified", embed.Fields[3].Value)
}

func TestDegradedBoardEmbed(t *testing.T) {

	roster := raid.Roster{
		Preset:      "zvz",
		Date:        "2025-01-10",
		Time:        "20:00",
		Description: "Bring sets",
	}
	embed := DegradedBoardEmbed(&roster)

	assert.Equal(t, "📣 Raid CTA: zvz", embed.Title)
	last := embed.Fields[len(embed.Fields)-1]
	assert.Equal(t, "Error", last.Name)
	assert.Equal(t, "Preset not found", last.Value)
}

func TestBoardComponents(t *testing.T) {

	slots := raid.Slots{}
	for _, role := range raidRoles {
		slots = append(slots, raid.SlotCount{Role: role, Capacity: 1})
	}

	rows := BoardComponents(slots)

	// 7 sign-up buttons plus 2 controls, chunked by 5
	require.Len(t, rows, 2)
	first := rows[0].(discordgo.ActionsRow)
	second := rows[1].(discordgo.ActionsRow)
	require.Len(t, first.Components, 5)
	require.Len(t, second.Components, 4)

	tank := first.Components[0].(discordgo.Button)
	assert.Equal(t, "Tank", tank.Label)
	assert.Equal(t, "raid_signup_Tank", tank.CustomID)
	assert.Equal(t, discordgo.PrimaryButton, tank.Style)

	cancel := second.Components[2].(discordgo.Button)
	assert.Equal(t, raid.CancelCustomID, cancel.CustomID)
	assert.Equal(t, discordgo.SecondaryButton, cancel.Style)

	remove := second.Components[3].(discordgo.Button)
	assert.Equal(t, raid.DeleteCustomID, remove.CustomID)
	assert.Equal(t, discordgo.DangerButton, remove.Style)
}

func TestPresetListEmbed(t *testing.T) {

	presets := []raid.Preset{
		{Name: "zvz", Slots: raid.Slots{
			{Role: "Tank", Capacity: 2},
			{Role: "Melee DPS", Capacity: 4},
		}},
		{Name: "ganking", Slots: raid.Slots{
			{Role: "Support", Capacity: 1},
		}},
	}

	embed := PresetListEmbed(presets)
	require.Len(t, embed.Fields, 2)
	assert.Equal(t, "zvz", embed.Fields[0].Name)
	assert.Equal(t, "Tank: 2, Melee: 4", embed.Fields[0].Value)
	assert.Equal(t, "Support: 1", embed.Fields[1].Value)
}

func TestRegistrationEmbed(t *testing.T) {

	player := albionapi.Player{
		Id:        "p1",
		Name:      "Conqueror",
		GuildId:   "g1",
		GuildName: "Vicarious",
		KillFame:  1000,
		DeathFame: 500,
		Avatar:    "RING1",
	}

	embed := RegistrationEmbed(player, "<@&55>", "[VIC] Conqueror")

	assert.Equal(t, "Successfully registered Conqueror", embed.Description)
	require.NotNil(t, embed.Thumbnail)
	assert.Equal(t, avatarRenderURL+"RING1", embed.Thumbnail.URL)

	values := map[string]string{}
	for _, field := range embed.Fields {
		values[field.Name] = field.Value
	}
	assert.Equal(t, "Vicarious", values["Guild"])
	assert.Equal(t, "<@&55>", values["Role Added"])
	assert.Equal(t, "[VIC] Conqueror", values["New Nickname"])
	assert.Equal(t, "1500", values["Total Fame"])
}

func TestRegistrationEmbedDefaultAvatar(t *testing.T) {

	embed := RegistrationEmbed(albionapi.Player{Name: "Someone"}, "", "")
	assert.Equal(t, avatarRenderURL+defaultAvatar, embed.Thumbnail.URL)
}

func TestGuildMembersEmbedTruncates(t *testing.T) {

	members := make([]albionapi.Player, 30)
	for i := range members {
		members[i] = albionapi.Player{Name: "Member"}
	}

	embed := GuildMembersEmbed("VIC", members)
	assert.Equal(t, "Members of VIC (30)", embed.Title)
	// Only the first 20 listed
	assert.Equal(t, 20, len(splitLines(embed.Description)))
}

func splitLines(value string) []string {
	lines := []string{}
	start := 0
	for i := 0; i < len(value); i++ {
		if value[i] == '\n' {
			lines = append(lines, value[start:i])
			start = i + 1
		}
	}
	return append(lines, value[start:])
}
