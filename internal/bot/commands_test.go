package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandsSurface(t *testing.T) {

	names := []string{}
	for _, command := range Commands() {
		names = append(names, command.Name)
	}
	assert.ElementsMatch(t, []string{"setup", "register", "guild", "guildmembers", "admin", "raid"}, names)
}

func TestRaidCommandSlotOptions(t *testing.T) {

	require.Equal(t, len(raidRoles), len(presetSlotOptions))

	var presetCreate *discordgo.ApplicationCommandOption
	for _, sub := range raidCommand().Options {
		if sub.Name == "preset_create" {
			presetCreate = sub
		}
	}
	require.NotNil(t, presetCreate)

	// The name option plus one integer option per raid role, in the
	// order the boards display them
	require.Len(t, presetCreate.Options, len(raidRoles)+1)
	assert.Equal(t, "name", presetCreate.Options[0].Name)
	for index, option := range presetCreate.Options[1:] {
		assert.Equal(t, presetSlotOptions[index], option.Name)
		assert.Equal(t, discordgo.ApplicationCommandOptionInteger, option.Type)
		assert.True(t, option.Required)
	}
}

func TestRaidCommandAutocomplete(t *testing.T) {

	for _, sub := range raidCommand().Options {
		switch sub.Name {
		case "setup":
			assert.True(t, sub.Options[0].Autocomplete, "preset option should autocomplete")
		case "preset_delete":
			assert.True(t, sub.Options[0].Autocomplete, "name option should autocomplete")
		}
	}
}

func TestPermissionHelpers(t *testing.T) {

	admin := &discordgo.Member{Permissions: discordgo.PermissionAdministrator}
	member := &discordgo.Member{Roles: []string{"1", "2"}}

	assert.True(t, isAdministrator(admin))
	assert.False(t, isAdministrator(member))
	assert.False(t, isAdministrator(nil))

	assert.True(t, hasRole(member, "2"))
	assert.False(t, hasRole(member, "3"))
	assert.False(t, hasRole(member, ""))
	assert.False(t, hasRole(nil, "2"))
}
