package bot

import (
	"slices"

	"github.com/bwmarrin/discordgo"
)

func isAdministrator(member *discordgo.Member) bool {
	return member != nil && member.Permissions&discordgo.PermissionAdministrator != 0
}

func hasRole(member *discordgo.Member, roleid string) bool {
	if member == nil || roleid == "" {
		return false
	}
	return slices.Contains(member.Roles, roleid)
}

// hasRoleOrHigher tells whether the member's highest role sits at or
// above the given role in the server's hierarchy
func hasRoleOrHigher(discord *discordgo.Session, guildid string, member *discordgo.Member, roleid string) bool {

	if member == nil || roleid == "" {
		return false
	}
	roles, err := discord.GuildRoles(guildid)
	if err != nil {
		return false
	}

	positions := make(map[string]int, len(roles))
	for _, role := range roles {
		positions[role.ID] = role.Position
	}
	target, ok := positions[roleid]
	if !ok {
		return false
	}

	highest := -1
	for _, id := range member.Roles {
		if position, ok := positions[id]; ok && position > highest {
			highest = position
		}
	}
	return highest >= target
}
