package albionapi

// Subset of the gameinfo player data the bot cares about. The API
// uses PascalCase field names, which match Go's exported fields, so
// no tags are needed
type Player struct {
	Id        string
	Name      string
	GuildId   string
	GuildName string
	KillFame  int64
	DeathFame int64
	Avatar    string
}

func (player *Player) TotalFame() int64 {
	return player.KillFame + player.DeathFame
}

type Guild struct {
	Id          string
	Name        string
	FounderName string
	AllianceTag string
	MemberCount int
}
