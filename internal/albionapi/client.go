package albionapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"

	"albot/internal/common"
)

// Default server for the Albion gameinfo API
const DefaultBaseURL = "https://gameinfo-sgp.albiononline.com/api/gameinfo"

// Routes inside the gameinfo API
const (
	routeSearch       = "/search?q=%s"
	routePlayer       = "/players/%s"
	routeGuild        = "/guilds/%s"
	routeGuildMembers = "/guilds/%s/members"
)

// ErrNotFound means the searched player or guild does not exist on
// the game server
var ErrNotFound = errors.New("not found in the Albion API")

type Client struct {
	base  string
	proxy common.Proxy
}

func NewClient(base string, restrictions []common.Restriction) Client {
	if base == "" {
		base = DefaultBaseURL
	}
	return Client{base: base, proxy: common.NewProxy(nil, restrictions)}
}

// SearchPlayers returns the players matching the query, as the game
// server ranks them
func (client *Client) SearchPlayers(ctx context.Context, name string) ([]Player, error) {

	data, err := client.request(ctx, fmt.Sprintf(routeSearch, url.QueryEscape(name)), true)
	if err != nil {
		return nil, err
	}

	var raw struct{ Players []Player }
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("search response is not correctly formatted: %w", err)
	}
	return raw.Players, nil
}

// GetPlayerInfo resolves a character by its exact name. The search
// endpoint is fuzzy, so the result is matched case insensitively and
// then completed with the detail endpoint
func (client *Client) GetPlayerInfo(ctx context.Context, name string) (Player, error) {

	players, err := client.SearchPlayers(ctx, name)
	if err != nil {
		return Player{}, err
	}

	var hit *Player
	for i := range players {
		if strings.EqualFold(players[i].Name, name) {
			hit = &players[i]
			break
		}
	}
	if hit == nil {
		log.Debug().Msg(fmt.Sprintf("No exact match for player name %s", name))
		return Player{}, ErrNotFound
	}

	detailed, err := client.GetPlayerByID(ctx, hit.Id)
	if err != nil {
		// The search hit is still usable on its own
		log.Warn().Msg(fmt.Sprintf("Could not fetch details for player %s: %v", hit.Id, err))
		return *hit, nil
	}
	return mergePlayer(*hit, detailed), nil
}

// GetPlayerByID fetches the detail record of a character
func (client *Client) GetPlayerByID(ctx context.Context, id string) (Player, error) {

	data, err := client.request(ctx, fmt.Sprintf(routePlayer, url.PathEscape(id)), true)
	if err != nil {
		return Player{}, err
	}

	var player Player
	if err := json.Unmarshal(data, &player); err != nil {
		return Player{}, fmt.Errorf("player response is not correctly formatted: %w", err)
	}
	if player.Id == "" {
		return Player{}, ErrNotFound
	}
	return player, nil
}

func (client *Client) GetGuildInfo(ctx context.Context, id string) (Guild, error) {

	data, err := client.request(ctx, fmt.Sprintf(routeGuild, url.PathEscape(id)), true)
	if err != nil {
		return Guild{}, err
	}

	var guild Guild
	if err := json.Unmarshal(data, &guild); err != nil {
		return Guild{}, fmt.Errorf("guild response is not correctly formatted: %w", err)
	}
	if guild.Id == "" {
		return Guild{}, ErrNotFound
	}
	return guild, nil
}

// GetGuildMembers lists the current members of a guild. Marked non
// vital so the daily sweep cannot starve interactive lookups
func (client *Client) GetGuildMembers(ctx context.Context, id string) ([]Player, error) {

	data, err := client.request(ctx, fmt.Sprintf(routeGuildMembers, url.PathEscape(id)), false)
	if err != nil {
		return nil, err
	}

	var members []Player
	if err := json.Unmarshal(data, &members); err != nil {
		return nil, fmt.Errorf("guild members response is not correctly formatted: %w", err)
	}
	return members, nil
}

func (client *Client) request(ctx context.Context, route string, vital bool) ([]byte, error) {
	return client.proxy.Request(ctx, client.base+route, vital)
}

// The detail endpoint omits a few fields the search carries, so keep
// the search values where the details came back empty
func mergePlayer(search Player, detailed Player) Player {
	merged := detailed
	if merged.Name == "" {
		merged.Name = search.Name
	}
	if merged.GuildId == "" {
		merged.GuildId = search.GuildId
	}
	if merged.GuildName == "" {
		merged.GuildName = search.GuildName
	}
	if merged.Avatar == "" {
		merged.Avatar = search.Avatar
	}
	return merged
}
