package albionapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const searchBody = `{
	"guilds": [],
	"players": [
		{"Id": "p1", "Name": "Lancelot", "GuildId": "g1", "GuildName": "Round Table", "KillFame": 1000, "DeathFame": 200},
		{"Id": "p2", "Name": "LancelotTheSecond", "GuildId": "", "GuildName": "", "KillFame": 5, "DeathFame": 5}
	]
}`

const playerBody = `{"Id": "p1", "Name": "Lancelot", "GuildId": "g1", "GuildName": "", "KillFame": 1200, "DeathFame": 300, "Avatar": "AVATAR_01"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, nil)
}

func TestGetPlayerInfo(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/search":
			assert.Equal(t, "lancelot", r.URL.Query().Get("q"))
			w.Write([]byte(searchBody))
		case "/players/p1":
			w.Write([]byte(playerBody))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	// Case-insensitive exact match, completed with the detail record
	// but keeping search fields the details omitted
	player, err := client.GetPlayerInfo(context.Background(), "lancelot")
	require.NoError(t, err)
	assert.Equal(t, "p1", player.Id)
	assert.Equal(t, "Round Table", player.GuildName)
	assert.Equal(t, int64(1200), player.KillFame)
	assert.Equal(t, "AVATAR_01", player.Avatar)
	assert.Equal(t, int64(1500), player.TotalFame())
}

func TestGetPlayerInfoNoExactMatch(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchBody))
	})

	_, err := client.GetPlayerInfo(context.Background(), "Lance")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetPlayerInfoSurvivesDetailFailure(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/search" {
			w.Write([]byte(searchBody))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	player, err := client.GetPlayerInfo(context.Background(), "Lancelot")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), player.KillFame)
}

func TestGetGuildInfo(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guilds/g1", r.URL.Path)
		w.Write([]byte(`{"Id": "g1", "Name": "Round Table", "MemberCount": 12}`))
	})

	guild, err := client.GetGuildInfo(context.Background(), "g1")
	require.NoError(t, err)
	assert.Equal(t, "Round Table", guild.Name)
	assert.Equal(t, 12, guild.MemberCount)
}

func TestGetGuildMembers(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/guilds/g1/members", r.URL.Path)
		w.Write([]byte(`[{"Id": "p1", "Name": "Lancelot"}, {"Id": "p3", "Name": "Percival"}]`))
	})

	members, err := client.GetGuildMembers(context.Background(), "g1")
	require.NoError(t, err)
	require.Len(t, members, 2)
	assert.Equal(t, "Percival", members[1].Name)
}

func TestMalformedResponse(t *testing.T) {

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := client.SearchPlayers(context.Background(), "Lancelot")
	assert.Error(t, err)
}
