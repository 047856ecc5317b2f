package sofifa

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReaderSelectsLatestVersion(t *testing.T) {
	f := &siteFetcher{}
	r, err := NewReader(context.Background(), f, Options{
		Leagues: []string{"ENG-Premier League"},
		BaseURL: testBaseURL,
		MaxAge:  time.Hour,
	})
	require.NoError(t, err)

	assert.Equal(t, []Version{{VersionID: 240050, FIFAEdition: "FC 24", Update: "Sep 22, 2023"}}, r.Versions())
	assert.Equal(t, []string{"ENG-Premier League"}, r.Leagues())

	require.Len(t, f.calls, 3)
	assert.Equal(t, fetchCall{url: testBaseURL, key: "index.html", maxAge: time.Hour}, f.calls[0])
	assert.Equal(t, "updates_FC 24.html", f.calls[1].key)
	assert.Equal(t, time.Hour, f.calls[1].maxAge)
	assert.Equal(t, "updates_FIFA 23.html", f.calls[2].key)
	assert.Zero(t, f.calls[2].maxAge, "older editions are trusted forever")
}

func TestReadVersionsSortedAscending(t *testing.T) {
	r := newTestReader(t, &siteFetcher{}, Options{})

	versions, err := r.ReadVersions(context.Background())
	require.NoError(t, err)
	require.Len(t, versions, 4)

	for i := 1; i < len(versions); i++ {
		assert.Less(t, versions[i-1].VersionID, versions[i].VersionID)
	}
	assert.Equal(t, Version{VersionID: 230034, FIFAEdition: "FIFA 23", Update: "Feb 1, 2023"}, versions[0])
	assert.Equal(t, Version{VersionID: 240002, FIFAEdition: "FC 24", Update: "Aug 1, 2023"}, versions[2])
	assert.Equal(t, versions[len(versions)-1], r.Versions()[0], "latest is the highest id")
}

func TestVersionSelection(t *testing.T) {
	all := newTestReader(t, &siteFetcher{}, Options{Versions: AllVersions()})
	assert.Len(t, all.Versions(), 4)

	some := newTestReader(t, &siteFetcher{}, Options{Versions: VersionIDs(240050, 230054, 240050)})
	require.Len(t, some.Versions(), 2)
	assert.Equal(t, 230054, some.Versions()[0].VersionID)
	assert.Equal(t, 240050, some.Versions()[1].VersionID)

	_, err := NewReader(context.Background(), &siteFetcher{}, Options{BaseURL: testBaseURL, Versions: VersionIDs(230054, 1)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidVersion))
	var invalid *InvalidVersionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, []int{1}, invalid.Missing)
}

func TestParseVersionSelector(t *testing.T) {
	tests := []struct {
		in   string
		want VersionSelector
	}{
		{"", LatestVersion()},
		{"latest", LatestVersion()},
		{"ALL", AllVersions()},
		{"230034, 230035", VersionIDs(230034, 230035)},
	}
	for _, tt := range tests {
		got, err := ParseVersionSelector(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseVersionSelector("newest")
	assert.True(t, errors.Is(err, ErrInvalidVersion))
}

func TestNewReaderRejectsUnknownLeague(t *testing.T) {
	f := &siteFetcher{}
	_, err := NewReader(context.Background(), f, Options{BaseURL: testBaseURL, Leagues: []string{"XXX-Nowhere"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownLeague))
	assert.Empty(t, f.calls, "rejected before any request")
}

func TestReadLeagues(t *testing.T) {
	r := newTestReader(t, &siteFetcher{}, Options{Leagues: []string{"ESP-La Liga", "ENG-Premier League"}})

	leagues, err := r.ReadLeagues(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []League{
		{LeagueID: 13, League: "ENG-Premier League"},
		{LeagueID: 53, League: "ESP-La Liga"},
	}, leagues)
}

func TestReadLeaguesNotListed(t *testing.T) {
	r := newTestReader(t, &siteFetcher{}, Options{Leagues: []string{"GER-Bundesliga"}})

	_, err := r.ReadLeagues(context.Background())
	var unknown *UnknownLeagueError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "GER-Bundesliga", unknown.League)
}

func TestLoadLeagueDict(t *testing.T) {
	path := filepath.Join(t.TempDir(), "league_dict.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
NED-Eredivisie:
  SoFIFA: "[Netherlands] Eredivisie"
  FBref: "Eredivisie"
USA-MLS:
  FBref: "Major League Soccer"
`), 0o644))

	dict, err := LoadLeagueDict(path)
	require.NoError(t, err)
	assert.Equal(t, "[Netherlands] Eredivisie", dict["NED-Eredivisie"])
	assert.Equal(t, "[England] Premier League", dict["ENG-Premier League"])
	assert.NotContains(t, dict, "USA-MLS")
}

func TestReadTeams(t *testing.T) {
	f := &siteFetcher{}
	rec := &stepRecorder{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}, Reporter: rec})

	teams, err := r.ReadTeams(context.Background())
	require.NoError(t, err)

	latest := Version{VersionID: 240050, FIFAEdition: "FC 24", Update: "Sep 22, 2023"}
	assert.Equal(t, []Team{
		{TeamID: 1, Team: "Arsenal", League: "ENG-Premier League", Version: latest},
		{TeamID: 11, Team: "Manchester United", League: "ENG-Premier League", Version: latest},
	}, teams)
	assert.Equal(t, []string{"teams 1/1 ENG-Premier League in Sep 22, 2023 edition"}, rec.steps)
	assert.Equal(t, 1, f.fetched("/teams?lg=13&r=240050&set=true"))
}

func TestReadTeamsCoversEveryLeagueAndVersion(t *testing.T) {
	r := newTestReader(t, &siteFetcher{}, Options{
		Leagues:  []string{"ENG-Premier League", "ESP-La Liga"},
		Versions: AllVersions(),
	})

	teams, err := r.ReadTeams(context.Background())
	require.NoError(t, err)
	require.Len(t, teams, 3*4)

	selected := map[string]bool{"ENG-Premier League": true, "ESP-La Liga": true}
	versions := make(map[int]bool)
	for _, v := range r.Versions() {
		versions[v.VersionID] = true
	}
	seen := make(map[string]map[int]bool)
	for i, team := range teams {
		assert.True(t, selected[team.League], team.League)
		assert.True(t, versions[team.VersionID], team.VersionID)
		if i > 0 {
			assert.LessOrEqual(t, teams[i-1].TeamID, team.TeamID)
		}
		if seen[team.League] == nil {
			seen[team.League] = make(map[int]bool)
		}
		seen[team.League][team.VersionID] = true
	}
	for league := range selected {
		assert.Len(t, seen[league], 4, league)
	}
}

func TestReadTeamsHonorsCancellation(t *testing.T) {
	r := newTestReader(t, &siteFetcher{}, Options{Leagues: []string{"ENG-Premier League"}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.ReadTeams(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestReadPlayersByAlias(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	for _, filter := range []string{"Manchester United", "Manchester Utd", "Man United"} {
		t.Run(filter, func(t *testing.T) {
			players, err := r.ReadPlayers(context.Background(), filter)
			require.NoError(t, err)
			require.Len(t, players, 2, "only the first squad table is read")
			assert.Equal(t, 212198, players[0].PlayerID)
			assert.Equal(t, "Bruno Fernandes", players[0].Player)
			assert.Equal(t, 231677, players[1].PlayerID)
			for _, p := range players {
				assert.Equal(t, "Manchester United", p.Team)
				assert.Equal(t, "ENG-Premier League", p.League)
				assert.Equal(t, 240050, p.VersionID)
			}
		})
	}
}

func TestReadPlayersUnknownTeam(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	_, err := r.ReadPlayers(context.Background(), "Nonexistent FC")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	assert.Zero(t, f.fetched("/team/"), "no squad page requested")
	assert.Equal(t, 1, f.fetched("/api/league"), "league listing still read")
	assert.Equal(t, 1, f.fetched("/teams?lg=13"), "team listing still read")
}

func TestReadPlayersReadsEachTeamOncePerVersion(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}, Versions: AllVersions()})

	players, err := r.ReadPlayers(context.Background(), "Arsenal")
	require.NoError(t, err)
	assert.Len(t, players, 4)
	assert.Equal(t, 4, f.fetched("/team/1/"))

	versions := make(map[int]bool)
	for _, p := range players {
		versions[p.VersionID] = true
	}
	assert.Len(t, versions, 4)
}

func TestReadTeamRatings(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	ratings, err := r.ReadTeamRatings(context.Background())
	require.NoError(t, err)
	require.Len(t, ratings, 2)

	arsenal, united := ratings[0], ratings[1]
	assert.Equal(t, "Arsenal", arsenal.Team)
	assert.Equal(t, "Manchester United", united.Team)
	assert.Equal(t, "82", arsenal.Ratings["overall"].String)
	assert.Equal(t, "83", arsenal.Ratings["attack"].String)
	assert.Equal(t, "€120M", arsenal.Ratings["transfer_budget"].String)
	assert.False(t, arsenal.Ratings["club_worth"].Valid)
	assert.Len(t, arsenal.Ratings, len(TeamRatingColumns()))

	row := united.Row()
	assert.Equal(t, "80", row["overall"])
	assert.Nil(t, row["whole_team_average_age"])
	assert.Equal(t, "FC 24", row["fifa_edition"])
	assert.Equal(t, 240050, row["version_id"])

	require.Len(t, f.calls, 2)
	assert.Equal(t, "team_ratings_13_240050.html", f.calls[1].key)
	assert.Contains(t, f.calls[1].url, "&showCol[]=oa&showCol[]=at")
}

func TestReadPlayerRatings(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	ratings, err := r.ReadPlayerRatings(context.Background(), PlayerRatingsQuery{Players: []int{246669}})
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Zero(t, f.fetched("/team/"), "explicit players skip the squad pages")

	saka := ratings[0]
	assert.Equal(t, 246669, saka.PlayerID)
	assert.Equal(t, "Bukayo Saka", saka.Player)
	assert.Equal(t, "Bukayo Saka", saka.SimpleName.String)
	assert.Equal(t, "Bukayo Saka", saka.Name.String)
	assert.Equal(t, 22, saka.Age)
	assert.Equal(t, "09-05", saka.Birthdate)
	assert.Equal(t, 178, saka.Height)
	assert.Equal(t, 72, saka.Weight)
	assert.Equal(t, "RW", saka.Position.String)
	assert.Equal(t, "https://cdn.sofifa.net/players/246/669/24_120.png", saka.Avatar.String)
	assert.Equal(t, Points{PAC: 85, SHO: 80, PAS: 80, DRI: 86, DEF: 56, PHY: 68}, saka.Points)

	assert.Equal(t, "86", saka.Scores["overallrating"].String)
	assert.Equal(t, "88", saka.Scores["potential"].String)
	assert.Equal(t, "120000000", saka.Scores["value"].String)
	assert.Equal(t, "190000", saka.Scores["wage"].String)
	assert.Equal(t, "82", saka.Scores["crossing"].String)
	assert.Equal(t, "70", saka.Scores["fk_accuracy"].String)
	assert.Equal(t, "84", saka.Scores["positioning"].String)
	assert.Equal(t, "10", saka.Scores["gk_positioning"].String)
	assert.Equal(t, "80", saka.Scores["composure"].String)
	assert.False(t, saka.Scores["gk_reflexes"].Valid)
	assert.Len(t, saka.Scores, len(SkillColumns()))

	row := saka.Row()
	assert.Nil(t, row["gk_reflexes"])
	assert.Equal(t, 85, row["pac"])
	assert.Equal(t, "Sep 22, 2023", row["update"])
}

func TestReadPlayerRatingsByTeam(t *testing.T) {
	f := &siteFetcher{}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	ratings, err := r.ReadPlayerRatings(context.Background(), PlayerRatingsQuery{Teams: []string{"Arsenal"}})
	require.NoError(t, err)
	require.Len(t, ratings, 1)
	assert.Equal(t, "Bukayo Saka", ratings[0].Player)
	assert.Equal(t, 1, f.fetched("/team/1/"))
}

func TestReadPlayerRatingsMalformedBio(t *testing.T) {
	f := &siteFetcher{players: map[int]string{212198: "player_malformed.html"}}
	r := newTestReader(t, f, Options{Leagues: []string{"ENG-Premier League"}})

	_, err := r.ReadPlayerRatings(context.Background(), PlayerRatingsQuery{Players: []int{212198}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "player_212198_240050.html", parseErr.Page)
}

func TestReadLeaguesSharedSiteName(t *testing.T) {
	dict := DefaultLeagueDict()
	dict["ENG-EPL"] = "[England] Premier League"
	assert.Equal(t, []string{"ENG-EPL", "ENG-Premier League"}, dict.canonical()["[England] Premier League"])

	r := newTestReader(t, &siteFetcher{}, Options{
		Leagues:    []string{"ENG-Premier League", "ENG-EPL"},
		LeagueDict: dict,
	})
	for i := 0; i < 20; i++ {
		leagues, err := r.ReadLeagues(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []League{
			{LeagueID: 13, League: "ENG-EPL"},
			{LeagueID: 13, League: "ENG-Premier League"},
		}, leagues)
	}
}
