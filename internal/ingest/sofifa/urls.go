package sofifa

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultBaseURL is the site root.
const DefaultBaseURL = "https://sofifa.com"

// urls builds page addresses and the cache keys they are stored under.
type urls struct {
	base *url.URL
}

func newURLs(base string) (urls, error) {
	if base == "" {
		base = DefaultBaseURL
	}
	u, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return urls{}, fmt.Errorf("invalid base url %q", base)
	}
	return urls{base: u}, nil
}

func (u urls) root() string {
	return u.base.String()
}

// resolve turns a link found on a page into an absolute address.
func (u urls) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	return u.base.ResolveReference(ref).String(), nil
}

func (u urls) leagues() string {
	return u.root() + "/api/league"
}

func (u urls) teams(leagueID, versionID int) string {
	return fmt.Sprintf("%s/teams?lg=%d&r=%d&set=true", u.root(), leagueID, versionID)
}

func (u urls) teamRatings(leagueID, versionID int) string {
	var b strings.Builder
	b.WriteString(u.teams(leagueID, versionID))
	for _, rc := range teamRatingColumns {
		b.WriteString("&showCol[]=")
		b.WriteString(rc.code)
	}
	return b.String()
}

func (u urls) team(teamID, versionID int) string {
	return fmt.Sprintf("%s/team/%d/?r=%d&set=true", u.root(), teamID, versionID)
}

func (u urls) player(playerID, versionID int) string {
	return fmt.Sprintf("%s/player/%d/?r=%d&set=true", u.root(), playerID, versionID)
}

const (
	indexKey   = "index.html"
	leaguesKey = "leagues.json"
)

func updatesKey(edition string) string {
	return fmt.Sprintf("updates_%s.html", strings.ReplaceAll(edition, "/", "_"))
}

func teamsKey(leagueID, versionID int) string {
	return fmt.Sprintf("teams_%d_%d.html", leagueID, versionID)
}

func teamRatingsKey(leagueID, versionID int) string {
	return fmt.Sprintf("team_ratings_%d_%d.html", leagueID, versionID)
}

func playersKey(teamID, versionID int) string {
	return fmt.Sprintf("players_%d_%d.html", teamID, versionID)
}

func playerKey(playerID, versionID int) string {
	return fmt.Sprintf("player_%d_%d.html", playerID, versionID)
}
