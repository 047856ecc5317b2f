package sofifa

import (
	"context"
	"fmt"
	"regexp"
	"sort"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	squadTable      = cascadia.MustCompile("article > table")
	squadLinks      = cascadia.MustCompile("td:nth-of-type(2) > a[href*='/player/']")
	playerIDPattern = regexp.MustCompile(`\/player\/(\d+)\/`)
)

// ReadPlayers returns the squad members of the selected teams, sorted by
// player id. With no team filter every team from ReadTeams is read. A filter
// matches a team under its canonical name or any alias; a filter that
// matches nothing is a *NoDataError. The league and team listings are still
// read to resolve the filter; no squad page is requested in that case.
//
// Each team record is read only for the version it was listed in.
func (r *Reader) ReadPlayers(ctx context.Context, teams ...string) ([]Player, error) {
	all, err := r.ReadTeams(ctx)
	if err != nil {
		return nil, err
	}

	selected := all
	if len(teams) > 0 {
		names := make([]string, 0, 2*len(teams))
		for _, name := range teams {
			names = append(names, name, r.aliases.Replace(name))
		}
		wanted := make(map[string]bool)
		for _, name := range r.aliases.Variants(names...) {
			wanted[name] = true
		}
		selected = selected[:0:0]
		for _, t := range all {
			if wanted[t.Team] {
				selected = append(selected, t)
			}
		}
		if len(selected) == 0 {
			return nil, &NoDataError{Filter: "teams", Values: teams}
		}
	}

	var steps []pair[Version, Team]
	for _, step := range cartesian(r.versions, selected) {
		if step.first.VersionID == step.second.VersionID {
			steps = append(steps, step)
		}
	}

	var players []Player
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version, team := step.first, step.second
		r.reporter.OnStep("list of players", i, len(steps), fmt.Sprintf("%s in %s edition", team.Team, version.Update))

		key := playersKey(team.TeamID, version.VersionID)
		body, err := r.fetchDocument(ctx, r.urls.team(team.TeamID, version.VersionID), key)
		if err != nil {
			return nil, err
		}
		doc, err := parseHTML(body, key)
		if err != nil {
			return nil, err
		}
		squad, err := parseSquad(doc, team, version, key)
		if err != nil {
			return nil, err
		}
		players = append(players, squad...)
	}

	sort.SliceStable(players, func(i, j int) bool { return players[i].PlayerID < players[j].PlayerID })
	return players, nil
}

func parseSquad(doc *goquery.Document, team Team, version Version, page string) ([]Player, error) {
	entity := fmt.Sprintf("squad of %s in version %d", team.Team, version.VersionID)
	table := doc.FindMatcher(squadTable).First()
	if table.Length() == 0 {
		return nil, &ParseError{Page: page, Entity: entity, Reason: "no squad table"}
	}

	var (
		players  []Player
		parseErr error
	)
	table.FindMatcher(squadLinks).EachWithBreak(func(_ int, link *goquery.Selection) bool {
		href, _ := link.Attr("href")
		id, ok := matchID(playerIDPattern, href)
		if !ok {
			parseErr = &ParseError{Page: page, Entity: entity, Reason: fmt.Sprintf("no player id in %q", href)}
			return false
		}
		tip, _ := link.Attr("data-tippy-content")
		players = append(players, Player{
			PlayerID: id,
			Player:   fallbackString(tip, link.Text()),
			Team:     team.Team,
			League:   team.League,
			Version:  version,
		})
		return true
	})
	return players, parseErr
}
