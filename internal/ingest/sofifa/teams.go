package sofifa

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

var (
	tableRows       = cascadia.MustCompile("table > tbody > tr")
	secondCellLinks = cascadia.MustCompile("td:nth-of-type(2) a")
	teamIDPattern   = regexp.MustCompile(`\/team\/(\d+)\/`)
)

// ReadTeams returns the teams of every selected league in every selected
// version, sorted by team id. Team names are canonicalized through the
// alias table.
func (r *Reader) ReadTeams(ctx context.Context) ([]Team, error) {
	leagues, err := r.ReadLeagues(ctx)
	if err != nil {
		return nil, err
	}

	steps := cartesian(leagues, r.versions)
	var teams []Team
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		league, version := step.first, step.second
		r.reporter.OnStep("teams", i, len(steps), fmt.Sprintf("%s in %s edition", league.League, version.Update))

		key := teamsKey(league.LeagueID, version.VersionID)
		body, err := r.fetchDocument(ctx, r.urls.teams(league.LeagueID, version.VersionID), key)
		if err != nil {
			return nil, err
		}
		doc, err := parseHTML(body, key)
		if err != nil {
			return nil, err
		}
		rows, err := parseTeamRows(doc, league.League, version, key)
		if err != nil {
			return nil, err
		}
		for _, t := range rows {
			t.Team = r.aliases.Replace(t.Team)
			teams = append(teams, t)
		}
	}

	sort.SliceStable(teams, func(i, j int) bool { return teams[i].TeamID < teams[j].TeamID })
	return teams, nil
}

func parseTeamRows(doc *goquery.Document, league string, version Version, page string) ([]Team, error) {
	var (
		teams    []Team
		parseErr error
	)
	entity := fmt.Sprintf("teams of %s in version %d", league, version.VersionID)
	doc.FindMatcher(tableRows).EachWithBreak(func(i int, row *goquery.Selection) bool {
		id, name, err := teamLink(row)
		if err != nil {
			parseErr = &ParseError{Page: page, Entity: entity, Reason: fmt.Sprintf("row %d: %v", i+1, err)}
			return false
		}
		teams = append(teams, Team{TeamID: id, Team: name, League: league, Version: version})
		return true
	})
	return teams, parseErr
}

// teamLink reads the team id and display name from the link in the second
// cell of a listing row.
func teamLink(row *goquery.Selection) (int, string, error) {
	link := row.FindMatcher(secondCellLinks).First()
	if link.Length() == 0 {
		return 0, "", fmt.Errorf("no team link in second cell")
	}
	href, _ := link.Attr("href")
	id, ok := matchID(teamIDPattern, href)
	if !ok {
		return 0, "", fmt.Errorf("no team id in %q", href)
	}
	return id, strings.TrimSpace(link.Text()), nil
}
