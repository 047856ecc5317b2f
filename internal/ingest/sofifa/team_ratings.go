package sofifa

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/PuerkitoBio/goquery"

	"github.com/fortuna/sofifa/internal/extract"
)

type ratingColumn struct {
	code   string // data-col of the listing cell
	column string
}

var teamRatingColumns = []ratingColumn{
	{"oa", "overall"},
	{"at", "attack"},
	{"md", "midfield"},
	{"df", "defence"},
	{"tb", "transfer_budget"},
	{"cw", "club_worth"},
	{"bs", "build_up_speed"},
	{"bd", "build_up_dribbling"},
	{"bp", "build_up_passing"},
	{"bps", "build_up_positioning"},
	{"cc", "chance_creation_crossing"},
	{"cp", "chance_creation_passing"},
	{"cs", "chance_creation_shooting"},
	{"cps", "chance_creation_positioning"},
	{"da", "defence_aggression"},
	{"dm", "defence_pressure"},
	{"dw", "defence_team_width"},
	{"dd", "defence_defender_line"},
	{"dp", "defence_domestic_prestige"},
	{"ip", "international_prestige"},
	{"ps", "players"},
	{"sa", "starting_xi_average_age"},
	{"ta", "whole_team_average_age"},
}

var teamRatingFields = func() []extract.Field {
	fields := make([]extract.Field, len(teamRatingColumns))
	for i, rc := range teamRatingColumns {
		fields[i] = extract.Field{
			Name:       rc.column,
			Strategies: []extract.Strategy{extract.Text(fmt.Sprintf("td[data-col=%q]", rc.code))},
		}
	}
	return fields
}()

// TeamRatingColumns lists the rating columns in display order.
func TeamRatingColumns() []string {
	cols := make([]string, len(teamRatingColumns))
	for i, rc := range teamRatingColumns {
		cols[i] = rc.column
	}
	return cols
}

// ReadTeamRatings returns the team attributes of every selected league in
// every selected version, sorted by league and team. A rating the listing
// does not show is NULL.
func (r *Reader) ReadTeamRatings(ctx context.Context) ([]TeamRating, error) {
	leagues, err := r.ReadLeagues(ctx)
	if err != nil {
		return nil, err
	}

	steps := cartesian(leagues, r.versions)
	var ratings []TeamRating
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		league, version := step.first, step.second
		r.reporter.OnStep("teams", i, len(steps), fmt.Sprintf("%s in %s edition", league.League, version.Update))

		key := teamRatingsKey(league.LeagueID, version.VersionID)
		body, err := r.fetchDocument(ctx, r.urls.teamRatings(league.LeagueID, version.VersionID), key)
		if err != nil {
			return nil, err
		}
		doc, err := parseHTML(body, key)
		if err != nil {
			return nil, err
		}
		rows, err := r.parseTeamRatingRows(doc, league.League, version, key)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rows...)
	}

	sort.SliceStable(ratings, func(i, j int) bool {
		if ratings[i].League != ratings[j].League {
			return ratings[i].League < ratings[j].League
		}
		return ratings[i].Team < ratings[j].Team
	})
	return ratings, nil
}

func (r *Reader) parseTeamRatingRows(doc *goquery.Document, league string, version Version, page string) ([]TeamRating, error) {
	var (
		ratings  []TeamRating
		parseErr error
	)
	entity := fmt.Sprintf("team ratings of %s in version %d", league, version.VersionID)
	doc.FindMatcher(tableRows).EachWithBreak(func(i int, row *goquery.Selection) bool {
		_, name, err := teamLink(row)
		if err != nil {
			parseErr = &ParseError{Page: page, Entity: entity, Reason: fmt.Sprintf("row %d: %v", i+1, err)}
			return false
		}
		name = r.aliases.Replace(name)

		values := make(map[string]sql.NullString, len(teamRatingFields))
		for _, field := range teamRatingFields {
			v, _ := extract.Extract(row, field, name)
			if !v.Valid {
				r.logger.Warn("could not parse stat", "stat", field.Name, "team", name, "version_id", version.VersionID)
			}
			values[field.Name] = v
		}
		ratings = append(ratings, TeamRating{League: league, Team: name, Ratings: values, Version: version})
		return true
	})
	return ratings, parseErr
}
