package sofifa

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
)

// ReadLeagues returns the selected leagues with their site ids, sorted by
// name. Leagues the dictionary cannot translate are dropped; a selected
// league the site does not list is an *UnknownLeagueError.
func (r *Reader) ReadLeagues(ctx context.Context) ([]League, error) {
	body, err := r.fetchDocument(ctx, r.urls.leagues(), leaguesKey)
	if err != nil {
		return nil, err
	}
	listed, err := parseLeagueDirectory(body)
	if err != nil {
		return nil, err
	}

	toCanonical := r.dict.canonical()
	byName := make(map[string]League, len(listed))
	for _, l := range listed {
		for _, canonical := range toCanonical[l.League] {
			byName[canonical] = League{LeagueID: l.LeagueID, League: canonical}
		}
	}

	leagues := make([]League, 0, len(r.leagues))
	for _, name := range r.leagues {
		l, ok := byName[name]
		if !ok {
			return nil, &UnknownLeagueError{League: name, Reason: "not listed by the site"}
		}
		leagues = append(leagues, l)
	}
	sort.Slice(leagues, func(i, j int) bool { return leagues[i].League < leagues[j].League })
	return leagues, nil
}

// parseLeagueDirectory walks the league API response. Every group under
// "data" holds "childs" entries named "[nation] league" on the site.
func parseLeagueDirectory(body []byte) ([]League, error) {
	var resp map[string]interface{}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ParseError{Page: leaguesKey, Entity: "leagues", Reason: err.Error()}
	}
	groups, ok := resp["data"].([]interface{})
	if !ok {
		return nil, &ParseError{Page: leaguesKey, Entity: "leagues", Reason: `missing "data" array`}
	}

	var leagues []League
	for _, g := range groups {
		group, ok := g.(map[string]interface{})
		if !ok {
			continue
		}
		for _, c := range extractArray(group, "childs") {
			child, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			id, ok := extractInt(child, "id")
			if !ok {
				return nil, &ParseError{Page: leaguesKey, Entity: "leagues", Reason: fmt.Sprintf("league without id: %v", child)}
			}
			leagues = append(leagues, League{
				LeagueID: id,
				League:   fmt.Sprintf("[%s] %s", extractString(child, "nationName"), extractString(child, "value")),
			})
		}
	}
	return leagues, nil
}
