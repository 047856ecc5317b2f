package sofifa

import (
	"database/sql"
)

// Version is one rating update of one game edition.
type Version struct {
	VersionID   int    `json:"version_id"`
	FIFAEdition string `json:"fifa_edition"`
	Update      string `json:"update"`
}

// League is a league available on the site, named by its canonical name.
type League struct {
	LeagueID int    `json:"league_id"`
	League   string `json:"league"`
}

// Team is a team listed in a league for one version.
type Team struct {
	TeamID int    `json:"team_id"`
	Team   string `json:"team"`
	League string `json:"league"`
	Version
}

// Player is a squad member of a team for one version.
type Player struct {
	PlayerID int    `json:"player_id"`
	Player   string `json:"player"`
	Team     string `json:"team"`
	League   string `json:"league"`
	Version
}

// TeamRating holds the team attributes of one version, keyed by column name.
type TeamRating struct {
	League  string                    `json:"league"`
	Team    string                    `json:"team"`
	Ratings map[string]sql.NullString `json:"ratings"`
	Version
}

// Points are the six composite face stats shown on a player card.
type Points struct {
	PAC int `json:"pac"`
	SHO int `json:"sho"`
	PAS int `json:"pas"`
	DRI int `json:"dri"`
	DEF int `json:"def"`
	PHY int `json:"phy"`
}

// PlayerRating is the profile snapshot of a player for one version.
type PlayerRating struct {
	PlayerID   int            `json:"player_id"`
	Player     string         `json:"player"`
	SimpleName sql.NullString `json:"simple_name"`
	Name       sql.NullString `json:"name"`
	Age        int            `json:"age"`
	Birthdate  string         `json:"birthdate"` // MM-DD
	Height     int            `json:"height"`    // cm
	Weight     int            `json:"weight"`    // kg
	Position   sql.NullString `json:"pos"`
	Avatar     sql.NullString `json:"avatar"`
	Points     Points         `json:"points"`
	// Scores holds the labelled skills keyed by standardized column name.
	// Value and wage are normalized to integer strings.
	Scores map[string]sql.NullString `json:"scores"`
	Version
}

func nullable(v sql.NullString) any {
	if !v.Valid {
		return nil
	}
	return v.String
}

func (v Version) row(m map[string]any) {
	m["version_id"] = v.VersionID
	m["fifa_edition"] = v.FIFAEdition
	m["update"] = v.Update
}

// Row flattens the rating into column -> value. NULL values are nil.
func (t TeamRating) Row() map[string]any {
	m := map[string]any{
		"league": t.League,
		"team":   t.Team,
	}
	for _, rc := range teamRatingColumns {
		m[rc.column] = nullable(t.Ratings[rc.column])
	}
	t.Version.row(m)
	return m
}

// Row flattens the rating into column -> value. NULL values are nil.
func (p PlayerRating) Row() map[string]any {
	m := map[string]any{
		"player_id":   p.PlayerID,
		"player":      p.Player,
		"simple_name": nullable(p.SimpleName),
		"name":        nullable(p.Name),
		"age":         p.Age,
		"birthdate":   p.Birthdate,
		"height":      p.Height,
		"weight":      p.Weight,
		"pos":         nullable(p.Position),
		"avatar":      nullable(p.Avatar),
		"pac":         p.Points.PAC,
		"sho":         p.Points.SHO,
		"pas":         p.Points.PAS,
		"dri":         p.Points.DRI,
		"def":         p.Points.DEF,
		"phy":         p.Points.PHY,
	}
	for _, field := range skillFields {
		m[field.Name] = nullable(p.Scores[field.Name])
	}
	p.Version.row(m)
	return m
}
