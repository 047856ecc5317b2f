package sofifa

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/fortuna/sofifa/internal/extract"
	"github.com/fortuna/sofifa/internal/normalize"
)

var skillLabels = []string{
	"Overall rating",
	"Potential",
	"Value",
	"Wage",
	"Crossing",
	"Finishing",
	"Heading accuracy",
	"Short passing",
	"Volleys",
	"Dribbling",
	"Curve",
	"FK Accuracy",
	"Long passing",
	"Ball control",
	"Acceleration",
	"Sprint speed",
	"Agility",
	"Reactions",
	"Balance",
	"Shot power",
	"Jumping",
	"Stamina",
	"Strength",
	"Long shots",
	"Aggression",
	"Interceptions",
	"Positioning",
	"Vision",
	"Penalties",
	"Composure",
	"Defensive awareness",
	"Standing tackle",
	"Sliding tackle",
	"GK Diving",
	"GK Handling",
	"GK Kicking",
	"GK Positioning",
	"GK Reflexes",
}

var skillFields = func() []extract.Field {
	fields := make([]extract.Field, len(skillLabels))
	for i, label := range skillLabels {
		fields[i] = extract.Field{Name: normalize.ColumnName(label), Strategies: extract.Labelled(label)}
	}
	return fields
}()

var currencyColumns = map[string]bool{
	normalize.ColumnName("Value"): true,
	normalize.ColumnName("Wage"):  true,
}

var (
	profileHeading = cascadia.MustCompile("div[class*='profile'] > h1")
	profileLines   = cascadia.MustCompile("div[class*='profile'] > p")

	simpleNameField = extract.Field{Name: "simple_name", Strategies: []extract.Strategy{extract.OwnText("body > header > section > h1")}}
	positionField   = extract.Field{Name: "pos", Strategies: []extract.Strategy{extract.OwnText("div[class*='profile'] > p > span")}}
	avatarField     = extract.Field{Name: "avatar", Strategies: []extract.Strategy{extract.Attr("div[class*='profile'] > img", "data-src")}}
	titleField      = extract.Field{Name: "name", Strategies: []extract.Strategy{extract.Text("#head > title")}}

	bioPattern = regexp.MustCompile(`^(\d+)y\.o\..*?\((\w+\s\d{1,2},\s\d{4})[^)]*\)\s(\d+)cm.*\s(\d+)kg.*?$`)
)

// PlayerRatingsQuery narrows ReadPlayerRatings. Players takes precedence:
// when it is set Teams is ignored and no squad pages are read.
type PlayerRatingsQuery struct {
	Teams   []string
	Players []int
}

// SkillColumns lists the labelled skill columns in display order.
func SkillColumns() []string {
	cols := make([]string, len(skillFields))
	for i, f := range skillFields {
		cols[i] = f.Name
	}
	return cols
}

// ReadPlayerRatings returns a profile snapshot per player and selected
// version, sorted by player name.
func (r *Reader) ReadPlayerRatings(ctx context.Context, q PlayerRatingsQuery) ([]PlayerRating, error) {
	ids := q.Players
	if len(ids) == 0 {
		players, err := r.ReadPlayers(ctx, q.Teams...)
		if err != nil {
			return nil, err
		}
		seen := make(map[int]bool, len(players))
		for _, p := range players {
			if !seen[p.PlayerID] {
				seen[p.PlayerID] = true
				ids = append(ids, p.PlayerID)
			}
		}
	}

	steps := cartesian(r.versions, ids)
	ratings := make([]PlayerRating, 0, len(steps))
	for i, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		version, id := step.first, step.second
		r.reporter.OnStep("ratings", i, len(steps), fmt.Sprintf("player with ID %d in %s edition", id, version.Update))

		key := playerKey(id, version.VersionID)
		body, err := r.fetchDocument(ctx, r.urls.player(id, version.VersionID), key)
		if err != nil {
			return nil, err
		}
		doc, err := parseHTML(body, key)
		if err != nil {
			return nil, err
		}
		rating, err := r.parsePlayerPage(doc, id, version, key)
		if err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	sort.SliceStable(ratings, func(i, j int) bool { return ratings[i].Player < ratings[j].Player })
	return ratings, nil
}

func (r *Reader) parsePlayerPage(doc *goquery.Document, id int, version Version, page string) (PlayerRating, error) {
	entity := fmt.Sprintf("player %d in version %d", id, version.VersionID)
	rating := PlayerRating{PlayerID: id, Version: version}

	name, ok := profileName(doc)
	if !ok {
		return PlayerRating{}, &MissingRequiredFieldError{Field: "player", Entity: entity}
	}
	rating.Player = name

	line, ok := bioLine(doc)
	if !ok {
		return PlayerRating{}, &MissingRequiredFieldError{Field: "basic information", Entity: entity}
	}
	bio, err := parseBio(line, entity, page)
	if err != nil {
		return PlayerRating{}, err
	}
	rating.Age, rating.Birthdate, rating.Height, rating.Weight = bio.age, bio.birthdate, bio.height, bio.weight

	rating.SimpleName = r.optional(doc.Selection, simpleNameField, entity)
	rating.Position = r.optional(doc.Selection, positionField, entity)
	rating.Avatar = r.optional(doc.Selection, avatarField, entity)
	if title := r.optional(doc.Selection, titleField, entity); title.Valid {
		before, _, _ := strings.Cut(title.String, "-")
		rating.Name = extract.NullIfEmpty(before)
	}

	rating.Points, err = extractPoints(doc)
	if err != nil {
		return PlayerRating{}, &ParseError{Page: page, Entity: entity, Reason: err.Error()}
	}

	rating.Scores = make(map[string]sql.NullString, len(skillFields))
	for _, field := range skillFields {
		v, err := extract.Extract(doc.Selection, field, entity)
		if err != nil {
			return PlayerRating{}, err
		}
		if v.Valid && currencyColumns[field.Name] {
			amount, err := normalize.Currency(v.String)
			if err != nil {
				return PlayerRating{}, &ParseError{Page: page, Entity: entity, Reason: err.Error()}
			}
			v.String = amount
		}
		rating.Scores[field.Name] = v
	}
	return rating, nil
}

func (r *Reader) optional(root *goquery.Selection, f extract.Field, entity string) sql.NullString {
	v, _ := extract.Extract(root, f, entity)
	if !v.Valid {
		r.logger.Warn("field not found", "field", f.Name, "entity", entity)
	}
	return v
}

// profileName prefers the text before the heading's line break, falling back
// to the full name after it.
func profileName(doc *goquery.Document) (string, bool) {
	heading := doc.FindMatcher(profileHeading).First()
	if heading.Length() == 0 {
		return "", false
	}
	var before string
	if texts := extract.DirectTexts(heading); len(texts) > 0 {
		before = texts[0]
	}
	after, _ := extract.TextAfter(heading, "br")
	name := fallbackString(before, after)
	return name, name != ""
}

// bioLine returns the first non-blank direct text of the profile paragraphs.
func bioLine(doc *goquery.Document) (string, bool) {
	var line string
	doc.FindMatcher(profileLines).EachWithBreak(func(_ int, p *goquery.Selection) bool {
		for _, text := range extract.DirectTexts(p) {
			if text != "" {
				line = text
				return false
			}
		}
		return true
	})
	return line, line != ""
}

type bio struct {
	age       int
	birthdate string // MM-DD
	height    int
	weight    int
}

// parseBio reads a line such as "21y.o. (Sep 5, 2001) 178cm / 72kg".
func parseBio(line, entity, page string) (bio, error) {
	m := bioPattern.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return bio{}, &ParseError{Page: page, Entity: entity, Reason: fmt.Sprintf("basic information %q not recognized", line)}
	}
	born, err := time.Parse("Jan 2, 2006", m[2])
	if err != nil {
		return bio{}, &ParseError{Page: page, Entity: entity, Reason: fmt.Sprintf("birthdate %q: %v", m[2], err)}
	}
	age, _ := strconv.Atoi(m[1])
	height, _ := strconv.Atoi(m[3])
	weight, _ := strconv.Atoi(m[4])
	return bio{age: age, birthdate: born.Format("01-02"), height: height, weight: weight}, nil
}
