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
	editionOptions   = cascadia.MustCompile("header > section > p > select:nth-of-type(1) > option")
	updateOptions    = cascadia.MustCompile("header > section > p > select:nth-of-type(2) > option")
	versionIDPattern = regexp.MustCompile(`r=(\d+)`)
)

type editionLink struct {
	label string
	href  string
}

// ReadVersions returns every rating update of every game edition, sorted by
// ascending version id. Only the index and the newest edition page honor the
// configured max age. Pages of older editions are trusted forever.
func (r *Reader) ReadVersions(ctx context.Context) ([]Version, error) {
	body, err := r.fetcher.Get(ctx, r.urls.root(), indexKey, r.maxAge)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", indexKey, err)
	}
	doc, err := parseHTML(body, indexKey)
	if err != nil {
		return nil, err
	}
	editions := parseEditions(doc)
	if len(editions) == 0 {
		return nil, &ParseError{Page: indexKey, Entity: "editions", Reason: "no edition selector found"}
	}

	var versions []Version
	for i, edition := range editions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		url, err := r.urls.resolve(edition.href)
		if err != nil {
			return nil, &ParseError{Page: indexKey, Entity: "edition " + edition.label, Reason: err.Error()}
		}

		maxAge := r.maxAge
		if i > 0 {
			maxAge = 0
		}
		key := updatesKey(edition.label)
		body, err := r.fetcher.Get(ctx, url, key, maxAge)
		if err != nil {
			return nil, fmt.Errorf("get %s: %w", key, err)
		}
		doc, err := parseHTML(body, key)
		if err != nil {
			return nil, err
		}
		updates, err := parseUpdates(doc, edition.label, key)
		if err != nil {
			return nil, err
		}
		versions = append(versions, updates...)
	}

	sort.SliceStable(versions, func(i, j int) bool { return versions[i].VersionID < versions[j].VersionID })
	return dedupeVersions(versions), nil
}

func parseEditions(doc *goquery.Document) []editionLink {
	var editions []editionLink
	doc.FindMatcher(editionOptions).Each(func(_ int, opt *goquery.Selection) {
		href, ok := opt.Attr("value")
		if !ok {
			return
		}
		editions = append(editions, editionLink{label: strings.TrimSpace(opt.Text()), href: href})
	})
	return editions
}

func parseUpdates(doc *goquery.Document, edition, page string) ([]Version, error) {
	var (
		versions []Version
		parseErr error
	)
	doc.FindMatcher(updateOptions).EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		href, _ := opt.Attr("value")
		id, ok := matchID(versionIDPattern, href)
		if !ok {
			parseErr = &ParseError{Page: page, Entity: "updates of " + edition, Reason: fmt.Sprintf("no version id in %q", href)}
			return false
		}
		versions = append(versions, Version{
			VersionID:   id,
			FIFAEdition: edition,
			Update:      strings.TrimSpace(opt.Text()),
		})
		return true
	})
	return versions, parseErr
}

// dedupeVersions keeps the first of consecutive versions sharing an id.
func dedupeVersions(sorted []Version) []Version {
	out := sorted[:0]
	for _, v := range sorted {
		if len(out) > 0 && v.VersionID == out[len(out)-1].VersionID {
			continue
		}
		out = append(out, v)
	}
	return out
}
