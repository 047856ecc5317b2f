package sofifa

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type selectorKind int

const (
	selectLatest selectorKind = iota
	selectAll
	selectIDs
)

// VersionSelector picks the versions a Reader works on. The zero value
// selects the latest version.
type VersionSelector struct {
	kind selectorKind
	ids  []int
}

// LatestVersion selects the most recent version only.
func LatestVersion() VersionSelector {
	return VersionSelector{kind: selectLatest}
}

// AllVersions selects the full version history.
func AllVersions() VersionSelector {
	return VersionSelector{kind: selectAll}
}

// VersionIDs selects the given versions.
func VersionIDs(ids ...int) VersionSelector {
	return VersionSelector{kind: selectIDs, ids: append([]int(nil), ids...)}
}

// ParseVersionSelector reads "latest", "all" or a comma separated list of
// version ids such as "230034,230035".
func ParseVersionSelector(s string) (VersionSelector, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "latest":
		return LatestVersion(), nil
	case "all":
		return AllVersions(), nil
	}
	var ids []int
	for _, part := range strings.Split(s, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return VersionSelector{}, &InvalidVersionError{Selector: s}
		}
		ids = append(ids, id)
	}
	return VersionIDs(ids...), nil
}

func (s VersionSelector) String() string {
	switch s.kind {
	case selectAll:
		return "all"
	case selectIDs:
		parts := make([]string, len(s.ids))
		for i, id := range s.ids {
			parts[i] = strconv.Itoa(id)
		}
		return strings.Join(parts, ",")
	default:
		return "latest"
	}
}

// resolve applies the selector to the version history, which must be
// sorted by ascending id.
func (s VersionSelector) resolve(history []Version) ([]Version, error) {
	if len(history) == 0 {
		return nil, &InvalidVersionError{Selector: s.String()}
	}
	switch s.kind {
	case selectAll:
		return append([]Version(nil), history...), nil
	case selectIDs:
		if len(s.ids) == 0 {
			return nil, &InvalidVersionError{Selector: s.String()}
		}
		byID := make(map[int]Version, len(history))
		for _, v := range history {
			byID[v.VersionID] = v
		}
		seen := make(map[int]bool, len(s.ids))
		var selected []Version
		var missing []int
		for _, id := range s.ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			v, ok := byID[id]
			if !ok {
				missing = append(missing, id)
				continue
			}
			selected = append(selected, v)
		}
		if len(missing) > 0 {
			return nil, &InvalidVersionError{Selector: s.String(), Missing: missing}
		}
		sort.Slice(selected, func(i, j int) bool { return selected[i].VersionID < selected[j].VersionID })
		return selected, nil
	default:
		return []Version{history[len(history)-1]}, nil
	}
}

// LeagueDict maps canonical league names to the names the site uses.
type LeagueDict map[string]string

// DefaultLeagueDict covers the big five European leagues.
func DefaultLeagueDict() LeagueDict {
	return LeagueDict{
		"ENG-Premier League": "[England] Premier League",
		"ESP-La Liga":        "[Spain] La Liga",
		"FRA-Ligue 1":        "[France] Ligue 1",
		"GER-Bundesliga":     "[Germany] Bundesliga",
		"ITA-Serie A":        "[Italy] Serie A",
	}
}

// LoadLeagueDict merges a league dictionary file over the defaults. The
// file maps canonical names to per-source names:
//
//	NED-Eredivisie:
//	  SoFIFA: "[Netherlands] Eredivisie"
//
// Entries without a SoFIFA name are ignored. An empty path yields the
// defaults.
func LoadLeagueDict(path string) (LeagueDict, error) {
	dict := DefaultLeagueDict()
	if path == "" {
		return dict, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read league dict: %w", err)
	}
	var entries map[string]map[string]string
	if err := yaml.Unmarshal(content, &entries); err != nil {
		return nil, fmt.Errorf("decode league dict %s: %w", path, err)
	}
	for canonical, sources := range entries {
		if name, ok := sources["SoFIFA"]; ok && name != "" {
			dict[canonical] = name
		}
	}
	return dict, nil
}

// canonical returns the inverse mapping, site name -> canonical names.
// Several canonical names may share one site name; they are sorted.
func (d LeagueDict) canonical() map[string][]string {
	inv := make(map[string][]string, len(d))
	for canonical, source := range d {
		inv[source] = append(inv[source], canonical)
	}
	for _, names := range inv {
		sort.Strings(names)
	}
	return inv
}
