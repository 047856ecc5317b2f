package sofifa

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fortuna/sofifa/internal/normalize"
)

const testBaseURL = "https://sofifa.test"

type fetchCall struct {
	url    string
	key    string
	maxAge time.Duration
}

// siteFetcher serves the testdata fixtures by route, ignoring the version
// parameter of entity pages.
type siteFetcher struct {
	players map[int]string
	calls   []fetchCall
}

func (f *siteFetcher) Get(_ context.Context, rawURL, key string, maxAge time.Duration) ([]byte, error) {
	f.calls = append(f.calls, fetchCall{url: rawURL, key: key, maxAge: maxAge})
	name, err := f.route(rawURL)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(filepath.Join("testdata", name))
}

func (f *siteFetcher) route(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	q := u.Query()
	var id int
	switch {
	case u.Path == "" || u.Path == "/":
		switch q.Get("r") {
		case "":
			return "index.html", nil
		case "240050":
			return "updates_24.html", nil
		case "230054":
			return "updates_23.html", nil
		}
	case u.Path == "/api/league":
		return "leagues.json", nil
	case u.Path == "/teams":
		return fmt.Sprintf("teams_%s.html", q.Get("lg")), nil
	case strings.HasPrefix(u.Path, "/team/"):
		if _, err := fmt.Sscanf(u.Path, "/team/%d/", &id); err == nil {
			return fmt.Sprintf("squad_%d.html", id), nil
		}
	case strings.HasPrefix(u.Path, "/player/"):
		if _, err := fmt.Sscanf(u.Path, "/player/%d/", &id); err == nil {
			if name, ok := f.players[id]; ok {
				return name, nil
			}
			return fmt.Sprintf("player_%d.html", id), nil
		}
	}
	return "", fmt.Errorf("no fixture for %s", rawURL)
}

func (f *siteFetcher) fetched(fragment string) int {
	n := 0
	for _, c := range f.calls {
		if strings.Contains(c.url, fragment) {
			n++
		}
	}
	return n
}

type stepRecorder struct {
	steps []string
}

func (r *stepRecorder) OnStep(task string, index, total int, subject string) {
	r.steps = append(r.steps, fmt.Sprintf("%s %d/%d %s", task, index+1, total, subject))
}

func testAliases() *normalize.Aliases {
	return normalize.NewAliases(map[string][]string{
		"Manchester United": {"Manchester Utd", "Man United"},
	})
}

func newTestReader(t *testing.T, f *siteFetcher, opts Options) *Reader {
	t.Helper()
	opts.BaseURL = testBaseURL
	if opts.Aliases == nil {
		opts.Aliases = testAliases()
	}
	r, err := NewReader(context.Background(), f, opts)
	require.NoError(t, err)
	f.calls = nil
	return r
}
