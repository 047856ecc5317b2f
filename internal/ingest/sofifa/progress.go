package sofifa

import (
	"fmt"
	"log/slog"
)

// Reporter receives a callback before every page a read retrieves.
type Reporter interface {
	OnStep(task string, index, total int, subject string)
}

type logReporter struct {
	logger *slog.Logger
}

func (r logReporter) OnStep(task string, index, total int, subject string) {
	r.logger.Info(fmt.Sprintf("[%d/%d] Retrieving %s for %s", index+1, total, task, subject))
}

type pair[A, B any] struct {
	first  A
	second B
}

// cartesian lists every combination of as and bs, bs varying fastest.
func cartesian[A, B any](as []A, bs []B) []pair[A, B] {
	out := make([]pair[A, B], 0, len(as)*len(bs))
	for _, a := range as {
		for _, b := range bs {
			out = append(out, pair[A, B]{first: a, second: b})
		}
	}
	return out
}
