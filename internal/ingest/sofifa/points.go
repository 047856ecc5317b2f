package sofifa

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// The player card is drawn client side from POINT_<CODE>=<int> assignments
// in an inline script. Everything that depends on that script lives here.
var (
	pointPattern = regexp.MustCompile(`POINT_(PAC|SHO|PAS|DRI|DEF|PHY)=(\d+)`)
	cardScript   = cascadia.MustCompile("#body > script:nth-of-type(2)")
	anyScript    = cascadia.MustCompile("script")
	pointCodes   = []string{"PAC", "SHO", "PAS", "DRI", "DEF", "PHY"}
)

// extractPoints reads the six face stats. The card script is tried first,
// then every other script that mentions a point.
func extractPoints(doc *goquery.Document) (Points, error) {
	var candidates []string
	if s := doc.FindMatcher(cardScript); s.Length() > 0 {
		candidates = append(candidates, s.First().Text())
	}
	doc.FindMatcher(anyScript).Each(func(_ int, s *goquery.Selection) {
		if text := s.Text(); strings.Contains(text, "POINT_") {
			candidates = append(candidates, text)
		}
	})
	if len(candidates) == 0 {
		return Points{}, fmt.Errorf("no script with face stats")
	}

	var lastMissing []string
	for _, script := range candidates {
		values := scanPoints(script)
		var missing []string
		for _, code := range pointCodes {
			if _, ok := values[code]; !ok {
				missing = append(missing, code)
			}
		}
		if len(missing) == 0 {
			return Points{
				PAC: values["PAC"],
				SHO: values["SHO"],
				PAS: values["PAS"],
				DRI: values["DRI"],
				DEF: values["DEF"],
				PHY: values["PHY"],
			}, nil
		}
		lastMissing = missing
	}
	return Points{}, fmt.Errorf("face stats %s not found", strings.Join(lastMissing, ", "))
}

// scanPoints keeps the first assignment of each code.
func scanPoints(script string) map[string]int {
	values := make(map[string]int, len(pointCodes))
	for _, m := range pointPattern.FindAllStringSubmatch(script, -1) {
		if _, seen := values[m[1]]; seen {
			continue
		}
		if v, err := strconv.Atoi(m[2]); err == nil {
			values[m[1]] = v
		}
	}
	return values
}
