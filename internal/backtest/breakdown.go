package backtest

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/proplab/proplab/internal/domain"
)

// seasonLabel maps a bet date onto one of the caller-supplied season labels
// such as "2023-24". The first label containing the bet's year wins, with the
// bare year standing in when none does.
func seasonLabel(date time.Time, seasons []string) string {
	year := strconv.Itoa(date.Year())
	for _, s := range seasons {
		if strings.Contains(s, year) {
			return s
		}
	}
	return year
}

type bucketTally struct {
	games  int
	hits   int
	profit float64
}

func (t *bucketTally) hitRate() float64 {
	if t.games == 0 {
		return 0
	}
	return float64(t.hits) / float64(t.games)
}

func (t *bucketTally) roi() float64 {
	if t.games == 0 {
		return 0
	}
	return t.profit / float64(t.games)
}

// bucketGroup tallies settled bets under string keys, remembering first-seen
// order for groupings that should stay chronological.
type bucketGroup struct {
	order   []string
	buckets map[string]*bucketTally
}

func newBucketGroup() *bucketGroup {
	return &bucketGroup{buckets: make(map[string]*bucketTally)}
}

func (g *bucketGroup) add(key string, hit bool, profit float64) {
	t, ok := g.buckets[key]
	if !ok {
		t = &bucketTally{}
		g.buckets[key] = t
		g.order = append(g.order, key)
	}
	t.games++
	if hit {
		t.hits++
	}
	t.profit += profit
}

// periods renders buckets sorted by key, which for YYYY-MM keys is
// chronological order.
func (g *bucketGroup) periods() []domain.PeriodBreakdown {
	keys := make([]string, 0, len(g.buckets))
	for k := range g.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]domain.PeriodBreakdown, 0, len(keys))
	for _, k := range keys {
		t := g.buckets[k]
		out = append(out, domain.PeriodBreakdown{
			Period:  k,
			Games:   t.games,
			Hits:    t.hits,
			HitRate: round2(t.hitRate()),
			Profit:  round2(t.profit),
		})
	}
	return out
}

// seasons renders buckets in first-seen order. Bets are added in date order,
// so season buckets come out chronological even when labels do not sort.
func (g *bucketGroup) seasons() []domain.SeasonBreakdown {
	out := make([]domain.SeasonBreakdown, 0, len(g.order))
	for _, k := range g.order {
		t := g.buckets[k]
		out = append(out, domain.SeasonBreakdown{
			Season:  k,
			Games:   t.games,
			Hits:    t.hits,
			HitRate: round2(t.hitRate()),
			Profit:  round2(t.profit),
			ROI:     round2(t.roi()),
		})
	}
	return out
}
