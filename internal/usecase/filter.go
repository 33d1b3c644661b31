package usecase

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/epl-insights/internal/domain/dataset"
	"github.com/riskibarqy/epl-insights/internal/domain/match"
)

// Filter narrows a snapshot to the matches every aggregation runs over.
// A zero Filter selects everything. Team matching is by involvement, so a
// filtered view keeps both sides of each selected fixture.
type Filter struct {
	Teams    []string
	Seasons  []string
	From     time.Time
	To       time.Time
	GoalsMin *int
	GoalsMax *int
}

func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return fmt.Errorf("%w: from date %s is after to date %s",
			ErrInvalidInput, f.From.Format("2006-01-02"), f.To.Format("2006-01-02"))
	}
	if f.GoalsMin != nil && *f.GoalsMin < 0 {
		return fmt.Errorf("%w: goals_min must be >= 0", ErrInvalidInput)
	}
	if f.GoalsMax != nil && *f.GoalsMax < 0 {
		return fmt.Errorf("%w: goals_max must be >= 0", ErrInvalidInput)
	}
	if f.GoalsMin != nil && f.GoalsMax != nil && *f.GoalsMin > *f.GoalsMax {
		return fmt.Errorf("%w: goals_min %d is greater than goals_max %d", ErrInvalidInput, *f.GoalsMin, *f.GoalsMax)
	}
	return nil
}

func (f Filter) IsZero() bool {
	return len(f.Teams) == 0 &&
		len(f.Seasons) == 0 &&
		f.From.IsZero() &&
		f.To.IsZero() &&
		f.GoalsMin == nil &&
		f.GoalsMax == nil
}

func (f Filter) Matches(record match.Record) bool {
	if len(f.Teams) > 0 {
		found := false
		for _, team := range f.Teams {
			if record.Involves(team) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if len(f.Seasons) > 0 {
		found := false
		for _, season := range f.Seasons {
			if strings.EqualFold(strings.TrimSpace(season), record.Season) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}

	if !f.From.IsZero() && record.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && record.Date.After(f.To) {
		return false
	}

	total := record.TotalGoals()
	if f.GoalsMin != nil && total < *f.GoalsMin {
		return false
	}
	if f.GoalsMax != nil && total > *f.GoalsMax {
		return false
	}

	return true
}

// Apply preserves input order; downstream aggregations rely on it for
// stable tie-breaking.
func (f Filter) Apply(records []match.Record) []match.Record {
	if f.IsZero() {
		return records
	}

	out := make([]match.Record, 0, len(records))
	for _, record := range records {
		if f.Matches(record) {
			out = append(out, record)
		}
	}
	return out
}

// CanonicalKey is stable across equivalent filters. Season order never
// changes a result so seasons are sorted; team order does, it drives the
// standings iteration order, so it is kept as given.
func (f Filter) CanonicalKey() string {
	teams := f.Teams
	seasons := append([]string(nil), f.Seasons...)
	sort.Strings(seasons)

	var b strings.Builder
	b.WriteString("t=")
	b.WriteString(strings.Join(teams, "|"))
	b.WriteString(";s=")
	b.WriteString(strings.Join(seasons, "|"))
	b.WriteString(";from=")
	if !f.From.IsZero() {
		b.WriteString(f.From.Format("2006-01-02"))
	}
	b.WriteString(";to=")
	if !f.To.IsZero() {
		b.WriteString(f.To.Format("2006-01-02"))
	}
	b.WriteString(";gmin=")
	if f.GoalsMin != nil {
		b.WriteString(strconv.Itoa(*f.GoalsMin))
	}
	b.WriteString(";gmax=")
	if f.GoalsMax != nil {
		b.WriteString(strconv.Itoa(*f.GoalsMax))
	}
	return b.String()
}

func aggCacheKey(kind string, snapshot dataset.Snapshot, filter Filter) string {
	return "agg:" + snapshot.ID + ":" + kind + ":" + snapshot.Revision() + ":" + filter.CanonicalKey()
}

func aggCachePrefix(snapshotID string) string {
	return "agg:" + snapshotID + ":"
}
