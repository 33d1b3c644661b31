package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/epl-insights/internal/usecase"
)

// parseFilter builds the match filter from query parameters. Every analytics
// route accepts the same set: teams, seasons, from, to, goals_min, goals_max.
func parseFilter(r *http.Request) (usecase.Filter, error) {
	query := r.URL.Query()

	filter := usecase.Filter{
		Teams:   splitParam(query.Get("teams")),
		Seasons: splitParam(query.Get("seasons")),
	}

	if raw := strings.TrimSpace(query.Get("from")); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return usecase.Filter{}, fmt.Errorf("%w: invalid from date %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, raw)
		}
		filter.From = from
	}
	if raw := strings.TrimSpace(query.Get("to")); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return usecase.Filter{}, fmt.Errorf("%w: invalid to date %q, expected YYYY-MM-DD", usecase.ErrInvalidInput, raw)
		}
		filter.To = to
	}

	if raw := strings.TrimSpace(query.Get("goals_min")); raw != "" {
		goalsMin, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.Filter{}, fmt.Errorf("%w: invalid goals_min %q", usecase.ErrInvalidInput, raw)
		}
		filter.GoalsMin = &goalsMin
	}
	if raw := strings.TrimSpace(query.Get("goals_max")); raw != "" {
		goalsMax, err := strconv.Atoi(raw)
		if err != nil {
			return usecase.Filter{}, fmt.Errorf("%w: invalid goals_max %q", usecase.ErrInvalidInput, raw)
		}
		filter.GoalsMax = &goalsMax
	}

	return filter, nil
}

func splitParam(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		item := strings.TrimSpace(part)
		if item == "" {
			continue
		}
		out = append(out, item)
	}
	return out
}
